// Package config declares the process configuration surface, loaded
// from the environment via ectoenv struct tags.
package config

import "time"

// Config is the full set of environment-tunable settings for the
// matching service: HTTP health surface, database, Kafka intake, the
// worker pool, tracing, and the matching thresholds themselves.
type Config struct {
	AppName     string `env:"APP_NAME" env-default:"entity-matching" validate:"required"`
	Port        int    `env:"PORT" env-default:"3010" validate:"min=1,max=65535"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	PrettyLogs  bool   `env:"PRETTY_LOGS" env-default:"false"`

	HttpServerWriteTimeoutSeconds int `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10" validate:"min=1"`
	HttpServerReadTimeoutSeconds  int `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10" validate:"min=1"`
	HttpServerIdleTimeoutSeconds  int `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10" validate:"min=1"`
	ReadHeaderTimeoutSeconds      int `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10" validate:"min=1"`
	MaxHeaderBytes                int `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000" validate:"min=1"` // 64KB

	StartupMaxAttempts int `env:"STARTUP_MAX_ATTEMPTS" env-default:"5" validate:"min=1"`

	// PostgreSQL (system of record)
	DatabaseDriver              string        `env:"DB_DRIVER" env-default:"postgres" validate:"required"`
	DatabaseHost                string        `env:"DB_HOST" env-default:""`
	DatabasePort                string        `env:"DB_PORT" env-default:"5432" validate:"required"`
	DatabaseUserName            string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword            string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                string        `env:"DB_NAME" env-default:"entity_matching" validate:"required"`
	DatabaseSSLMode             string        `env:"DB_SQL_MODE" env-default:"disable" validate:"oneof=disable require verify-ca verify-full"`
	DatabaseReconnectRetryCount int           `env:"DB_RECONNECT_RETRY_COUNT" env-default:"3" validate:"min=0"`
	DatabaseMaxOpenConns        int           `env:"DB_MAX_OPEN_CONNS" env-default:"25" validate:"min=1"`
	DatabaseMaxIdleConns        int           `env:"DB_MAX_IDLE_CONNS" env-default:"10" validate:"min=0,ltefield=DatabaseMaxOpenConns"`
	DatabaseConnMaxLifetime     time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s" validate:"min=0"`
	DatabaseMigrationFolderPath string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg" validate:"required"`
	DatabaseMigrationVersion    int           `env:"DB_MIGRATION_VERSION" env-default:"0" validate:"min=0"`
	DatabaseMigrationForce      int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool        `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Identifier cache freshness: entries older than this are never
	// served, the cache falls through to the store instead.
	IdentifierCacheTTL time.Duration `env:"IDENTIFIER_CACHE_TTL" env-default:"5m" validate:"min=0"`

	// Kafka intake (extracted form data)
	KafkaBrokers         []string `env:"KAFKA_BROKERS" env-default:"localhost:9092" validate:"min=1,dive,required"`
	KafkaInputTopic      string   `env:"KAFKA_INPUT_TOPIC" env-default:"extracted-form-data" validate:"required"`
	KafkaConsumerGroup   string   `env:"KAFKA_CONSUMER_GROUP" env-default:"entity-matching-consumer" validate:"required"`
	KafkaConsumerEnabled bool     `env:"KAFKA_CONSUMER_ENABLED" env-default:"true"`

	// Kafka result publication
	KafkaOutputTopic  string `env:"KAFKA_OUTPUT_TOPIC" env-default:"matching-results" validate:"required"`
	KafkaBatchSize    int    `env:"KAFKA_BATCH_SIZE" env-default:"100" validate:"min=1"`
	KafkaBatchTimeout int    `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100" validate:"min=0"`
	KafkaRequiredAcks int    `env:"KAFKA_REQUIRED_ACKS" env-default:"1" validate:"oneof=-1 0 1"`
	KafkaCompression  string `env:"KAFKA_COMPRESSION" env-default:"snappy" validate:"oneof=none gzip snappy lz4 zstd"`

	// Worker pool
	WorkerPoolSize            int           `env:"WORKER_POOL_SIZE" env-default:"4" validate:"min=1"`
	WorkerPoolQueueDepth      int           `env:"WORKER_POOL_QUEUE_DEPTH" env-default:"64" validate:"min=1"`
	RecordProcessingTimeout   time.Duration `env:"RECORD_PROCESSING_TIMEOUT" env-default:"60s" validate:"min=0"`
	SecondaryExtractionWait   time.Duration `env:"SECONDARY_EXTRACTION_WAIT" env-default:"30s" validate:"min=0"`
	ShutdownGracePeriod       time.Duration `env:"SHUTDOWN_GRACE_PERIOD" env-default:"60s" validate:"min=0"`

	// Tracing
	OtelExporterType     string `env:"OTEL_EXPORTER_TYPE" env-default:"console" validate:"oneof=console otlp-grpc otlp-http"` // console|otlp-grpc|otlp-http
	OtelExporterEndpoint string `env:"OTEL_EXPORTER_ENDPOINT" env-default:"localhost:4317"`
	OtelServiceName      string `env:"OTEL_SERVICE_NAME" env-default:"entity-matching" validate:"required"`

	// Matching thresholds. These are loaded and range-checked here only:
	// cmd/matchengine builds the engine from matching.DefaultConfig(), so
	// their values do not change matching behaviour.
	LegalNameJaroWinklerThreshold  float64 `env:"LEGAL_NAME_JW_THRESHOLD" env-default:"0.85" validate:"min=0,max=1"`
	FundManagerJaroWinklerThreshold float64 `env:"FUND_MANAGER_JW_THRESHOLD" env-default:"0.70" validate:"min=0,max=1"`
	CompositeFundManagerFloor      float64 `env:"COMPOSITE_FM_FLOOR" env-default:"0.60" validate:"min=0,max=1"`
	LegalNameFloor                 float64 `env:"LEGAL_NAME_FLOOR" env-default:"0.70" validate:"min=0,max=1"`
	CrossSourceNameThreshold       float64 `env:"CROSS_SOURCE_NAME_THRESHOLD" env-default:"0.85" validate:"min=0,max=1"`
	FuzzyNameScoreFloor            float64 `env:"FUZZY_NAME_SCORE_FLOOR" env-default:"50" validate:"min=0,max=100"`
}

// Validate checks the loaded configuration against the struct tags
// above, catching operator misconfiguration (an out-of-range threshold,
// a pool size of zero) before any dependency is wired up.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return ValidationErrorToString(c, err)
	}
	return nil
}
