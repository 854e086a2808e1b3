package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		AppName:                     "entity-matching",
		Port:                        3010,
		LogLevel:                    "info",
		HttpServerWriteTimeoutSeconds: 10,
		HttpServerReadTimeoutSeconds:  10,
		HttpServerIdleTimeoutSeconds:  10,
		ReadHeaderTimeoutSeconds:      10,
		MaxHeaderBytes:                64000,
		StartupMaxAttempts:          5,
		DatabaseDriver:              "postgres",
		DatabasePort:                "5432",
		DatabaseName:                "entity_matching",
		DatabaseSSLMode:             "disable",
		DatabaseMaxOpenConns:        25,
		DatabaseMaxIdleConns:        10,
		DatabaseMigrationFolderPath: "db/pg",
		KafkaBrokers:                []string{"localhost:9092"},
		KafkaInputTopic:             "extracted-form-data",
		KafkaConsumerGroup:          "entity-matching-consumer",
		KafkaOutputTopic:            "matching-results",
		KafkaBatchSize:              100,
		KafkaRequiredAcks:           1,
		KafkaCompression:            "snappy",
		WorkerPoolSize:              4,
		WorkerPoolQueueDepth:        64,
		OtelExporterType:            "console",
		OtelServiceName:             "entity-matching",
		LegalNameJaroWinklerThreshold:   0.85,
		FundManagerJaroWinklerThreshold: 0.70,
		CompositeFundManagerFloor:       0.60,
		LegalNameFloor:                  0.70,
		CrossSourceNameThreshold:        0.85,
		FuzzyNameScoreFloor:             50,
		IdentifierCacheTTL:              5 * time.Minute,
	}
}

func TestConfigValidateAcceptsDefaults(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestConfigValidateRejectsOutOfRangeThreshold(t *testing.T) {
	cfg := validConfig()
	cfg.LegalNameJaroWinklerThreshold = 1.5

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LegalNameJaroWinklerThreshold")
}

func TestConfigValidateRejectsZeroWorkerPoolSize(t *testing.T) {
	cfg := validConfig()
	cfg.WorkerPoolSize = 0

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "WorkerPoolSize")
}

func TestConfigValidateRejectsIdleConnsAboveOpenConns(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseMaxIdleConns = 100

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DatabaseMaxIdleConns")
}

func TestConfigValidateRejectsUnknownLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.LogLevel = "verbose"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LogLevel")
}
