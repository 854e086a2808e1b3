// Command matchengine is the process entrypoint: it loads configuration,
// wires the database, tracing, Kafka intake/result transport and the
// matching worker pool together, and serves the health/readiness HTTP
// surface until told to shut down.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
	otelecho "go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/fmateoc/entity-matching/internal/config"
	"github.com/fmateoc/entity-matching/internal/intake"
	"github.com/fmateoc/entity-matching/internal/platform/container"
	"github.com/fmateoc/entity-matching/internal/platform/database"
	"github.com/fmateoc/entity-matching/internal/platform/httpmid"
	"github.com/fmateoc/entity-matching/internal/platform/reqcontext"
	"github.com/fmateoc/entity-matching/internal/platform/startup"
	"github.com/fmateoc/entity-matching/internal/platform/tracing"
	"github.com/fmateoc/entity-matching/internal/platform/tracing/exporters"
	"github.com/fmateoc/entity-matching/internal/store/postgres"
	"github.com/fmateoc/entity-matching/pkg/batch"
	"github.com/fmateoc/entity-matching/pkg/matching"
	"github.com/fmateoc/entity-matching/pkg/model"
)

func main() {
	var cfg config.Config
	if err := ectoenv.ReadEnv(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)

	shutdownTracer, err := setupTracing(cfg)
	if err != nil {
		logger.WithError(err).Error("failed to set up tracing, continuing without it")
	}
	defer shutdownTracer()

	sqlxDB, err := openDatabase(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}

	if err := runMigrations(cfg, logger, sqlxDB); err != nil {
		logger.WithError(err).Fatal("failed to apply database migrations")
	}

	db := database.NewDatabaseInstance(sqlxDB, logger)

	repo := postgres.New(db, logger, cfg.IdentifierCacheTTL, 1000)

	engine := matching.NewEngine(logger, repo, matching.DefaultConfig())
	processor := matching.NewProcessor(logger, engine)

	producer := intake.NewProducer(intake.ProducerConfig{
		Brokers:      cfg.KafkaBrokers,
		Topic:        cfg.KafkaOutputTopic,
		BatchSize:    cfg.KafkaBatchSize,
		BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
		RequiredAcks: cfg.KafkaRequiredAcks,
		Compression:  cfg.KafkaCompression,
	}, logger)

	// consumer is forward-declared because resultHandler, built below to
	// hand to the pool, needs to call consumer.Complete once a record's
	// result has actually been published: the offset must not be
	// committed just because the record was accepted onto the queue.
	var consumer *intake.Consumer

	pool := batch.NewPool(logger, processor, resultHandler(logger, producer, &consumer), batch.Config{
		Size:          cfg.WorkerPoolSize,
		RecordTimeout: cfg.RecordProcessingTimeout,
		QueueDepth:    cfg.WorkerPoolQueueDepth,
		DependsOn:     []string{"intake-consumer"},
	})

	consumer = intake.NewConsumer(intake.ConsumerConfig{
		Brokers:       cfg.KafkaBrokers,
		Topic:         cfg.KafkaInputTopic,
		ConsumerGroup: cfg.KafkaConsumerGroup,
	}, logger, func(ctx context.Context, record batch.Record) error {
		return pool.Submit(ctx, record)
	})

	orchestrator := startup.New(logger, cfg.StartupMaxAttempts)
	orchestrator.AddDependency(consumer)
	orchestrator.AddDependency(pool)

	rootCtx := container.Build(context.Background(), container.Dependencies{
		DB:       db,
		Store:    repo,
		Pool:     pool,
		Consumer: consumer,
		Producer: producer,
	})

	ctx, stop := signal.NotifyContext(rootCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.KafkaConsumerEnabled {
		if err := orchestrator.Start(ctx); err != nil {
			logger.WithError(err).Fatal("failed to start dependencies")
		}
	}

	e := newHealthServer(cfg, logger, db, consumer)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("health server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("error shutting down health server")
	}
	if err := orchestrator.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("error stopping dependencies")
	}
	if err := producer.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("error stopping result producer")
	}
}

// resultHandler publishes a completed record's result and then signals the
// consumer so it can commit (or skip committing) that record's offset.
// consumerRef is a pointer because the Consumer it points to is constructed
// after the pool this handler is wired into.
func resultHandler(logger ectologger.Logger, producer *intake.Producer, consumerRef **intake.Consumer) batch.ResultHandler {
	return func(ctx context.Context, record batch.Record, result model.ProcessingResult) {
		tenant := reqcontext.GetTenantID(ctx)
		err := producer.PublishResult(ctx, tenant, record.ID, result)
		if err != nil {
			logger.WithContext(ctx).WithError(err).Errorf("failed to publish result for record %s", record.ID)
		}
		if c := *consumerRef; c != nil {
			c.Complete(record.ID, err)
		}
	}
}

func newLogger(cfg config.Config) ectologger.Logger {
	pretty := cfg.PrettyLogs
	return ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		if pretty {
			fmt.Printf("%+v\n", msg)
			return
		}
		data, err := json.Marshal(msg)
		if err != nil {
			fmt.Printf("%+v\n", msg)
			return
		}
		fmt.Println(string(data))
	})
}

func setupTracing(cfg config.Config) (func(), error) {
	ctx := context.Background()

	var exporter sdktrace.SpanExporter
	var err error

	switch cfg.OtelExporterType {
	case "otlp-grpc":
		otlpExp, expErr := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
			Endpoint: cfg.OtelExporterEndpoint,
			Protocol: "grpc",
			Insecure: true,
			Timeout:  10 * time.Second,
		})
		exporter, err = otlpExp, expErr
	case "otlp-http":
		otlpExp, expErr := exporters.NewOTLPExporter(ctx, exporters.OTLPConfig{
			Endpoint: cfg.OtelExporterEndpoint,
			Protocol: "http",
			Insecure: true,
			Timeout:  10 * time.Second,
		})
		exporter, err = otlpExp, expErr
	default:
		exporter = &exporters.ConsoleExporter{}
	}
	if err != nil {
		return func() {}, err
	}

	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)
	tracing.SetTracer(provider.Tracer(cfg.OtelServiceName))

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = provider.Shutdown(shutdownCtx)
	}, nil
}

func openDatabase(cfg config.Config) (*sqlx.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUserName, cfg.DatabasePassword,
		cfg.DatabaseName, cfg.DatabaseSSLMode)

	sqlxDB, err := sqlx.Connect(cfg.DatabaseDriver, dsn)
	if err != nil {
		return nil, err
	}

	sqlxDB.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	sqlxDB.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	sqlxDB.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)

	return sqlxDB, nil
}

// runMigrations brings the customer schema up to date before any repository
// or worker depends on it. It runs once, synchronously, at process startup.
func runMigrations(cfg config.Config, logger ectologger.Logger, sqlxDB *sqlx.DB) error {
	driver, err := migratepg.WithInstance(sqlxDB.DB, &migratepg.Config{})
	if err != nil {
		return err
	}

	migrationSvc := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: cfg.DatabaseMigrationFolderPath,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})

	return migrationSvc.Migrate(cfg.DatabaseName, driver)
}

func newHealthServer(cfg config.Config, logger ectologger.Logger, db database.DB, consumer *intake.Consumer) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(otelecho.Middleware(cfg.OtelServiceName))
	e.Use(httpmid.Context())
	e.Use(httpmid.Logger(logger))
	e.HTTPErrorHandler = httpmid.Error(logger)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/readyz", func(c echo.Context) error {
		if err := db.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "database unreachable"})
		}
		if !consumer.Health() {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "kafka consumer unhealthy"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ready"})
	})

	return e
}
