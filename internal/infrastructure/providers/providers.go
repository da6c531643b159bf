package providers

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"gorm.io/gorm"

	"github.com/starcharter/orbits/internal/config"
	"github.com/starcharter/orbits/internal/infrastructure/database"
	"github.com/starcharter/orbits/internal/infrastructure/repository"
	"github.com/starcharter/orbits/internal/service"
	"github.com/starcharter/orbits/internal/usecase"
)

// NewDatabase opens a Postgres connection using the configured DSN.
func NewDatabase(conf config.Server) (*gorm.DB, error) {
	return database.NewPostgres(conf.PostgresDsn)
}

// MigrateDatabase applies migrations for the application models.
func MigrateDatabase(db *gorm.DB) error {
	return database.MigratePostgres(db)
}

// NewRecordRepository constructs the record storage adapter for the
// configured driver. Fails at startup when the adapter cannot be
// built; callers never probe adapter shape at runtime.
func NewRecordRepository(conf config.Server) (usecase.RecordRepository, error) {
	var repo usecase.RecordRepository

	switch conf.StorageDriver {
	case "", "postgres":
		db, err := NewDatabase(conf)
		if err != nil {
			return nil, errors.Wrap(err, "open postgres")
		}
		if err := MigrateDatabase(db); err != nil {
			return nil, errors.Wrap(err, "migrate postgres")
		}
		repo = repository.NewRecordRepository(db)
	case "memory":
		mem, err := repository.NewMemoryRecordRepository()
		if err != nil {
			return nil, errors.Wrap(err, "open memory store")
		}
		repo = mem
	default:
		return nil, errors.Errorf("unknown storage driver %q", conf.StorageDriver)
	}

	if conf.CacheTTLSeconds > 0 {
		repo = repository.NewCachedRecordRepository(repo, time.Duration(conf.CacheTTLSeconds)*time.Second)
	}

	return repo, nil
}

// NewRedis creates a redis client.
func NewRedis(conf config.Server) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.RedisAddr,
		Password: conf.RedisPassword,
		DB:       conf.RedisDB,
	})
}

// NewSignalStream picks the redis-backed event stream when redis is
// configured, a process-local one otherwise.
func NewSignalStream(conf config.Server) service.Stream {
	if conf.RedisAddr == "" {
		return service.NewLocalSignalService()
	}
	return service.NewSignalService(NewRedis(conf))
}

// SetupTracer installs the OTLP trace exporter and returns a shutdown
// hook for it.
func SetupTracer(ctx context.Context, conf config.Server) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(conf.TraceEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create otlp exporter")
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("orbits"),
		)),
	)
	otel.SetTracerProvider(provider)

	return provider.Shutdown, nil
}
