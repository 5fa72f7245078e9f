package runtime

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"

	inboundhttp "github.com/architeacher/loaner/internal/adapters/inbound/http"
	"github.com/architeacher/loaner/internal/adapters/repos"
	"github.com/architeacher/loaner/internal/config"
	"github.com/architeacher/loaner/internal/infrastructure"
	infraPostgres "github.com/architeacher/loaner/internal/infrastructure/postgres"
	"github.com/architeacher/loaner/internal/services"
	"github.com/architeacher/loaner/internal/usecases"
	"github.com/architeacher/loaner/pkg/circuitbreaker"
	"github.com/architeacher/loaner/pkg/logger"
	"github.com/throttled/throttled/v2/store/memstore"
)

func defaultOptions(ctx context.Context) []DependencyOption {
	return []DependencyOption{
		WithConfig(),
		WithLogger(),
		WithTracing(ctx),
		WithMetrics(),
		WithDatabase(ctx),
		WithDevicesRepository(),
		WithCircuitBreaker(),
		WithDevicesService(),
		WithApplication(),
		WithCache(ctx),
		WithRateLimitStore(),
		WithHTTPServer(),
	}
}

func WithConfig() DependencyOption {
	return func(d *dependencies) error {
		cfg, err := config.Init()
		if err != nil {
			return fmt.Errorf("initializing configuration: %w", err)
		}

		d.config = cfg

		return nil
	}
}

func WithLogger() DependencyOption {
	return func(d *dependencies) error {
		d.infra.logger = logger.New(d.config.Logging.Level, d.config.Logging.Format)

		return nil
	}
}

func WithTracing(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.Telemetry.Traces.Enabled {
			d.infra.tracerProvider = infrastructure.NewNoopTracerProvider()

			return nil
		}

		tp, shutdown, err := infrastructure.NewTracerProvider(ctx, infrastructure.TracingConfig{
			ServiceName:    d.config.Telemetry.ServiceName,
			ServiceVersion: d.config.App.ServiceVersion,
			Environment:    d.config.App.Env.Name,
			ExporterType:   d.config.Telemetry.ExporterType,
			Endpoint:       d.config.Telemetry.OTLPEndpoint,
			SamplerRatio:   d.config.Telemetry.Traces.SamplerRatio,
		})
		if err != nil {
			return fmt.Errorf("initializing tracer: %w", err)
		}

		d.infra.tracerProvider = tp
		d.registerCleanup("tracer", shutdown)

		return nil
	}
}

func WithMetrics() DependencyOption {
	return func(d *dependencies) error {
		d.infra.metricsClient = infrastructure.NewMetricsClient(
			d.config.Telemetry.Metrics.Enabled,
			d.config.Telemetry.ServiceName,
		)
		d.registerCleanup("metrics", d.infra.metricsClient.Shutdown)

		return nil
	}
}

func WithDatabase(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		pool, err := infraPostgres.NewPool(ctx, d.config.Database, d.infra.logger)
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}

		d.infra.dbPool = pool
		d.registerCleanup("database", func(context.Context) error {
			pool.Close()

			return nil
		})

		return nil
	}
}

func WithDevicesRepository() DependencyOption {
	return func(d *dependencies) error {
		d.repos.deviceRepo = repos.NewDevicesRepository(d.infra.dbPool, repos.NewPgxScanner(), d.infra.logger)

		return nil
	}
}

func WithCircuitBreaker() DependencyOption {
	return func(d *dependencies) error {
		cfg := d.config.CircuitBreaker

		d.infra.breaker = circuitbreaker.New(circuitbreaker.Config{
			Name:             "devices-db",
			Enabled:          cfg.Enabled,
			MaxRequests:      cfg.MaxRequests,
			Interval:         cfg.Interval,
			Timeout:          cfg.Timeout,
			FailureThreshold: cfg.FailureThreshold,
			Ignore:           services.IsBusinessOutcome,
			OnStateChange: func(name, from, to string) {
				d.infra.logger.Warn().
					Str("breaker", name).
					Str("from", from).
					Str("to", to).
					Msg("circuit breaker state changed")
			},
		})

		return nil
	}
}

func WithDevicesService() DependencyOption {
	return func(d *dependencies) error {
		d.devicesService = services.NewDevicesService(d.repos.deviceRepo, d.infra.breaker, d.infra.logger)

		return nil
	}
}

func WithApplication() DependencyOption {
	return func(d *dependencies) error {
		app, err := usecases.NewApplication(
			d.config.Actions.AdminUsername,
			d.infra.logger,
			d.infra.metricsClient,
			d.infra.tracerProvider,
		)
		if err != nil {
			return fmt.Errorf("initializing application: %w", err)
		}

		d.app = app

		return nil
	}
}

// WithCache connects the shared cache when the rate limiter is backed by it.
func WithCache(ctx context.Context) DependencyOption {
	return func(d *dependencies) error {
		if !d.config.RateLimiting.Enabled || d.config.RateLimiting.Store != config.RateLimitStoreRedis {
			return nil
		}

		client := infrastructure.NewKeyDBClient(d.config.Cache, d.infra.logger)

		if err := client.Ping(ctx); err != nil {
			_ = client.Close(ctx)

			return fmt.Errorf("connecting to cache at %s: %w", d.config.Cache.Address, err)
		}

		d.infra.cacheClient = client
		d.registerCleanup("cache", client.Close)

		return nil
	}
}

func WithRateLimitStore() DependencyOption {
	return func(d *dependencies) error {
		if !d.config.RateLimiting.Enabled {
			return nil
		}

		if d.infra.cacheClient != nil {
			d.repos.rateLimitStore = repos.NewRateLimitStore(d.infra.cacheClient)

			return nil
		}

		store, err := memstore.NewCtx(d.config.RateLimiting.MaxKeys)
		if err != nil {
			return fmt.Errorf("creating rate limit store: %w", err)
		}

		d.repos.rateLimitStore = store

		return nil
	}
}

func WithHTTPServer() DependencyOption {
	return func(d *dependencies) error {
		router, err := inboundhttp.NewRouter(inboundhttp.RouterConfig{
			App:            d.app,
			Devices:        d.devicesService,
			Database:       d.repos.deviceRepo,
			Logger:         d.infra.logger,
			MetricsClient:  d.infra.metricsClient,
			TracerProvider: d.infra.tracerProvider,
			RateLimitStore: d.repos.rateLimitStore,
			Config:         d.config,
		})
		if err != nil {
			return fmt.Errorf("building router: %w", err)
		}

		cfg := d.config.HTTPServer

		d.infra.httpServer = &http.Server{
			Addr:              net.JoinHostPort(cfg.Host, strconv.FormatUint(uint64(cfg.Port), 10)),
			Handler:           router,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
		}
		d.registerCleanup("http_server", d.infra.httpServer.Shutdown)

		return nil
	}
}
