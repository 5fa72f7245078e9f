package runtime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/architeacher/loaner/internal/adapters/repos"
	"github.com/architeacher/loaner/internal/config"
	"github.com/architeacher/loaner/internal/infrastructure"
	"github.com/architeacher/loaner/internal/services"
	"github.com/architeacher/loaner/internal/usecases"
	"github.com/architeacher/loaner/pkg/circuitbreaker"
	"github.com/architeacher/loaner/pkg/logger"
	"github.com/architeacher/loaner/pkg/metrics"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/throttled/throttled/v2"
	otelTrace "go.opentelemetry.io/otel/trace"
)

type (
	infrastructureDep struct {
		httpServer     *http.Server
		tracerProvider otelTrace.TracerProvider
		metricsClient  metrics.Client
		logger         logger.Logger
		dbPool         *pgxpool.Pool
		breaker        *circuitbreaker.Breaker
		cacheClient    *infrastructure.KeydbClient
	}

	repositories struct {
		deviceRepo     *repos.DevicesRepository
		rateLimitStore throttled.GCRAStoreCtx
	}

	dependencies struct {
		config         *config.ServiceConfig
		infra          infrastructureDep
		repos          repositories
		devicesService *services.DevicesService
		app            *usecases.Application

		cleanups []cleanup
	}

	// cleanup releases one named resource during shutdown.
	cleanup struct {
		resource string
		fn       func(ctx context.Context) error
	}

	DependencyOption func(*dependencies) error
)

func initializeDependencies(ctx context.Context, opts ...DependencyOption) (*dependencies, error) {
	deps := &dependencies{}

	allOpts := append(defaultOptions(ctx), opts...)

	for _, opt := range allOpts {
		if err := opt(deps); err != nil {
			return nil, fmt.Errorf("failed to apply dependency option: %w", err)
		}
	}

	return deps, nil
}

// registerCleanup queues fn to run at shutdown. Resources are released in
// reverse registration order so the HTTP server stops before the pool closes.
func (d *dependencies) registerCleanup(resource string, fn func(ctx context.Context) error) {
	d.cleanups = append(d.cleanups, cleanup{resource: resource, fn: fn})
}
