package http

import (
	"fmt"
	"net/http"

	"github.com/architeacher/loaner/internal/adapters/inbound/http/handlers"
	"github.com/architeacher/loaner/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/loaner/internal/config"
	"github.com/architeacher/loaner/internal/ports"
	"github.com/architeacher/loaner/internal/usecases"
	"github.com/architeacher/loaner/pkg/logger"
	"github.com/architeacher/loaner/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/throttled/throttled/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	otelTrace "go.opentelemetry.io/otel/trace"
)

const (
	baseURL = "/v1"
)

type RouterConfig struct {
	App            *usecases.Application
	Devices        ports.DevicesService
	Database       ports.DatabaseHealthChecker
	Logger         logger.Logger
	MetricsClient  metrics.Client
	TracerProvider otelTrace.TracerProvider
	RateLimitStore throttled.GCRAStoreCtx
	Config         *config.ServiceConfig
}

func NewRouter(cfg RouterConfig) (http.Handler, error) {
	router := chi.NewRouter()

	router.Use(middleware.RequestID())
	router.Use(chimiddleware.RealIP)
	router.Use(middleware.Recovery(cfg.Logger))

	if cfg.Config.Telemetry.Metrics.Enabled {
		router.Use(middleware.Metrics(cfg.MetricsClient))
		cfg.Logger.Info().Msg("HTTP metrics collection enabled")
	}

	if cfg.Config.Logging.AccessLog.Enabled {
		router.Use(middleware.AccessLogger(cfg.Logger, cfg.Config.Logging.AccessLog.IncludeQueryParams))
	}

	health := handlers.NewHealthHandler(cfg.Database)
	router.Get("/livez", health.Liveness)
	router.Get("/readyz", health.Readiness)

	actionsHandler := handlers.NewActionsHandler(cfg.App.Actions, cfg.Devices, cfg.Logger)

	var limiter func(http.Handler) http.Handler

	if cfg.Config.RateLimiting.Enabled && cfg.RateLimitStore != nil {
		var err error

		limiter, err = middleware.RateLimiting(cfg.Config.RateLimiting, cfg.RateLimitStore, cfg.Logger)
		if err != nil {
			return nil, fmt.Errorf("creating rate limiter: %w", err)
		}

		cfg.Logger.Info().
			Uint("requests_per_second", cfg.Config.RateLimiting.RequestsPerSecond).
			Uint("burst", cfg.Config.RateLimiting.BurstSize).
			Msg("rate limiting enabled")
	}

	router.Route(baseURL, func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter)
		}

		r.Get("/actions", actionsHandler.ListActions)
		r.Post("/actions/{name}", actionsHandler.RunAction)
	})

	return otelhttp.NewHandler(
		router,
		cfg.Config.Telemetry.ServiceName,
		otelhttp.WithTracerProvider(cfg.TracerProvider),
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	), nil
}
