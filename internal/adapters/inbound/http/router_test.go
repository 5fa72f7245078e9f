package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	inboundhttp "github.com/architeacher/loaner/internal/adapters/inbound/http"
	"github.com/architeacher/loaner/internal/adapters/inbound/http/middleware"
	"github.com/architeacher/loaner/internal/config"
	"github.com/architeacher/loaner/internal/domain/model"
	"github.com/architeacher/loaner/internal/infrastructure"
	"github.com/architeacher/loaner/internal/ports"
	"github.com/architeacher/loaner/internal/usecases"
	"github.com/architeacher/loaner/pkg/logger"
	"github.com/architeacher/loaner/pkg/metrics/noop"
	"github.com/stretchr/testify/suite"
	"github.com/throttled/throttled/v2/store/memstore"
)

type (
	RouterTestSuite struct {
		suite.Suite
	}

	lockRecorder struct {
		actors []string
	}

	staticDevices struct {
		device *lockRecorder
	}

	healthyDatabase struct{}
)

func (d *lockRecorder) Lock(_ context.Context, actor string) error {
	d.actors = append(d.actors, actor)

	return nil
}

func (s staticDevices) ResolveDevice(context.Context, model.DeviceLookup) (ports.LockableDevice, error) {
	return s.device, nil
}

func (healthyDatabase) Ping(context.Context) error {
	return nil
}

func TestRouterTestSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) newRouter(device *lockRecorder, rateLimit config.RateLimiting) http.Handler {
	log := logger.NewTestLogger()
	tp := infrastructure.NewNoopTracerProvider()

	app, err := usecases.NewApplication("loaner-admin", log, noop.NewMetricsClient(), tp)
	s.Require().NoError(err)

	store, err := memstore.NewCtx(100)
	s.Require().NoError(err)

	cfg := &config.ServiceConfig{
		RateLimiting: rateLimit,
		Logging: config.Logging{
			AccessLog: config.AccessLog{Enabled: true},
		},
		Telemetry: config.Telemetry{
			ServiceName: "svc-loaner",
			Metrics:     config.Metrics{Enabled: true},
		},
	}

	router, err := inboundhttp.NewRouter(inboundhttp.RouterConfig{
		App:            app,
		Devices:        staticDevices{device: device},
		Database:       healthyDatabase{},
		Logger:         log,
		MetricsClient:  noop.NewMetricsClient(),
		TracerProvider: tp,
		RateLimitStore: store,
		Config:         cfg,
	})
	s.Require().NoError(err)

	return router
}

func (s *RouterTestSuite) TestNewRouter_RoutesRegistered() {
	device := &lockRecorder{}
	router := s.newRouter(device, config.RateLimiting{})

	cases := []struct {
		name           string
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{
			name:           "GET /livez",
			method:         http.MethodGet,
			path:           "/livez",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "GET /readyz",
			method:         http.MethodGet,
			path:           "/readyz",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "GET /v1/actions",
			method:         http.MethodGet,
			path:           "/v1/actions",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "POST /v1/actions/lock_device",
			method:         http.MethodPost,
			path:           "/v1/actions/lock_device",
			body:           `{"device":{"serial_number":"SN-1"}}`,
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "GET /v1/actions/lock_device is not allowed",
			method:         http.MethodGet,
			path:           "/v1/actions/lock_device",
			expectedStatus: http.StatusMethodNotAllowed,
		},
		{
			name:           "unknown route",
			method:         http.MethodGet,
			path:           "/v2/actions",
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			s.Require().Equal(tc.expectedStatus, rec.Code)
			s.Require().NotEmpty(rec.Header().Get(middleware.RequestIDHeader))
		})
	}

	s.Require().Equal([]string{"loaner-admin"}, device.actors)
}

func (s *RouterTestSuite) TestNewRouter_RateLimitsActions() {
	router := s.newRouter(&lockRecorder{}, config.RateLimiting{
		Enabled:           true,
		RequestsPerSecond: 1,
		BurstSize:         0,
	})

	statuses := make([]int, 0, 2)
	for range 2 {
		req := httptest.NewRequest(http.MethodGet, "/v1/actions", nil)
		req.RemoteAddr = "10.1.1.1:4000"

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		statuses = append(statuses, rec.Code)
	}

	s.Require().Equal([]int{http.StatusOK, http.StatusTooManyRequests}, statuses)

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.RemoteAddr = "10.1.1.1:4000"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)
}
