package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/architeacher/loaner/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
)

const (
	httpMethodKey     = "http.method"
	httpRouteKey      = "http.route"
	httpStatusCodeKey = "http.status_code"

	httpRequestTotal    = "http_requests_total"
	httpRequestDuration = "http_request_duration_seconds"
)

// Metrics counts requests and observes their latency, labelled by the
// matched route pattern rather than the raw path.
func Metrics(metricsClient metrics.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := newStatusRecorder(w)

			next.ServeHTTP(recorder, r)

			attrs := []attribute.KeyValue{
				attribute.String(httpMethodKey, r.Method),
				attribute.String(httpRouteKey, routePattern(r)),
				attribute.String(httpStatusCodeKey, strconv.Itoa(recorder.statusCode)),
			}

			metricsClient.Inc(r.Context(), httpRequestTotal, 1, attrs...)
			metricsClient.Observe(r.Context(), httpRequestDuration, time.Since(start).Seconds(), attrs...)
		})
	}
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	return "unmatched"
}
