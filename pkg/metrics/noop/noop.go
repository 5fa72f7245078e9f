// Package noop provides a metrics client that records nothing, for tests
// and for deployments with metrics disabled.
package noop

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
)

type MetricsClient struct{}

func NewMetricsClient() MetricsClient {
	return MetricsClient{}
}

func (MetricsClient) Inc(context.Context, string, int64, ...attribute.KeyValue) {}

func (MetricsClient) Observe(context.Context, string, float64, ...attribute.KeyValue) {}

func (MetricsClient) Shutdown(context.Context) error {
	return nil
}
