package metrics

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type (
	Client interface {
		Inc(ctx context.Context, key string, value int64, attributes ...attribute.KeyValue)
		Observe(ctx context.Context, key string, value float64, attributes ...attribute.KeyValue)
		Shutdown(ctx context.Context) error
	}

	// Descriptor defines metadata used when registering OTEL instruments.
	Descriptor struct {
		Description string
		Unit        string
	}

	// OTelClient records counters and histograms on an OTEL meter,
	// registering each instrument the first time its key is seen.
	OTelClient struct {
		meter      metric.Meter
		shutdown   func(context.Context) error
		mu         sync.Mutex
		counters   map[string]metric.Int64Counter
		histograms map[string]metric.Float64Histogram
	}
)

func NewOTelClient(meter metric.Meter, shutdown func(context.Context) error) *OTelClient {
	return &OTelClient{
		meter:      meter,
		shutdown:   shutdown,
		counters:   make(map[string]metric.Int64Counter),
		histograms: make(map[string]metric.Float64Histogram),
	}
}

func (c *OTelClient) Inc(ctx context.Context, key string, value int64, attributes ...attribute.KeyValue) {
	c.mu.Lock()
	counter, ok := c.counters[key]
	if !ok {
		var err error

		counter, err = RegisterInt64Counter(c.meter, Descriptor{Unit: "1"}, key)
		if err != nil {
			c.mu.Unlock()

			return
		}

		c.counters[key] = counter
	}
	c.mu.Unlock()

	counter.Add(ctx, value, metric.WithAttributes(attributes...))
}

func (c *OTelClient) Observe(ctx context.Context, key string, value float64, attributes ...attribute.KeyValue) {
	c.mu.Lock()
	histogram, ok := c.histograms[key]
	if !ok {
		var err error

		histogram, err = RegisterFloat64Histogram(c.meter, Descriptor{Unit: "s"}, key)
		if err != nil {
			c.mu.Unlock()

			return
		}

		c.histograms[key] = histogram
	}
	c.mu.Unlock()

	histogram.Record(ctx, value, metric.WithAttributes(attributes...))
}

func (c *OTelClient) Shutdown(ctx context.Context) error {
	if c.shutdown == nil {
		return nil
	}

	return c.shutdown(ctx)
}

// RegisterInt64Counter creates an Int64 counter from the descriptor.
func RegisterInt64Counter(m metric.Meter, descriptor Descriptor, name string) (metric.Int64Counter, error) {
	counter, err := m.Int64Counter(
		name,
		metric.WithDescription(descriptor.Description),
		metric.WithUnit(descriptor.Unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s counter: %w", name, err)
	}

	return counter, nil
}

// RegisterFloat64Histogram creates a Float64 histogram from the descriptor.
func RegisterFloat64Histogram(m metric.Meter, descriptor Descriptor, name string) (metric.Float64Histogram, error) {
	histogram, err := m.Float64Histogram(
		name,
		metric.WithDescription(descriptor.Description),
		metric.WithUnit(descriptor.Unit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s histogram: %w", name, err)
	}

	return histogram, nil
}
