package infrastructure_test

import (
	"testing"

	"github.com/architeacher/loaner/internal/infrastructure"
	"github.com/architeacher/loaner/pkg/metrics"
	"github.com/architeacher/loaner/pkg/metrics/noop"
	"github.com/stretchr/testify/require"
)

func TestSampler(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		ratio    float64
		contains string
	}{
		{name: "full ratio samples everything", ratio: 1, contains: "AlwaysOnSampler"},
		{name: "zero ratio samples nothing", ratio: 0, contains: "AlwaysOffSampler"},
		{name: "partial ratio uses trace ID ratio", ratio: 0.25, contains: "TraceIDRatioBased{0.25}"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			description := infrastructure.Sampler(tc.ratio).Description()

			require.Contains(t, description, "ParentBased")
			require.Contains(t, description, tc.contains)
		})
	}
}

func TestNewTracerProvider_RejectsUnknownExporter(t *testing.T) {
	t.Parallel()

	_, _, err := infrastructure.NewTracerProvider(t.Context(), infrastructure.TracingConfig{
		ServiceName:  "svc-loaner",
		ExporterType: "zipkin",
	})

	require.ErrorContains(t, err, `unsupported exporter type "zipkin"`)
}

func TestNewTracerProvider_StdOut(t *testing.T) {
	tp, shutdown, err := infrastructure.NewTracerProvider(t.Context(), infrastructure.TracingConfig{
		ServiceName:    "svc-loaner",
		ServiceVersion: "test",
		Environment:    "development",
		ExporterType:   infrastructure.ExporterTypeStdOut,
		SamplerRatio:   0,
	})
	require.NoError(t, err)
	require.NotNil(t, tp)
	require.NoError(t, shutdown(t.Context()))
}

func TestNewMetricsClient(t *testing.T) {
	t.Parallel()

	require.IsType(t, noop.MetricsClient{}, infrastructure.NewMetricsClient(false, "svc-loaner"))
	require.IsType(t, &metrics.OTelClient{}, infrastructure.NewMetricsClient(true, "svc-loaner"))
}
