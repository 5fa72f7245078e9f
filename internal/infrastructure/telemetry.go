package infrastructure

import (
	"context"
	"fmt"
	"strings"

	"github.com/architeacher/loaner/pkg/metrics"
	"github.com/architeacher/loaner/pkg/metrics/noop"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	otelTrace "go.opentelemetry.io/otel/trace"
	traceNoop "go.opentelemetry.io/otel/trace/noop"
)

const (
	ExporterTypeGRPC   = "grpc"
	ExporterTypeStdOut = "stdout"
)

type (
	ShutdownFunc func(ctx context.Context) error

	TracingConfig struct {
		ServiceName    string
		ServiceVersion string
		Environment    string
		ExporterType   string
		Endpoint       string
		SamplerRatio   float64
	}
)

// NewTracerProvider exports spans through the configured exporter and
// installs the provider and a W3C propagator globally.
func NewTracerProvider(ctx context.Context, cfg TracingConfig) (otelTrace.TracerProvider, ShutdownFunc, error) {
	exporter, err := createExporter(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentName(cfg.Environment),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(Sampler(cfg.SamplerRatio)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, tp.Shutdown, nil
}

func createExporter(ctx context.Context, cfg TracingConfig) (sdktrace.SpanExporter, error) {
	switch strings.ToLower(cfg.ExporterType) {
	case ExporterTypeGRPC, "":
		exporter, err := otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, fmt.Errorf("creating OTLP trace exporter: %w", err)
		}

		return exporter, nil
	case ExporterTypeStdOut:
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("creating stdout trace exporter: %w", err)
		}

		return exporter, nil
	default:
		return nil, fmt.Errorf("unsupported exporter type %q", cfg.ExporterType)
	}
}

// Sampler honors the parent decision and samples root spans by ratio.
func Sampler(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.ParentBased(sdktrace.NeverSample())
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

func NewNoopTracerProvider() otelTrace.TracerProvider {
	return traceNoop.NewTracerProvider()
}

// NewMetricsClient records on the global meter provider when enabled, so an
// SDK provider installed by the host process receives the measurements.
func NewMetricsClient(enabled bool, serviceName string) metrics.Client {
	if !enabled {
		return noop.NewMetricsClient()
	}

	return metrics.NewOTelClient(otel.GetMeterProvider().Meter(serviceName), nil)
}
