// Package tracing configures the process-wide OpenTelemetry tracer provider
// and carries trace context across the Kafka boundary.
package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// Options describes where spans go and how many are kept
type Options struct {
	ServiceName string
	Version     string
	Endpoint    string
	Insecure    bool
	SampleRate  float64
}

// ShutdownFunc flushes pending spans and releases the exporter
type ShutdownFunc func(context.Context) error

// Setup installs the W3C propagators and, when an endpoint is configured, an
// OTLP/HTTP exporting tracer provider. Without an endpoint the global
// provider stays a no-op and the returned shutdown does nothing.
func Setup(ctx context.Context, opts Options) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if opts.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	res, err := NewResource(opts.ServiceName, opts.Version)
	if err != nil {
		return nil, err
	}

	exporterOpts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(opts.Endpoint)}
	if opts.Insecure {
		exporterOpts = append(exporterOpts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, exporterOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	tp := NewProvider(res, sdktrace.NewBatchSpanProcessor(exporter), opts.SampleRate)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}

// NewResource describes this service. Attributes are schemaless so they merge
// with the SDK defaults regardless of which semconv version those use.
func NewResource(serviceName, version string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace resource: %w", err)
	}
	return res, nil
}

// NewProvider builds a parent-based ratio-sampled provider around processor
func NewProvider(res *resource.Resource, processor sdktrace.SpanProcessor, sampleRate float64) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRate))),
		sdktrace.WithResource(res),
		sdktrace.WithSpanProcessor(processor),
	)
}

// Tracer returns a named tracer from the global provider. It is resolved on
// every call so providers installed after package init are honored.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// Inject writes ctx's trace context into a string map suitable for message
// headers.
func Inject(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}

// Extract returns ctx enriched with the trace context found in headers
func Extract(ctx context.Context, headers map[string]string) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.MapCarrier(headers))
}
