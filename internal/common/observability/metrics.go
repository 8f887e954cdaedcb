package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Observability records index round trips and opens spans around core calls.
// A nil *Observability is valid and records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	tracer        trace.Tracer
	indexRequests otelmetric.Int64Counter
	indexDuration otelmetric.Float64Histogram
}

// New exports metrics through the Prometheus default registry and traces
// through the global tracer provider.
func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{tracer: otel.Tracer(serviceName)}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return build(serviceName, provider, otel.GetTracerProvider())
}

// NewWithReader wires explicit providers, used by tests.
func NewWithReader(serviceName string, reader metric.Reader, tp trace.TracerProvider) *Observability {
	return build(serviceName, metric.NewMeterProvider(metric.WithReader(reader)), tp)
}

func build(serviceName string, provider *metric.MeterProvider, tp trace.TracerProvider) *Observability {
	meter := provider.Meter(serviceName)

	indexRequests, _ := meter.Int64Counter(
		"hotel.index.requests",
		otelmetric.WithDescription("Number of requests sent to the hotel index"),
	)

	indexDuration, _ := meter.Float64Histogram(
		"hotel.index.duration",
		otelmetric.WithDescription("Hotel index round trip duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		tracer:        tp.Tracer(serviceName),
		indexRequests: indexRequests,
		indexDuration: indexDuration,
	}
}

// StartSpan opens a span named name. The caller ends it.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if o == nil || o.tracer == nil {
		return noop.NewTracerProvider().Tracer("").Start(ctx, name)
	}
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// EndSpan records err, if any, and ends span.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// RecordIndexRequest counts one index round trip and its duration.
func (o *Observability) RecordIndexRequest(ctx context.Context, operation, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("status", status),
	)
	if o.indexRequests != nil {
		o.indexRequests.Add(ctx, 1, attrs)
	}
	if o.indexDuration != nil {
		o.indexDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = o.meterProvider.Shutdown(ctx)
	}
}
