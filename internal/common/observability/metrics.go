package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	tracing       *tracing
	tracer        trace.Tracer
	evalCounter   otelmetric.Int64Counter
	evalLeakRatio otelmetric.Float64Histogram
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
}

// New wires the OTel meter to the Prometheus registry and, when
// jaegerEndpoint is non-empty, a batching span exporter.
func New(serviceName, jaegerEndpoint string, sampleRatio float64) *Observability {
	o := &Observability{tracer: noop.NewTracerProvider().Tracer(serviceName)}

	if jaegerEndpoint != "" {
		t, err := newTracing(serviceName, jaegerEndpoint, sampleRatio)
		if err != nil {
			log.Printf("Failed to create span exporter: %v", err)
		} else {
			o.tracing = t
			o.tracer = t.provider.Tracer(serviceName)
		}
	}

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return o
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	o.meterProvider = provider

	meter := provider.Meter(serviceName)

	o.evalCounter, _ = meter.Int64Counter(
		"diagnostic.evaluations",
		otelmetric.WithDescription("Diagnostic evaluations by state and tier"),
	)
	o.evalLeakRatio, _ = meter.Float64Histogram(
		"diagnostic.leak_ratio",
		otelmetric.WithDescription("Monthly burn as a share of monthly payroll"),
		otelmetric.WithExplicitBucketBoundaries(0.02, 0.05, 0.10, 0.15, 0.20, 0.25, 0.30, 0.35),
	)
	o.jobCounter, _ = meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	o.jobDuration, _ = meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)
	return o
}

// NewNoop returns an Observability that records nothing; handy in tests and
// the CLI.
func NewNoop() *Observability {
	return &Observability{tracer: noop.NewTracerProvider().Tracer("noop")}
}

// StartSpan starts a span on the configured tracer. Without an exporter the
// span is a no-op.
func (o *Observability) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return o.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (o *Observability) RecordEvaluation(ctx context.Context, state, tier string, leakRatio float64) {
	attrs := otelmetric.WithAttributes(
		attribute.String("state", state),
		attribute.String("tier", tier),
	)
	if o.evalCounter != nil {
		o.evalCounter.Add(ctx, 1, attrs)
	}
	if o.evalLeakRatio != nil {
		o.evalLeakRatio.Record(ctx, leakRatio, attrs)
	}
}

func (o *Observability) RecordJobProcessed(ctx context.Context, taskType, status string) {
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) RecordJobDuration(ctx context.Context, taskType string, duration time.Duration, status string) {
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
			attribute.String("task_type", taskType),
			attribute.String("status", status),
		))
	}
}

func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if o.meterProvider != nil {
		_ = o.meterProvider.Shutdown(ctx)
	}
	if o.tracing != nil {
		_ = o.tracing.provider.Shutdown(ctx)
	}
}
