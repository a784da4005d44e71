// internal/common/observability/metrics.go
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records scoring and job instruments through the OTel SDK,
// exported on the default Prometheus registry.
type Observability struct {
	meterProvider *metric.MeterProvider
	scored        otelmetric.Int64Counter
	scoreDuration otelmetric.Float64Histogram
	jobCounter    otelmetric.Int64Counter
	jobDuration   otelmetric.Float64Histogram
}

// New installs a global meter provider. On exporter failure it returns an
// Observability whose recorders are no-ops, along with the error.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return newWithMeter(provider, provider.Meter(serviceName)), nil
}

func newWithMeter(provider *metric.MeterProvider, meter otelmetric.Meter) *Observability {
	scored, _ := meter.Int64Counter(
		"assessments.scored",
		otelmetric.WithDescription("Number of assessments scored"),
	)
	scoreDuration, _ := meter.Float64Histogram(
		"assessments.duration",
		otelmetric.WithDescription("Assessment scoring duration"),
		otelmetric.WithUnit("ms"),
	)
	jobCounter, _ := meter.Int64Counter(
		"jobs.processed",
		otelmetric.WithDescription("Number of jobs processed"),
	)
	jobDuration, _ := meter.Float64Histogram(
		"jobs.duration",
		otelmetric.WithDescription("Job processing duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		scored:        scored,
		scoreDuration: scoreDuration,
		jobCounter:    jobCounter,
		jobDuration:   jobDuration,
	}
}

// RecordAssessment counts one scored assessment for domain.
func (o *Observability) RecordAssessment(ctx context.Context, domain string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(attribute.String("domain", domain))
	if o.scored != nil {
		o.scored.Add(ctx, 1, attrs)
	}
	if o.scoreDuration != nil {
		o.scoreDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
}

func (o *Observability) RecordJob(ctx context.Context, taskType, status string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	)
	if o.jobCounter != nil {
		o.jobCounter.Add(ctx, 1, attrs)
	}
	if o.jobDuration != nil {
		o.jobDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown(ctx context.Context) error {
	if o == nil || o.meterProvider == nil {
		return nil
	}
	return o.meterProvider.Shutdown(ctx)
}
