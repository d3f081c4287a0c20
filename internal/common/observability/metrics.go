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
)

// Observability owns the OpenTelemetry meter provider and the query level
// instruments. The prometheus exporter registers on the default registry,
// so these land on the same /metrics endpoint as the pipeline counters.
type Observability struct {
	meterProvider *metric.MeterProvider
	queryCounter  otelmetric.Int64Counter
	queryDuration otelmetric.Float64Histogram
}

// New sets up the meter provider. Exporter failures degrade to a no-op
// Observability rather than aborting startup.
func New(serviceName string) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("prometheus exporter init failed: %v", err)
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	queryCounter, _ := meter.Int64Counter(
		"copilot.queries.processed",
		otelmetric.WithDescription("Number of copilot queries processed"),
	)

	queryDuration, _ := meter.Float64Histogram(
		"copilot.queries.duration",
		otelmetric.WithDescription("End to end copilot query latency"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		queryCounter:  queryCounter,
		queryDuration: queryDuration,
	}
}

// RecordQueryProcessed counts one finished query. Safe on a nil receiver.
func (o *Observability) RecordQueryProcessed(ctx context.Context, status string) {
	if o == nil || o.queryCounter == nil {
		return
	}
	o.queryCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("status", status),
	))
}

// RecordQueryDuration records end to end latency. Safe on a nil receiver.
func (o *Observability) RecordQueryDuration(ctx context.Context, duration time.Duration, status string) {
	if o == nil || o.queryDuration == nil {
		return
	}
	o.queryDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("status", status),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	o.meterProvider.Shutdown(ctx)
}
