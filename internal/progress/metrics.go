package progress

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/thebtf/momentum/internal/progress"

// instruments are recorded against the global meter provider, which is a
// no-op until the host installs one.
type instruments struct {
	summaries  metric.Int64Counter
	derived    metric.Int64Counter
	activities metric.Int64Counter
	milestones metric.Int64Counter
	failures   metric.Int64Counter
	momentum   metric.Int64Histogram
}

func newInstruments() *instruments {
	meter := otel.Meter(meterName)
	fallback := noop.NewMeterProvider().Meter(meterName)

	counter := func(name, desc string) metric.Int64Counter {
		c, err := meter.Int64Counter(name, metric.WithDescription(desc))
		if err != nil {
			c, _ = fallback.Int64Counter(name)
		}
		return c
	}

	momentum, err := meter.Int64Histogram("momentum.score",
		metric.WithDescription("Momentum score of computed summaries"),
		metric.WithExplicitBucketBoundaries(0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100),
	)
	if err != nil {
		momentum, _ = fallback.Int64Histogram("momentum.score")
	}

	return &instruments{
		summaries:  counter("momentum.summaries", "Progress summaries computed"),
		derived:    counter("momentum.weeks_derived", "Current weeks derived from the raw interaction log"),
		activities: counter("momentum.activities_tracked", "Activities recorded"),
		milestones: counter("momentum.milestones_updated", "Milestones created or updated"),
		failures:   counter("momentum.storage_failures", "Operations aborted by a storage failure"),
		momentum:   momentum,
	}
}

func (m *instruments) recordSummary(ctx context.Context, score int) {
	m.summaries.Add(ctx, 1)
	m.momentum.Record(ctx, int64(score))
}

func (m *instruments) recordFailure(ctx context.Context, op string) {
	m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

func (m *instruments) recordActivity(ctx context.Context, activityType string) {
	m.activities.Add(ctx, 1, metric.WithAttributes(attribute.String("activity_type", activityType)))
}
