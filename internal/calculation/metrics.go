package calculation

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	mutationCounter metric.Int64Counter     = noop.Int64Counter{}
	inputsHistogram metric.Int64Histogram   = noop.Int64Histogram{}
	errorCounter    metric.Int64Counter     = noop.Int64Counter{}
	storeHistogram  metric.Float64Histogram = noop.Float64Histogram{}
)

// InitMetrics registers the calculation record instruments.
func InitMetrics() error {
	meter := otel.Meter("calculation")

	var err error

	mutationCounter, err = meter.Int64Counter("calculation.mutations.total",
		metric.WithDescription("Calculation records created, updated or deleted"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return fmt.Errorf("creating mutation counter: %w", err)
	}

	inputsHistogram, err = meter.Int64Histogram("calculation.inputs",
		metric.WithDescription("Number of inputs per stored calculation"),
		metric.WithUnit("{input}"),
		metric.WithExplicitBucketBoundaries(2, 3, 5, 10, 25, 50, 100),
	)
	if err != nil {
		return fmt.Errorf("creating inputs histogram: %w", err)
	}

	storeHistogram, err = meter.Float64Histogram("calculation.store.duration",
		metric.WithDescription("Duration of calculation store calls in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return fmt.Errorf("creating store histogram: %w", err)
	}

	errorCounter, err = meter.Int64Counter("calculation.errors.total",
		metric.WithDescription("Total number of calculation record errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
