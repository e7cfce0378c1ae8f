package auth

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

var (
	loginCounter   metric.Int64Counter = noop.Int64Counter{}
	revokedCounter metric.Int64Counter = noop.Int64Counter{}
	errorCounter   metric.Int64Counter = noop.Int64Counter{}
)

// InitMetrics registers the auth domain instruments.
func InitMetrics() error {
	meter := otel.Meter("auth")

	var err error

	loginCounter, err = meter.Int64Counter("auth.logins.total",
		metric.WithDescription("Login attempts by outcome"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return fmt.Errorf("creating login counter: %w", err)
	}

	revokedCounter, err = meter.Int64Counter("auth.tokens.revoked.total",
		metric.WithDescription("Tokens added to the blacklist"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return fmt.Errorf("creating revoked counter: %w", err)
	}

	errorCounter, err = meter.Int64Counter("auth.errors.total",
		metric.WithDescription("Total number of auth errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return fmt.Errorf("creating error counter: %w", err)
	}

	return nil
}
