package main

import (
	"context"
	"errors"

	"go-chi-calculator/internal/auth"
	"go-chi-calculator/internal/calculation"
	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
)

// initTelemetry starts the OTLP trace, metric and log pipelines and registers
// the domain instruments. Add new domain InitMetrics calls here as the project
// grows. The returned shutdown flushes every pipeline that was started.
func initTelemetry(ctx context.Context, cfg config.TelemetryConfig) (func(context.Context) error, error) {
	var shutdowns []func(context.Context) error
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(shutdowns) - 1; i >= 0; i-- {
			errs = append(errs, shutdowns[i](ctx))
		}
		return errors.Join(errs...)
	}

	if !cfg.Enabled {
		return shutdown, nil
	}

	traceShutdown, err := observability.InitTracing(ctx, cfg.ServiceName, cfg.SampleRatio)
	if err != nil {
		return nil, err
	}
	shutdowns = append(shutdowns, traceShutdown)

	metricShutdown, err := observability.InitMetrics(ctx, cfg.ServiceName)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}
	shutdowns = append(shutdowns, metricShutdown)

	logShutdown, err := observability.InitLogging(ctx, cfg.ServiceName)
	if err != nil {
		return nil, errors.Join(err, shutdown(ctx))
	}
	shutdowns = append(shutdowns, logShutdown)

	for _, initMetrics := range []func() error{
		calculator.InitMetrics,
		calculation.InitMetrics,
		auth.InitMetrics,
	} {
		if err := initMetrics(); err != nil {
			return nil, errors.Join(err, shutdown(ctx))
		}
	}

	return shutdown, nil
}
