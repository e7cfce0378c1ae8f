package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/storage"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func runServe(ctx context.Context, cfg *config.Config) error {
	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return err
	}
	return serve(ctx, cfg, ln)
}

// serve runs the server on ln until ctx is cancelled, then shuts it down
// gracefully and releases every resource.
func serve(ctx context.Context, cfg *config.Config, ln net.Listener) error {
	telemetryShutdown, err := initTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		ln.Close()
		return err
	}
	defer func() {
		if err := telemetryShutdown(context.Background()); err != nil {
			observability.Logger.Error("telemetry shutdown failed", zap.Error(err))
		}
	}()

	a, err := newApp(ctx, cfg)
	if err != nil {
		ln.Close()
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Handler:      a.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		observability.Logger.Info("server started", zap.String("addr", ln.Addr().String()))

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		observability.Logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func runMigrate(cfg *config.Config) error {
	db, err := storage.Open(cfg.Database)
	if err != nil {
		return err
	}
	defer storage.Close(db)

	if err := storage.Migrate(db, models...); err != nil {
		return err
	}

	observability.Logger.Info("database schema is up to date", zap.Int("tables", len(models)))
	return nil
}
