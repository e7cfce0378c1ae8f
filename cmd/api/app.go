package main

import (
	"context"
	"fmt"
	"net/http"

	"go-chi-calculator/internal/auth"
	"go-chi-calculator/internal/cache"
	"go-chi-calculator/internal/calculation"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/server"
	"go-chi-calculator/internal/storage"
	"go-chi-calculator/internal/user"
	"go-chi-calculator/internal/web"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// models lists every table the server owns, in migration order.
var models = []any{&user.User{}, &calculation.Calculation{}}

// app holds the long-lived resources behind the router.
type app struct {
	db     *gorm.DB
	redis  *redis.Client
	router http.Handler
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := storage.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	if cfg.Database.AutoMigrate {
		if err := storage.Migrate(db, models...); err != nil {
			storage.Close(db)
			return nil, err
		}
	}

	rdb, err := cache.New(ctx, cfg.Redis)
	if err != nil {
		storage.Close(db)
		return nil, err
	}

	users := user.NewService(user.NewGormStore(db), cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth, auth.NewRedisBlacklist(rdb))
	authHandler := auth.NewHandler(users, tokens)
	calcs := calculation.NewService(calculation.NewGormStore(db))

	webHandler, err := web.NewHandler(authHandler, users, calcs, cfg.Server.SecureCookies)
	if err != nil {
		_ = rdb.Close()
		storage.Close(db)
		return nil, fmt.Errorf("building dashboard: %w", err)
	}

	router := server.NewRouter(server.Deps{
		Auth:         authHandler,
		Calculations: calculation.NewHandler(calcs),
		Web:          webHandler,
		Ready: map[string]handlers.Pinger{
			"database": handlers.PingFunc(func(ctx context.Context) error { return storage.Ping(ctx, db) }),
			"redis":    handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
	})

	return &app{db: db, redis: rdb, router: router}, nil
}

func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		observability.Logger.Error("failed to close redis client", zap.Error(err))
	}
	storage.Close(a.db)
}
