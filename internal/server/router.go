package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"go-chi-calculator/internal/auth"
	"go-chi-calculator/internal/calculation"
	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/web"
)

// Deps are the domain handlers the router mounts. Nil handlers are skipped.
type Deps struct {
	Auth         *auth.Handler
	Calculations *calculation.Handler
	Web          *web.Handler
	Ready        map[string]handlers.Pinger
}

func NewRouter(deps Deps) http.Handler {

	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(observability.RequestIDMiddleware)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.LoggingMiddleware)
	r.Use(middleware.Recoverer)

	r.Get("/health", handlers.Health)
	r.Get("/ready", handlers.Ready(deps.Ready))

	r.Handle("/metrics", observability.PrometheusHandler())

	calculator.RegisterRoutes(r)

	if deps.Auth != nil {
		deps.Auth.RegisterRoutes(r)
		if deps.Calculations != nil {
			deps.Calculations.RegisterRoutes(r, deps.Auth.Tokens())
		}
	}

	if deps.Web != nil {
		deps.Web.RegisterRoutes(r)
	}

	return r
}
