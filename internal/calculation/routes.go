package calculation

import (
	"go-chi-calculator/internal/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the /calculations endpoints behind tokens.
func (h *Handler) RegisterRoutes(r chi.Router, tokens *auth.TokenManager) {
	r.Route("/calculations", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}
