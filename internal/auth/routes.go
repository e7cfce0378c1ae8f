package auth

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the /auth endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(h.tokens))
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})
	})
}
