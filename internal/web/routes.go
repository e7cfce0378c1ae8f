package web

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the public pages and the cookie-authenticated
// dashboard.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Index)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/register", h.RegisterPage)
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)

	r.Route("/dashboard", func(r chi.Router) {
		r.Use(h.requireSession)

		r.Get("/", h.Dashboard)
		r.Post("/", h.Create)
		r.Get("/view/{id}", h.View)
		r.Get("/edit/{id}", h.EditPage)
		r.Post("/edit/{id}", h.Edit)
		r.Post("/delete/{id}", h.Delete)
	})
}
