package web

import (
	"context"
	"net/http"
	"time"

	"go-chi-calculator/internal/auth"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/user"

	"go.uber.org/zap"
)

type sessionKey struct{}

type session struct {
	principal *auth.Principal
	user      *user.User
}

func sessionFrom(ctx context.Context) *session {
	s, _ := ctx.Value(sessionKey{}).(*session)
	return s
}

// currentUser returns the logged-in user for public pages, or nil.
func (h *Handler) currentUser(r *http.Request) *user.User {
	if s := sessionFrom(r.Context()); s != nil {
		return s.user
	}
	p, err := h.auth.Tokens().Authenticate(r)
	if err != nil {
		return nil
	}
	u, err := h.users.Get(r.Context(), p.UserID)
	if err != nil {
		return nil
	}
	return u
}

// requireSession redirects to /login unless the access cookie holds a valid
// token for an existing user.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		p, err := h.auth.Tokens().Authenticate(r)
		if err != nil {
			observability.LoggerWithTrace(ctx).Debug("dashboard session rejected", zap.Error(err))
			h.clearCookie(w)
			redirect(w, r, "/login")
			return
		}

		u, err := h.users.Get(ctx, p.UserID)
		if err != nil {
			h.clearCookie(w)
			redirect(w, r, "/login")
			return
		}

		ctx = auth.ContextWithPrincipal(ctx, p)
		ctx = context.WithValue(ctx, sessionKey{}, &session{principal: p, user: u})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) setCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.AccessCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}
