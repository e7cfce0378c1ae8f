package auth

import (
	"errors"
	"net/http"

	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// RequireAuth rejects requests without a valid, unrevoked access token and
// attaches the Principal to the context of those it lets through.
func RequireAuth(m *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			span := trace.SpanFromContext(ctx)

			p, err := m.Authenticate(r)
			if err != nil {
				logger := observability.LoggerWithTrace(ctx)
				status, msg := statusFor(err)
				if status == http.StatusUnauthorized {
					w.Header().Set("WWW-Authenticate", `Bearer`)
				}
				observability.RecordError(ctx, span, logger, errorCounter, "authenticate", msg, err, status, w)
				return
			}

			span.SetAttributes(attribute.String("enduser.id", p.UserID.String()))
			next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(ctx, p)))
		})
	}
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ErrTokenRevoked):
		return http.StatusUnauthorized, ErrTokenRevoked.Error()
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, ErrUnauthorized.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
