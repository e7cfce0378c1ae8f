package auth

import (
	"context"
	"net/http"

	"go-chi-calculator/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// revokeSession blacklists the access token and, when refreshToken parses,
// the refresh token as well. An unusable refresh token is logged and ignored.
func (h *Handler) revokeSession(ctx context.Context, access *Claims, refreshToken string) error {
	if err := h.tokens.Revoke(ctx, access); err != nil {
		return err
	}
	revokedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(KindAccess))))

	if refreshToken == "" {
		return nil
	}

	refresh, err := h.tokens.Parse(ctx, refreshToken, KindRefresh)
	if err != nil {
		observability.LoggerWithTrace(ctx).Debug("ignoring unusable refresh token on logout", zap.Error(err))
		return nil
	}
	if refresh.Subject != access.Subject {
		return nil
	}
	if err := h.tokens.Revoke(ctx, refresh); err != nil {
		return err
	}
	revokedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(KindRefresh))))
	return nil
}

// SessionLogin authenticates login/password for a browser session and
// returns the token pair. Errors are the same as for POST /auth/login.
func (h *Handler) SessionLogin(r *http.Request, login, password string) (*LoginResponse, error) {
	return h.login(r, login, password)
}

// SessionLogout revokes the session's access token.
func (h *Handler) SessionLogout(ctx context.Context, p *Principal) error {
	return h.revokeSession(ctx, p.Claims, "")
}

// Tokens exposes the token manager for callers that authenticate requests
// themselves, such as the dashboard.
func (h *Handler) Tokens() *TokenManager {
	return h.tokens
}

// ErrorStatus maps an auth or user error to an HTTP status and a client-safe
// message.
func ErrorStatus(err error) (int, string) {
	if status, msg := statusFor(err); status != http.StatusInternalServerError {
		return status, msg
	}
	return userErrorStatus(err)
}
