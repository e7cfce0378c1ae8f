package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// AccessCookie is the cookie the dashboard stores the access token in.
const AccessCookie = "access_token"

// Principal is the authenticated caller attached to a request context.
type Principal struct {
	UserID uuid.UUID
	Claims *Claims
}

type principalKey struct{}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}

// TokenFromRequest returns the bearer token from the Authorization header,
// falling back to the access cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if c, err := r.Cookie(AccessCookie); err == nil {
		return c.Value
	}
	return ""
}

// Authenticate resolves the principal for r. A request without credentials
// yields ErrUnauthorized.
func (m *TokenManager) Authenticate(r *http.Request) (*Principal, error) {
	raw := TokenFromRequest(r)
	if raw == "" {
		return nil, ErrUnauthorized
	}

	claims, err := m.Parse(r.Context(), raw, KindAccess)
	if err != nil {
		return nil, err
	}

	id, _ := claims.UserID()
	return &Principal{UserID: id, Claims: claims}, nil
}
