// Package auth issues and verifies bearer tokens and revokes them through a
// Redis-backed blacklist.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go-chi-calculator/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrUnauthorized = errors.New("could not validate credentials")
	ErrTokenRevoked = errors.New("token has been revoked")
)

// Kind distinguishes access tokens from refresh tokens.
type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Claims struct {
	Kind Kind `json:"type"`
	jwt.RegisteredClaims
}

// UserID returns the subject as a UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// Pair is the token response handed to clients after login or refresh.
type Pair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type TokenManager struct {
	cfg       config.AuthConfig
	blacklist Blacklist
	now       func() time.Time
}

func NewTokenManager(cfg config.AuthConfig, blacklist Blacklist) *TokenManager {
	return &TokenManager{cfg: cfg, blacklist: blacklist, now: time.Now}
}

func (m *TokenManager) secret(kind Kind) []byte {
	if kind == KindRefresh {
		return []byte(m.cfg.RefreshSecret)
	}
	return []byte(m.cfg.AccessSecret)
}

func (m *TokenManager) ttl(kind Kind) time.Duration {
	if kind == KindRefresh {
		return m.cfg.RefreshTTL
	}
	return m.cfg.AccessTTL
}

func (m *TokenManager) sign(userID uuid.UUID, kind Kind) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(m.ttl(kind))

	claims := Claims{
		Kind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userID.String(),
			Issuer:    m.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret(kind))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, exp, nil
}

// Issue creates a fresh access/refresh pair for userID.
func (m *TokenManager) Issue(userID uuid.UUID) (*Pair, error) {
	access, exp, err := m.sign(userID, KindAccess)
	if err != nil {
		return nil, err
	}
	refresh, _, err := m.sign(userID, KindRefresh)
	if err != nil {
		return nil, err
	}
	return &Pair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresAt:    exp,
	}, nil
}

// Parse verifies raw as a token of the given kind and checks it has not been
// revoked. Failures wrap ErrUnauthorized or ErrTokenRevoked.
func (m *TokenManager) Parse(ctx context.Context, raw string, kind Kind) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(*jwt.Token) (any, error) { return m.secret(kind), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthorized, err)
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s token, got %q", ErrUnauthorized, kind, claims.Kind)
	}
	if _, err := claims.UserID(); err != nil {
		return nil, fmt.Errorf("%w: invalid subject", ErrUnauthorized)
	}
	if claims.ID == "" {
		return nil, fmt.Errorf("%w: missing token id", ErrUnauthorized)
	}

	revoked, err := m.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	return claims, nil
}

// Revoke blacklists the token described by claims for the rest of its
// lifetime.
func (m *TokenManager) Revoke(ctx context.Context, claims *Claims) error {
	ttl := claims.ExpiresAt.Time.Sub(m.now())
	if err := m.blacklist.Add(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}
	return nil
}
