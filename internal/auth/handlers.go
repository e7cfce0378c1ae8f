package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/user"
	"go-chi-calculator/internal/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("auth")

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

type LoginResponse struct {
	*Pair
	User *user.User `json:"user"`
}

// Handler serves the /auth endpoints.
type Handler struct {
	users  *user.Service
	tokens *TokenManager
}

func NewHandler(users *user.Service, tokens *TokenManager) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "auth.register")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	var in user.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "register", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	u, err := h.users.Register(ctx, in)
	if err != nil {
		status, msg := userErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "register", msg, err, status, w)
		return
	}

	span.SetAttributes(attribute.String("enduser.id", u.ID.String()))
	span.SetStatus(codes.Ok, "")
	logger.Info("user registered", zap.String("user_id", u.ID.String()), zap.String("username", u.Username))

	handlers.WriteJSON(w, http.StatusCreated, u)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "auth.login")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "login", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	if err := validation.Struct(req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "login", "invalid login request", err, http.StatusBadRequest, w)
		return
	}

	resp, err := h.login(r, req.Username, req.Password)
	if err != nil {
		status, msg := userErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "login", msg, err, status, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, resp)
}

// login authenticates and issues tokens. It is shared with the dashboard.
func (h *Handler) login(r *http.Request, login, password string) (*LoginResponse, error) {
	ctx := r.Context()

	u, err := h.users.Authenticate(ctx, login, password)
	if err != nil {
		loginCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "rejected")))
		return nil, err
	}

	pair, err := h.tokens.Issue(u.ID)
	if err != nil {
		return nil, err
	}

	loginCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "success")))
	observability.LoggerWithTrace(ctx).Info("user logged in", zap.String("user_id", u.ID.String()))

	return &LoginResponse{Pair: pair, User: u}, nil
}

// Refresh handles POST /auth/refresh. The presented refresh token is revoked
// and replaced.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "auth.refresh")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "refresh", "invalid request body", err, http.StatusBadRequest, w)
		return
	}
	if err := validation.Struct(req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "refresh", "invalid refresh request", err, http.StatusBadRequest, w)
		return
	}

	claims, err := h.tokens.Parse(ctx, req.RefreshToken, KindRefresh)
	if err != nil {
		status, msg := statusFor(err)
		observability.RecordError(ctx, span, logger, errorCounter, "refresh", msg, err, status, w)
		return
	}

	userID, _ := claims.UserID()
	if _, err := h.users.Get(ctx, userID); err != nil {
		status, msg := userErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "refresh", msg, err, status, w)
		return
	}

	if err := h.tokens.Revoke(ctx, claims); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "refresh", "internal server error", err, http.StatusInternalServerError, w)
		return
	}
	revokedCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", string(KindRefresh))))

	pair, err := h.tokens.Issue(userID)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "refresh", "internal server error", err, http.StatusInternalServerError, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	handlers.WriteJSON(w, http.StatusOK, pair)
}

// Logout handles POST /auth/logout. The access token used for the request is
// always revoked; a refresh token in the body is revoked too when valid.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "auth.logout")
	defer span.End()
	logger := observability.LoggerWithTrace(ctx)

	p, ok := PrincipalFromContext(ctx)
	if !ok {
		observability.RecordError(ctx, span, logger, errorCounter, "logout", ErrUnauthorized.Error(), ErrUnauthorized, http.StatusUnauthorized, w)
		return
	}

	var req LogoutRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			observability.RecordError(ctx, span, logger, errorCounter, "logout", "invalid request body", err, http.StatusBadRequest, w)
			return
		}
	}

	if err := h.revokeSession(ctx, p.Claims, req.RefreshToken); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "logout", "internal server error", err, http.StatusInternalServerError, w)
		return
	}

	span.SetStatus(codes.Ok, "")
	logger.Info("user logged out", zap.String("user_id", p.UserID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)
	logger := observability.LoggerWithTrace(ctx)

	p, ok := PrincipalFromContext(ctx)
	if !ok {
		observability.RecordError(ctx, span, logger, errorCounter, "me", ErrUnauthorized.Error(), ErrUnauthorized, http.StatusUnauthorized, w)
		return
	}

	u, err := h.users.Get(ctx, p.UserID)
	if err != nil {
		status, msg := userErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "me", msg, err, status, w)
		return
	}
	handlers.WriteJSON(w, http.StatusOK, u)
}

func userErrorStatus(err error) (int, string) {
	switch {
	case validation.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, user.ErrDuplicate):
		return http.StatusConflict, user.ErrDuplicate.Error()
	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, user.ErrInvalidCredentials.Error()
	case errors.Is(err, user.ErrInactive):
		return http.StatusForbidden, user.ErrInactive.Error()
	case errors.Is(err, user.ErrNotFound):
		return http.StatusUnauthorized, ErrUnauthorized.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
