package calculation

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go-chi-calculator/internal/auth"
	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/validation"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// CreateRequest is the JSON body for POST /calculations.
type CreateRequest struct {
	Type   string    `json:"type"`
	Inputs []float64 `json:"inputs"`
}

// UpdateRequest is the JSON body for PUT /calculations/{id}.
type UpdateRequest struct {
	Inputs []float64 `json:"inputs"`
}

// ListResponse is the JSON response for GET /calculations.
type ListResponse struct {
	Items  []Calculation `json:"items"`
	Total  int64         `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

// Handler serves the /calculations endpoints. Routes must sit behind
// auth.RequireAuth.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Create handles POST /calculations
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)
	logger := observability.LoggerWithTrace(ctx)

	p, ok := principal(w, r)
	if !ok {
		return
	}

	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	t, err := calculator.ParseType(req.Type)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "create", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	c, err := h.svc.Create(ctx, p.UserID, t, req.Inputs)
	if err != nil {
		status, msg := ErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "create", msg, err, status, w)
		return
	}

	handlers.WriteJSON(w, http.StatusCreated, c)
}

// List handles GET /calculations?limit=&offset=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)
	logger := observability.LoggerWithTrace(ctx)

	p, ok := principal(w, r)
	if !ok {
		return
	}

	page, err := pageFromQuery(r)
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "list", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	calcs, total, err := h.svc.List(ctx, p.UserID, page)
	if err != nil {
		status, msg := ErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "list", msg, err, status, w)
		return
	}

	page = page.Normalize()
	handlers.WriteJSON(w, http.StatusOK, ListResponse{
		Items:  calcs,
		Total:  total,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
}

// Get handles GET /calculations/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)
	logger := observability.LoggerWithTrace(ctx)

	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "get", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	c, err := h.svc.Get(ctx, p.UserID, id)
	if err != nil {
		status, msg := ErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "get", msg, err, status, w)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, c)
}

// Update handles PUT /calculations/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)
	logger := observability.LoggerWithTrace(ctx)

	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "update", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	var req UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "update", "invalid request body", err, http.StatusBadRequest, w)
		return
	}

	c, err := h.svc.Update(ctx, p.UserID, id, req.Inputs)
	if err != nil {
		status, msg := ErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "update", msg, err, status, w)
		return
	}

	handlers.WriteJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /calculations/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	span := trace.SpanFromContext(ctx)
	logger := observability.LoggerWithTrace(ctx)

	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, err := ParseID(chi.URLParam(r, "id"))
	if err != nil {
		observability.RecordError(ctx, span, logger, errorCounter, "delete", err.Error(), err, http.StatusBadRequest, w)
		return
	}

	if err := h.svc.Delete(ctx, p.UserID, id); err != nil {
		status, msg := ErrorStatus(err)
		observability.RecordError(ctx, span, logger, errorCounter, "delete", msg, err, status, w)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func principal(w http.ResponseWriter, r *http.Request) (*auth.Principal, bool) {
	p, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		ctx := r.Context()
		observability.RecordError(ctx, trace.SpanFromContext(ctx), observability.LoggerWithTrace(ctx), errorCounter,
			"authenticate", auth.ErrUnauthorized.Error(), auth.ErrUnauthorized, http.StatusUnauthorized, w)
	}
	return p, ok
}

// ParseID parses a record id from a path segment.
func ParseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, validation.New("id", validation.ReasonInvalid, "must be a UUID")
	}
	return id, nil
}

func pageFromQuery(r *http.Request) (Page, error) {
	var page Page
	q := r.URL.Query()

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return page, validation.New("limit", validation.ReasonInvalid, "must be a positive integer")
		}
		page.Limit = n
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return page, validation.New("offset", validation.ReasonInvalid, "must be a non-negative integer")
		}
		page.Offset = n
	}
	return page, nil
}

// ErrorStatus maps a lifecycle error to an HTTP status and a client-safe
// message.
func ErrorStatus(err error) (int, string) {
	var compErr *calculator.ComputationError
	switch {
	case validation.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &compErr):
		return http.StatusBadRequest, compErr.Error()
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, ErrNotFound.Error()
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden, ErrForbidden.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
