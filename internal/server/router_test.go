package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-chi-calculator/internal/auth"
	"go-chi-calculator/internal/calculation"
	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/handlers"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/testutil"
	"go-chi-calculator/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newFullRouter(t *testing.T) http.Handler {
	t.Helper()

	db := testutil.NewTestDB(t, &user.User{}, &calculation.Calculation{})
	client, _ := testutil.NewTestRedis(t)

	users := user.NewService(user.NewGormStore(db), bcrypt.MinCost)
	tokens := auth.NewTokenManager(config.AuthConfig{
		AccessSecret:  "access-secret",
		RefreshSecret: "refresh-secret",
		Issuer:        "test",
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    time.Hour,
	}, auth.NewRedisBlacklist(client))

	return NewRouter(Deps{
		Auth:         auth.NewHandler(users, tokens),
		Calculations: calculation.NewHandler(calculation.NewService(calculation.NewGormStore(db))),
		Ready: map[string]handlers.Pinger{
			"redis": handlers.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() }),
		},
	})
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := NewRouter(Deps{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterReadyReportsDependencies(t *testing.T) {
	router := NewRouter(Deps{Ready: map[string]handlers.Pinger{
		"database": handlers.PingFunc(func(context.Context) error { return errors.New("down") }),
	}})

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/ready", nil), router)
	testutil.CheckResponseCode(t, http.StatusServiceUnavailable, w.Code)

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/ready", nil), newFullRouter(t))
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
}

func TestNewRouterCalculatorAddSetsHeaderAndOmitsRequestIDInBody(t *testing.T) {
	observability.Logger = zap.NewNop()
	if err := calculator.InitMetrics(); err != nil {
		t.Fatalf("initializing calculator metrics: %v", err)
	}

	router := NewRouter(Deps{})
	body := []byte(`{"a":2,"b":3}`)
	req := httptest.NewRequest(http.MethodPost, "/calculator/add", bytes.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, w.Code)
	}

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var payload map[string]any
	if err := json.NewDecoder(w.Result().Body).Decode(&payload); err != nil {
		t.Fatalf("decoding JSON response: %v", err)
	}

	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}

	if got, ok := payload["result"].(float64); !ok || got != 5 {
		t.Fatalf("expected result 5, got %#v", payload["result"])
	}
}

func TestNewRouterRegisterLoginAndCalculate(t *testing.T) {
	router := newFullRouter(t)

	register := map[string]string{
		"first_name":       "Test",
		"last_name":        "User",
		"email":            "test@example.com",
		"username":         "testuser",
		"password":         "SecurePass123",
		"confirm_password": "SecurePass123",
	}
	w := testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/auth/register", register, ""), router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	login := auth.LoginRequest{Username: "testuser", Password: "SecurePass123"}
	w = testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", login, ""), router)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var session auth.LoginResponse
	testutil.DecodeJSONBody(t, w.Body, &session)

	create := calculation.CreateRequest{Type: "division", Inputs: []float64{100, 2, 5}}
	w = testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/calculations", create, session.AccessToken), router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var c calculation.Calculation
	testutil.DecodeJSONBody(t, w.Body, &c)
	if c.Result != 10 {
		t.Fatalf("expected result 10, got %g", c.Result)
	}

	w = testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodGet, "/calculations", nil, ""), router)
	testutil.CheckResponseCode(t, http.StatusUnauthorized, w.Code)
}
