package web

import (
	"errors"
	"net/http"
	"strings"

	"go-chi-calculator/internal/auth"
	"go-chi-calculator/internal/calculation"
	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/user"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Index handles GET /
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "index", &pageData{Title: "Welcome", User: h.currentUser(r)})
}

// LoginPage handles GET /login
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", &pageData{Title: "Log in"})
}

// Login handles POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "web.login")
	defer span.End()
	r = r.WithContext(ctx)

	login := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	form := map[string]string{"username": login}

	if login == "" || password == "" {
		h.render(w, r, http.StatusBadRequest, "login", &pageData{Title: "Log in", Form: form, Error: "Username and password are required."})
		return
	}

	resp, err := h.auth.SessionLogin(r, login, password)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "login rejected")
		status, msg := auth.ErrorStatus(err)
		if status >= http.StatusInternalServerError {
			observability.LoggerWithTrace(ctx).Error("dashboard login failed", zap.Error(err))
		}
		h.render(w, r, status, "login", &pageData{Title: "Log in", Form: form, Error: msg})
		return
	}

	h.setCookie(w, resp.AccessToken, resp.ExpiresAt)
	span.SetStatus(codes.Ok, "")
	redirect(w, r, "/dashboard")
}

// RegisterPage handles GET /register
func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", &pageData{Title: "Register"})
}

// Register handles POST /register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracer.Start(r.Context(), "web.register")
	defer span.End()
	r = r.WithContext(ctx)

	in := user.RegisterInput{
		FirstName:       r.PostFormValue("first_name"),
		LastName:        r.PostFormValue("last_name"),
		Email:           r.PostFormValue("email"),
		Username:        r.PostFormValue("username"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirm_password"),
	}
	form := map[string]string{
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"email":      in.Email,
		"username":   in.Username,
	}

	u, err := h.users.Register(ctx, in)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "registration rejected")
		status, msg := auth.ErrorStatus(err)
		if status >= http.StatusInternalServerError {
			observability.LoggerWithTrace(ctx).Error("dashboard registration failed", zap.Error(err))
		}
		h.render(w, r, status, "register", &pageData{Title: "Register", Form: form, Error: msg})
		return
	}

	span.SetAttributes(attribute.String("enduser.id", u.ID.String()))
	span.SetStatus(codes.Ok, "")
	redirect(w, r, "/login?msg=registered")
}

// Logout handles POST /logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if p, err := h.auth.Tokens().Authenticate(r); err == nil {
		if err := h.auth.SessionLogout(ctx, p); err != nil {
			observability.LoggerWithTrace(ctx).Error("revoking dashboard session failed", zap.Error(err))
		}
	}
	h.clearCookie(w)
	redirect(w, r, "/login?msg=logged_out")
}

// Dashboard handles GET /dashboard
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, http.StatusOK, nil, "")
}

func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, status int, form map[string]string, errMsg string) {
	ctx := r.Context()
	s := sessionFrom(ctx)

	calcs, total, err := h.calcs.List(ctx, s.user.ID, calculation.Page{Limit: calculation.MaxPageSize})
	if err != nil {
		observability.LoggerWithTrace(ctx).Error("listing calculations failed", zap.Error(err))
		status = http.StatusInternalServerError
		errMsg = "Could not load your calculations."
	}

	h.render(w, r, status, "dashboard", &pageData{
		Title:        "Dashboard",
		User:         s.user,
		Error:        errMsg,
		Form:         form,
		Types:        calculator.Types,
		Calculations: calcs,
		Total:        total,
	})
}

// Create handles POST /dashboard
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := sessionFrom(ctx)
	form := map[string]string{
		"type":   r.PostFormValue("type"),
		"inputs": r.PostFormValue("inputs"),
	}

	t, err := calculator.ParseType(form["type"])
	var inputs []float64
	if err == nil {
		inputs, err = calculator.ParseInputs(form["inputs"])
	}
	if err == nil {
		_, err = h.calcs.Create(ctx, s.user.ID, t, inputs)
	}
	if err != nil {
		status, msg := calculation.ErrorStatus(err)
		h.renderDashboard(w, r, status, form, msg)
		return
	}

	redirect(w, r, "/dashboard?msg=created")
}

// View handles GET /dashboard/view/{id}
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCalculation(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "view", &pageData{
		Title:       "Calculation",
		User:        sessionFrom(r.Context()).user,
		Calculation: c,
	})
}

// EditPage handles GET /dashboard/edit/{id}
func (h *Handler) EditPage(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCalculation(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "edit", &pageData{
		Title:       "Edit calculation",
		User:        sessionFrom(r.Context()).user,
		Calculation: c,
		Form:        map[string]string{"inputs": calculator.FormatInputs(c.Inputs)},
	})
}

// Edit handles POST /dashboard/edit/{id}
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	c, ok := h.loadCalculation(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	s := sessionFrom(ctx)
	text := r.PostFormValue("inputs")

	inputs, err := calculator.ParseInputs(text)
	if err == nil {
		_, err = h.calcs.Update(ctx, s.user.ID, c.ID, inputs)
	}
	if err != nil {
		status, msg := calculation.ErrorStatus(err)
		h.render(w, r, status, "edit", &pageData{
			Title:       "Edit calculation",
			User:        s.user,
			Calculation: c,
			Form:        map[string]string{"inputs": text},
			Error:       msg,
		})
		return
	}

	redirect(w, r, "/dashboard/view/"+c.ID.String()+"?msg=updated")
}

// Delete handles POST /dashboard/delete/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s := sessionFrom(ctx)

	id, err := calculation.ParseID(chi.URLParam(r, "id"))
	if err == nil {
		err = h.calcs.Delete(ctx, s.user.ID, id)
	}
	if err != nil {
		status, msg := calculation.ErrorStatus(err)
		h.renderDashboard(w, r, status, nil, msg)
		return
	}

	redirect(w, r, "/dashboard?msg=deleted")
}

func (h *Handler) loadCalculation(w http.ResponseWriter, r *http.Request) (*calculation.Calculation, bool) {
	ctx := r.Context()
	s := sessionFrom(ctx)

	id, err := calculation.ParseID(chi.URLParam(r, "id"))
	if err == nil {
		var c *calculation.Calculation
		c, err = h.calcs.Get(ctx, s.user.ID, id)
		if err == nil {
			return c, true
		}
	}

	status, msg := calculation.ErrorStatus(err)
	if errors.Is(err, calculation.ErrForbidden) {
		status, msg = http.StatusNotFound, calculation.ErrNotFound.Error()
	}
	h.render(w, r, status, "error", &pageData{Title: msg, User: s.user, Error: msg})
	return nil, false
}
