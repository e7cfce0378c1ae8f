// Package web serves the server-rendered dashboard. Pages authenticate with
// the access token stored in an HttpOnly cookie.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"go-chi-calculator/internal/auth"
	"go-chi-calculator/internal/calculation"
	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/user"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFiles embed.FS

var tracer = otel.Tracer("web")

var pageNames = []string{"index", "login", "register", "dashboard", "view", "edit", "error"}

var funcs = template.FuncMap{
	"formatInputs": calculator.FormatInputs,
	"formatNumber": func(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) },
	"typeLabel": func(t calculator.Type) string {
		s := t.String()
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
}

// flashes are the messages a redirect can ask the next page to show.
var flashes = map[string]string{
	"created":    "Calculation complete!",
	"updated":    "Calculation updated successfully.",
	"deleted":    "Calculation deleted successfully.",
	"registered": "Registration successful. Please log in.",
	"logged_out": "You have been logged out.",
}

type pageData struct {
	Title        string
	User         *user.User
	Success      string
	Error        string
	Form         map[string]string
	Types        []calculator.Type
	Calculations []calculation.Calculation
	Total        int64
	Calculation  *calculation.Calculation
}

// Handler renders the dashboard pages.
type Handler struct {
	auth          *auth.Handler
	users         *user.Service
	calcs         *calculation.Service
	pages         map[string]*template.Template
	secureCookies bool
}

func NewHandler(authHandler *auth.Handler, users *user.Service, calcs *calculation.Service, secureCookies bool) (*Handler, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFiles, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", name, err)
		}
		pages[name] = tmpl
	}

	return &Handler{
		auth:          authHandler,
		users:         users,
		calcs:         calcs,
		pages:         pages,
		secureCookies: secureCookies,
	}, nil
}

// render executes page into a buffer first so a template failure never
// leaves a half-written response.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data *pageData) {
	if data.Success == "" {
		data.Success = flashes[r.URL.Query().Get("msg")]
	}
	if data.Form == nil {
		data.Form = map[string]string{}
	}

	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		observability.LoggerWithTrace(r.Context()).Error("rendering page failed",
			zap.String("page", page),
			zap.Error(err),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func redirect(w http.ResponseWriter, r *http.Request, target string) {
	http.Redirect(w, r, target, http.StatusSeeOther)
}
