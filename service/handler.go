package service

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/dnldd/krxchart/fetch"
	"github.com/dnldd/krxchart/shared"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// FallbackHeader reports the failure kind when fallback chart data is served.
	FallbackHeader = "X-Quote-Fallback"
	// RequestIDHeader carries the id assigned to each request.
	RequestIDHeader = "X-Request-Id"
)

//go:embed assets
var assets embed.FS

// HandlerConfig represents the configuration for the http handler.
type HandlerConfig struct {
	// Quote fetches chart data.
	Quote *Quote
	// Catalog is the set of tickers offered for charting.
	Catalog *shared.Catalog
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *HandlerConfig) Validate() error {
	var errs error

	if cfg.Quote == nil {
		errs = errors.Join(errs, fmt.Errorf("quote service cannot be nil"))
	}
	if cfg.Catalog == nil {
		errs = errors.Join(errs, fmt.Errorf("ticker catalog cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Handler serves the chart page and its data api.
type Handler struct {
	cfg    *HandlerConfig
	page   *template.Template
	static http.Handler
}

// pageData is the chart page template input.
type pageData struct {
	Title  string
	Config pageConfig
}

// pageConfig is handed to the chart page script.
type pageConfig struct {
	Tickers     []shared.Ticker `json:"tickers"`
	DefaultCode string          `json:"defaultCode"`
	LoadingText string          `json:"loadingText"`
}

// NewHandler initializes a new http handler.
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating handler config: %w", err)
	}

	page, err := template.ParseFS(assets, "assets/index.html")
	if err != nil {
		return nil, fmt.Errorf("parsing page template: %w", err)
	}

	static, err := fs.Sub(assets, "assets/static")
	if err != nil {
		return nil, fmt.Errorf("loading static assets: %w", err)
	}

	return &Handler{
		cfg:    cfg,
		page:   page,
		static: http.StripPrefix("/static/", http.FileServerFS(static)),
	}, nil
}

// Routes returns the http routes of the handler.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Index)
	mux.HandleFunc("GET /api/stock", h.GetStock)
	mux.HandleFunc("GET /health", h.HealthCheck)
	mux.Handle("GET /static/", h.static)

	return h.withRequestID(mux)
}

// withRequestID assigns every request an id and a request scoped logger carrying it.
func (h *Handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set(RequestIDHeader, id)

		logger := h.cfg.Logger.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context())))
	})
}

// writeJSON encodes the provided value as the json response body.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("writing response")
	}
}

// GetStock serves the daily chart of the requested ticker. Failures are never surfaced
// as error statuses, the fallback chart point is served instead.
func (h *Handler) GetStock(w http.ResponseWriter, r *http.Request) {
	logger := zerolog.Ctx(r.Context())

	code := r.URL.Query().Get("code")
	if code == "" {
		code = h.cfg.Catalog.Default
	}

	points, err := h.cfg.Quote.FetchChart(r.Context(), code)
	if err != nil {
		kind := ClassifyFailure(err)

		evt := logger.Error()
		if kind == FailureCanceled {
			evt = logger.Debug()
		}
		evt = evt.Err(err).Str("code", code).Str("kind", string(kind))

		var perr *fetch.ProviderError
		if errors.As(err, &perr) {
			evt = evt.Int("provider_status", perr.Status).Str("provider_body", perr.Body)
		}
		evt.Msg("serving fallback chart data")

		w.Header().Set(FallbackHeader, string(kind))
		points = shared.FallbackPoints()
	}

	if points == nil {
		points = []shared.ChartPoint{}
	}

	writeJSON(w, r, http.StatusOK, points)
}

// HealthCheck reports the service as healthy.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Index serves the chart page.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	catalog := h.cfg.Catalog
	data := pageData{
		Title: catalog.Title(catalog.Default),
		Config: pageConfig{
			Tickers:     catalog.Tickers,
			DefaultCode: catalog.Default,
			LoadingText: shared.LoadingText,
		},
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := h.page.Execute(w, data)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("rendering chart page")
	}
}
