package server

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"urlsentinel/internal/config"
	"urlsentinel/internal/logger"
	"urlsentinel/internal/metrics"
	"urlsentinel/internal/renderer"
	"urlsentinel/internal/scanner"
	"urlsentinel/internal/store"
	"urlsentinel/pkg/models"
)

// Enqueuer accepts scan records for background persistence. Enqueue must
// not block the request.
type Enqueuer interface {
	Enqueue(rec models.ScanRecord) bool
}

type Handler struct {
	scanner      scanner.Scanner
	recorder     Enqueuer
	lister       store.Lister
	jsonRenderer *renderer.JSONRenderer
	ansiRenderer renderer.Renderer
	config       *config.Config
	metrics      *metrics.Metrics
	logger       *slog.Logger
	router       http.Handler
}

// NewHandler wires the HTTP API. recorder and lister may be nil, in which
// case results are not persisted and /scans/recent is unavailable.
func NewHandler(cfg *config.Config, sc scanner.Scanner, recorder Enqueuer, lister store.Lister, m *metrics.Metrics) *Handler {
	h := &Handler{
		scanner:      sc,
		recorder:     recorder,
		lister:       lister,
		jsonRenderer: renderer.NewJSONRenderer(),
		ansiRenderer: &renderer.ANSIRenderer{Color: true},
		config:       cfg,
		metrics:      m,
		logger:       logger.Get(),
	}
	h.router = h.Routes()
	return h
}

// Routes returns the router with all middleware applied.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)

	r.Get("/", h.ServeHome)
	r.Get("/health", h.ServeHealth)
	r.Get("/scan", h.ServeScan)
	r.Get("/scans/recent", h.ServeRecent)

	if h.config.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}

	return r
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

type OutputFormat int

const (
	OutputFormatJSON OutputFormat = iota
	OutputFormatANSI
)

func (f OutputFormat) String() string {
	switch f {
	case OutputFormatANSI:
		return "ansi"
	case OutputFormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// getOutputFormat picks JSON unless the caller asks for text through the
// format query parameter or the Accept header.
func (h *Handler) getOutputFormat(r *http.Request) OutputFormat {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "text", "ansi":
		return OutputFormatANSI
	case "json":
		return OutputFormatJSON
	}

	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "text/plain") && !strings.Contains(accept, "application/json") {
		return OutputFormatANSI
	}

	return OutputFormatJSON
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := h.jsonRenderer.RenderError(w, message); err != nil {
		h.logger.Error("failed to write error response", slog.String("error", err.Error()))
	}
}
