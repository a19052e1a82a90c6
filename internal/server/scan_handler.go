package server

import (
	"errors"
	"log/slog"
	"net/http"

	"urlsentinel/internal/logger"
	"urlsentinel/internal/store"
	"urlsentinel/internal/target"
	"urlsentinel/pkg/models"
)

// ServeScan handles "GET /scan?url=..."
func (h *Handler) ServeScan(w http.ResponseWriter, r *http.Request) {
	log := logger.GetFromContext(r.Context(), h.logger)
	rawURL := r.URL.Query().Get("url")

	result, err := h.scanner.Scan(r.Context(), rawURL)
	if err != nil {
		if errors.Is(err, target.ErrInvalidSyntax) || errors.Is(err, target.ErrDomainExtraction) {
			log.Info("scan rejected", slog.String("url", rawURL), slog.String("error", err.Error()))
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Error("scan failed", slog.String("url", rawURL), slog.String("error", err.Error()))
		h.writeError(w, http.StatusInternalServerError, "scan failed")
		return
	}

	h.persist(log, result)
	h.writeResponse(w, result, h.getOutputFormat(r))
}

func (h *Handler) persist(log *slog.Logger, result *models.ScanResult) {
	if h.recorder == nil {
		return
	}
	if !h.recorder.Enqueue(store.NewRecord(result)) {
		log.Warn("scan record not persisted", slog.String("domain", result.Domain))
	}
}

func (h *Handler) writeResponse(w http.ResponseWriter, result *models.ScanResult, format OutputFormat) {
	switch format {
	case OutputFormatANSI:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := h.ansiRenderer.Render(w, result); err != nil {
			http.Error(w, "Failed to render text response: "+err.Error(), http.StatusInternalServerError)
		}
	default:
		w.Header().Set("Content-Type", "application/json")
		if err := h.jsonRenderer.Render(w, result); err != nil {
			http.Error(w, "Failed to render JSON response: "+err.Error(), http.StatusInternalServerError)
		}
	}
}
