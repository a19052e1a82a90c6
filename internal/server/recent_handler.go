package server

import (
	"log/slog"
	"net/http"
	"strconv"

	"urlsentinel/internal/json"
	"urlsentinel/internal/logger"
	"urlsentinel/pkg/models"
)

const (
	defaultRecentLimit = 20
	maxRecentLimit     = 500
)

type recentResponse struct {
	Count int                 `json:"count"`
	Scans []models.ScanRecord `json:"scans"`
}

// ServeRecent handles "GET /scans/recent?limit=N"
func (h *Handler) ServeRecent(w http.ResponseWriter, r *http.Request) {
	if h.lister == nil {
		h.writeError(w, http.StatusNotImplemented, "scan history is not enabled")
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxRecentLimit)
	}

	records, err := h.lister.Recent(r.Context(), limit)
	if err != nil {
		logger.GetFromContext(r.Context(), h.logger).Error("failed to list scans", slog.String("error", err.Error()))
		h.writeError(w, http.StatusServiceUnavailable, "scan history unavailable")
		return
	}
	if records == nil {
		records = []models.ScanRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.GetJsonEncoder(w).Encode(recentResponse{Count: len(records), Scans: records}); err != nil {
		logger.GetFromContext(r.Context(), h.logger).Error("failed to write scan history", slog.String("error", err.Error()))
	}
}
