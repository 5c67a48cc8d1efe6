package handler

import (
	"log/slog"
	"net/http"
	"time"

	"famtree/internal/domain/services"
	"famtree/internal/httputil"
)

// StatsHandler handles usage metrics and statistics endpoints
type StatsHandler struct {
	statsService services.StatsService
	logger       *slog.Logger
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService services.StatsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{statsService: statsService, logger: logger}
}

// Metrics handles GET /api/metrics
func (h *StatsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	points, err := h.statsService.Metrics(r.Context(), httputil.GetUser(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, points)
}

// Statistics handles GET /api/statistics
func (h *StatsHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsService.Statistics(r.Context(), httputil.GetUser(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, stats)
}

// ActiveUsers handles GET /api/active-users
func (h *StatsHandler) ActiveUsers(w http.ResponseWriter, r *http.Request) {
	count, err := h.statsService.ActiveUsers(r.Context(), httputil.GetUser(r))
	if err != nil {
		handleError(w, err)
		return
	}
	httputil.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"activeUsers": count,
		"timestamp":   time.Now().Format(time.RFC3339),
	})
}
