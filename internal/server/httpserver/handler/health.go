package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/taskadmin-go/internal/core/domain"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	h.writeJSON(w, r, http.StatusOK, domain.Health{
		Status:    "healthy",
		Version:   h.version,
		Uptime:    now.Sub(h.started).Truncate(time.Second).String(),
		Timestamp: domain.NewTimestamp(now),
	})
}

// handleMetrics handles GET /metrics.
func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if h.metrics == nil {
		WriteDetail(w, http.StatusNotFound, "Not Found")
		return
	}
	h.metrics.Handler().ServeHTTP(w, r)
}
