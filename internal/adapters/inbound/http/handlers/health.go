package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/architeacher/loaner/internal/ports"
)

const readinessTimeout = 2 * time.Second

type HealthHandler struct {
	db ports.DatabaseHealthChecker
}

func NewHealthHandler(db ports.DatabaseHealthChecker) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":   "unavailable",
			"database": err.Error(),
		})

		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
