package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/roster/roster/internal/handler/dto"
)

// HealthChecker defines an interface for checking store health.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler manages the health check endpoint.
type HealthHandler struct {
	checker HealthChecker
	logger  *slog.Logger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(checker HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		checker: checker,
		logger:  logger,
	}
}

// Health reports whether the document store is reachable. It connects on
// demand, so the first request after a cold start establishes the connection.
//
// GET /api/health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.checker.Health(r.Context()); err != nil {
		h.logger.Error("healthcheck_failed", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, dto.HealthResponse{
			Status: "error",
			DB:     "disconnected",
		})
		return
	}

	writeJSON(w, http.StatusOK, dto.HealthResponse{
		Status: "ok",
		DB:     "connected",
	})
}
