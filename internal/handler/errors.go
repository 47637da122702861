package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/roster/roster/internal/middleware"
	"github.com/roster/roster/internal/service"
)

// Fixed client-facing messages. Causes are logged server-side only.
const (
	MsgValidation   = "name and email are required"
	MsgLoadUsers    = "Failed to load users"
	MsgCreateUser   = "Failed to create user"
	MsgInternal     = "Internal server error"
	MsgRateLimited  = "Too many requests"
	MsgBodyTooLarge = "Request body too large"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// StatusFor maps the error taxonomy onto an HTTP status code. Anything that is
// not a validation failure, including ErrNotInitialized, is a 500.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError translates err into its fixed status and message.
// fallback is the endpoint's generic 500 message.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, fallback string) {
	status := StatusFor(err)

	msg := fallback
	if status == http.StatusBadRequest {
		msg = MsgValidation
		logger.Warn("request_rejected",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("reason", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
	} else {
		logger.Error("request_failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
	}

	writeJSON(w, status, ErrorResponse{Message: msg})
}
