package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"net/http"

	"github.com/roster/roster/internal/handler/dto"
	"github.com/roster/roster/internal/model"
	"github.com/roster/roster/internal/service"
)

// UserService is the subset of service.UserService used by UserHandler.
type UserService interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	CreateUser(ctx context.Context, input service.CreateUserInput) (*model.User, error)
}

// UserHandler handles HTTP requests for user records.
type UserHandler struct {
	svc    UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		svc:    svc,
		logger: logger,
	}
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListUsers(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, MsgLoadUsers)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToUserListResponse(users))
}

// Create handles POST /api/users.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if err := decodeJSONBody(r, &req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Message: MsgBodyTooLarge})
			return
		}
		// An unreadable body carries no fields; the service rejects it as missing input.
		h.logger.Debug("create_user_body_ignored", slog.String("reason", err.Error()))
		req = dto.CreateUserRequest{}
	}

	user, err := h.svc.CreateUser(r.Context(), req.ToInput())
	if err != nil {
		writeServiceError(w, r, h.logger, err, MsgCreateUser)
		return
	}

	h.logger.Info("user_created", slog.String("user_id", user.IDHex()))

	writeJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

var errNotJSON = errors.New("content type is not application/json")

// decodeJSONBody decodes a JSON request body. Bodies that are not declared as
// JSON are not parsed.
func decodeJSONBody(r *http.Request, v any) error {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		return errNotJSON
	}
	return json.NewDecoder(r.Body).Decode(v)
}
