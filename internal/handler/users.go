package handler

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/raftlab/userdir/internal/directory"
	"github.com/raftlab/userdir/internal/handler/dto"
	"github.com/raftlab/userdir/internal/middleware"
	"github.com/raftlab/userdir/internal/model"
)

// UserDirectory is the read side of the directory service.
type UserDirectory interface {
	GetUserByID(ctx context.Context, id int) (model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
}

// UserHandler exposes the directory over HTTP.
type UserHandler struct {
	dir    UserDirectory
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(dir UserDirectory, logger *slog.Logger) *UserHandler {
	return &UserHandler{
		dir:    dir,
		logger: logger,
	}
}

// Get handles GET /api/v1/users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "User ID must be an integer")
		return
	}

	user, err := h.dir.GetUserByID(r.Context(), id)
	if err != nil {
		h.handleDirectoryError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserResponse{Data: user})
}

// List handles GET /api/v1/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.dir.GetAllUsers(r.Context())
	if err != nil {
		h.handleDirectoryError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.UserListResponse{Data: users, Total: len(users)})
}

func (h *UserHandler) handleDirectoryError(w http.ResponseWriter, r *http.Request, err error) {
	status := directory.StatusCode(err)

	h.logger.Warn("directory_error",
		"request_id", middleware.GetRequestID(r.Context()),
		"upstream_status", status,
		"error", err,
	)

	switch {
	case status == http.StatusNotFound:
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "User not found")
	case isTimeout(err):
		writeError(w, http.StatusGatewayTimeout, "UPSTREAM_TIMEOUT", "User directory did not respond in time")
	case errors.Is(err, directory.ErrDecode):
		writeError(w, http.StatusBadGateway, "UPSTREAM_INVALID", "User directory returned an unexpected response")
	default:
		writeError(w, http.StatusBadGateway, "UPSTREAM_FAILED", "User directory request failed")
	}
}

// isTimeout reports whether err means the upstream did not answer in time.
// http.Client timeouts surface as a *url.Error rather than a context sentinel.
func isTimeout(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
