package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/middlewares"
	"github.com/mbazhenov/blog-platform/internal/models"
	"github.com/mbazhenov/blog-platform/internal/services"
)

// UserService defines the interface that the user CRUD service must implement.
type UserService interface {
	GetUser(ctx context.Context, id int64) (*models.UserDB, error)
	UpdateUser(ctx context.Context, id int64, username, email, imageFile *string) (*models.UserDB, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UpdateUserRequest represents the JSON body for a partial user update
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	// New username
	// example: alice2
	Username *string `json:"username"`

	// New email address
	// example: alice2@example.com
	Email *string `json:"email"`

	// Profile picture filename
	// example: avatar.jpg
	ImageFile *string `json:"image_file"`
}

// NewGetUserHandler returns an HTTP handler for fetching a user's public profile.
// @Summary Get a user
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} models.UserPublic "Public profile"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /api/users/{userID} [get]
func NewGetUserHandler(svc UserService, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		user, err := svc.GetUser(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, user.PublicView())
	}
}

// NewUpdateUserHandler returns an HTTP handler for partially updating the
// caller's own account.
// @Summary Update a user
// @Description Applies a partial update. Only the account owner may update it.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userID path int true "User ID"
// @Param updateRequest body handlers.UpdateUserRequest true "Fields to update"
// @Success 200 {object} models.UserPrivate "Updated user"
// @Failure 400 {object} handlers.ErrorResponse "Validation error or duplicate username/email"
// @Failure 403 {object} handlers.ErrorResponse "Not the account owner"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /api/users/{userID} [patch]
func NewUpdateUserHandler(svc UserService, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		caller := middlewares.GetUserFromContext(r.Context())
		if caller == nil || caller.ID != id {
			writeError(w, http.StatusForbidden, "You can only update your own account")
			return
		}

		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if msg, ok := validateUpdateUserRequest(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		user, err := svc.UpdateUser(r.Context(), id, req.Username, req.Email, req.ImageFile)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUsernameTaken):
				writeError(w, http.StatusBadRequest, "Username already exists")
			case errors.Is(err, services.ErrEmailTaken):
				writeError(w, http.StatusBadRequest, "Email already registered")
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User not found")
			default:
				log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, user.PrivateView())
	}
}

// NewDeleteUserHandler returns an HTTP handler for deleting the caller's
// own account. Owned posts are deleted with it.
// @Summary Delete a user
// @Tags users
// @Security BearerAuth
// @Param userID path int true "User ID"
// @Success 204 "Deleted"
// @Failure 403 {object} handlers.ErrorResponse "Not the account owner"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /api/users/{userID} [delete]
func NewDeleteUserHandler(svc UserService, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		caller := middlewares.GetUserFromContext(r.Context())
		if caller == nil || caller.ID != id {
			writeError(w, http.StatusForbidden, "You can only delete your own account")
			return
		}

		if err := svc.DeleteUser(r.Context(), id); err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func userIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return 0, false
	}
	return id, true
}

func validateUpdateUserRequest(req UpdateUserRequest) (string, bool) {
	if req.Username != nil {
		if n := utf8.RuneCountInString(*req.Username); n < 1 || n > 50 {
			return "username must be between 1 and 50 characters", false
		}
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil || len(*req.Email) > 120 {
			return "invalid email address", false
		}
	}
	if req.ImageFile != nil {
		if n := utf8.RuneCountInString(*req.ImageFile); n < 1 || n > 200 {
			return "image_file must be between 1 and 200 characters", false
		}
	}
	return "", true
}
