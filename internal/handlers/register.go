package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/models"
	"github.com/mbazhenov/blog-platform/internal/services"
)

// Registerer defines the interface that the registration service must implement.
type Registerer interface {
	Register(ctx context.Context, username, email, plaintext string) (*models.UserDB, error)
}

// RegisterRequest represents the JSON body for user registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	// Username
	// required: true
	// example: alice
	Username string `json:"username"`

	// Email
	// required: true
	// example: alice@example.com
	Email string `json:"email"`

	// Password, minimum 8 characters
	// required: true
	// example: password123
	Password string `json:"password"`
}

// NewRegisterHandler returns an HTTP handler for user registration.
// @Summary Register a new user
// @Description Creates a new user account. Username and email must be unique (case-insensitive). The password is hashed before storing.
// @Tags users
// @Accept json
// @Produce json
// @Param registerRequest body handlers.RegisterRequest true "User registration request"
// @Success 201 {object} models.UserPrivate "User created"
// @Failure 400 {object} handlers.ErrorResponse "Validation error or duplicate username/email"
// @Router /api/users [post]
func NewRegisterHandler(svc Registerer, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if msg, ok := validateRegisterRequest(req); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		user, err := svc.Register(r.Context(), req.Username, req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUsernameTaken):
				writeError(w, http.StatusBadRequest, "Username already exists")
			case errors.Is(err, services.ErrEmailTaken):
				writeError(w, http.StatusBadRequest, "Email already registered")
			default:
				log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusCreated, user.PrivateView())
	}
}

func validateRegisterRequest(req RegisterRequest) (string, bool) {
	if n := utf8.RuneCountInString(req.Username); n < 1 || n > 50 {
		return "username must be between 1 and 50 characters", false
	}
	if _, err := mail.ParseAddress(req.Email); err != nil || len(req.Email) > 120 {
		return "invalid email address", false
	}
	if utf8.RuneCountInString(req.Password) < 8 {
		return "password must be at least 8 characters", false
	}
	return "", true
}
