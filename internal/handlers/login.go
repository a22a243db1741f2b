package handlers

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/services"
)

// Loginer defines the interface that the login service must implement.
type Loginer interface {
	Login(ctx context.Context, email, plaintext string) (string, error)
}

// TokenResponse represents a successful login response
// swagger:model TokenResponse
type TokenResponse struct {
	// Signed bearer token
	// example: eyJhbGciOiJIUzI1NiJ9...
	AccessToken string `json:"access_token"`

	// Token type label, always "bearer"
	// example: bearer
	TokenType string `json:"token_type"`
}

// NewLoginHandler returns an HTTP handler for the token endpoint. The body
// is form-encoded in the OAuth2 password style: the username field carries
// the email address.
// @Summary Obtain an access token
// @Description Authenticates by email and password and returns a bearer token.
// @Tags users
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Email address"
// @Param password formData string true "Password"
// @Success 200 {object} handlers.TokenResponse "Bearer token"
// @Failure 401 {object} handlers.ErrorResponse "Incorrect email or password"
// @Router /api/users/token [post]
func NewLoginHandler(svc Loginer, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			writeError(w, http.StatusBadRequest, "invalid form body")
			return
		}

		email := r.PostFormValue("username")
		plaintext := r.PostFormValue("password")

		token, err := svc.Login(r.Context(), email, plaintext)
		if err != nil {
			if errors.Is(err, services.ErrInvalidCredentials) {
				w.Header().Set("WWW-Authenticate", "Bearer")
				writeError(w, http.StatusUnauthorized, "Incorrect email or password")
				return
			}
			log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
		})
	}
}
