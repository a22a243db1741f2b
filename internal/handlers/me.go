package handlers

import (
	"net/http"

	"github.com/mbazhenov/blog-platform/internal/middlewares"
)

// NewMeHandler returns an HTTP handler for the current-user endpoint. The
// auth middleware has already resolved the bearer token to a user.
// @Summary Get the current user
// @Description Returns the private profile of the authenticated caller.
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserPrivate "Current user"
// @Failure 401 {object} handlers.ErrorResponse "Invalid or expired token"
// @Router /api/users/me [get]
func NewMeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middlewares.GetUserFromContext(r.Context())
		if user == nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		writeJSON(w, http.StatusOK, user.PrivateView())
	}
}
