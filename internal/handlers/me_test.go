package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mbazhenov/blog-platform/internal/middlewares"
	"github.com/mbazhenov/blog-platform/internal/models"
)

func TestMeHandler(t *testing.T) {
	t.Run("authenticated", func(t *testing.T) {
		user := &models.UserDB{
			ID:        42,
			Username:  "alice",
			Email:     "alice@example.com",
			ImageFile: sql.NullString{String: "avatar.jpg", Valid: true},
		}

		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		req = req.WithContext(middlewares.SetUserToContext(req.Context(), user))
		rr := httptest.NewRecorder()

		NewMeHandler().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp models.UserPrivate
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, int64(42), resp.ID)
		assert.Equal(t, "alice", resp.Username)
		assert.Equal(t, "alice@example.com", resp.Email)
		assert.Equal(t, "/media/profile_pics/avatar.jpg", resp.ImagePath)
	})

	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
		rr := httptest.NewRecorder()

		NewMeHandler().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})
}
