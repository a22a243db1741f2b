package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/middlewares"
	"github.com/mbazhenov/blog-platform/internal/models"
	"github.com/mbazhenov/blog-platform/internal/services"
)

func newPostsRouter(svc PostService, caller *models.UserDB) *chi.Mux {
	log := zap.NewNop().Sugar()
	r := chi.NewRouter()
	if caller != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(middlewares.SetUserToContext(req.Context(), caller)))
			})
		})
	}
	r.Get("/api/posts", NewListPostsHandler(svc, log))
	r.Post("/api/posts", NewCreatePostHandler(svc, log))
	r.Get("/api/posts/{postID}", NewGetPostHandler(svc, log))
	r.Patch("/api/posts/{postID}", NewUpdatePostHandler(svc, log))
	r.Delete("/api/posts/{postID}", NewDeletePostHandler(svc, log))
	r.Get("/api/users/{userID}/posts", NewGetUserPostsHandler(svc, log))
	return r
}

func TestListPostsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockPostService(ctrl)

	posts := []models.PostWithAuthor{
		{
			PostDB: models.PostDB{ID: 2, Title: "Second", Content: "b", UserID: 42, DatePosted: time.Now()},
			Author: models.UserDB{ID: 42, Username: "alice", Email: "alice@example.com"},
		},
		{
			PostDB: models.PostDB{ID: 1, Title: "First", Content: "a", UserID: 42, DatePosted: time.Now().Add(-time.Hour)},
			Author: models.UserDB{ID: 42, Username: "alice", Email: "alice@example.com"},
		},
	}

	mockSvc.EXPECT().ListPosts(gomock.Any()).Return(posts, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	rr := httptest.NewRecorder()
	newPostsRouter(mockSvc, nil).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp []models.PostResponse
	assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, "Second", resp[0].Title)
	assert.Equal(t, "alice", resp[0].Author.Username)
}

func TestGetPostHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockPostService(ctrl)

	t.Run("found", func(t *testing.T) {
		mockSvc.EXPECT().GetPost(gomock.Any(), int64(1)).Return(&models.PostWithAuthor{
			PostDB: models.PostDB{ID: 1, Title: "First", Content: "a", UserID: 42},
			Author: models.UserDB{ID: 42, Username: "alice"},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/posts/1", nil)
		rr := httptest.NewRecorder()
		newPostsRouter(mockSvc, nil).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.EXPECT().GetPost(gomock.Any(), int64(99)).Return(nil, services.ErrPostNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/posts/99", nil)
		rr := httptest.NewRecorder()
		newPostsRouter(mockSvc, nil).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestCreatePostHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	caller := &models.UserDB{ID: 42, Username: "alice"}

	t.Run("authenticated caller becomes the author", func(t *testing.T) {
		mockSvc := NewMockPostService(ctrl)
		mockSvc.EXPECT().
			CreatePost(gomock.Any(), "Title", "Content", int64(42)).
			Return(&models.PostDB{ID: 1, Title: "Title", Content: "Content", UserID: 42, DatePosted: time.Now()}, nil)

		body, _ := json.Marshal(CreatePostRequest{Title: "Title", Content: "Content"})
		req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		newPostsRouter(mockSvc, caller).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp models.PostResponse
		assert.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, int64(42), resp.UserID)
		assert.Equal(t, "alice", resp.Author.Username)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		mockSvc := NewMockPostService(ctrl)

		body, _ := json.Marshal(CreatePostRequest{Title: "Title", Content: "Content"})
		req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		newPostsRouter(mockSvc, nil).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
	})

	t.Run("empty title", func(t *testing.T) {
		mockSvc := NewMockPostService(ctrl)

		body, _ := json.Marshal(CreatePostRequest{Title: "", Content: "Content"})
		req := httptest.NewRequest(http.MethodPost, "/api/posts", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		newPostsRouter(mockSvc, caller).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestUpdatePostHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	caller := &models.UserDB{ID: 42, Username: "alice"}

	t.Run("owner updates", func(t *testing.T) {
		mockSvc := NewMockPostService(ctrl)
		mockSvc.EXPECT().
			UpdatePost(gomock.Any(), int64(1), int64(42), strPtr("New"), nil).
			Return(&models.PostDB{ID: 1, Title: "New", Content: "a", UserID: 42}, nil)

		body, _ := json.Marshal(UpdatePostRequest{Title: strPtr("New")})
		req := httptest.NewRequest(http.MethodPatch, "/api/posts/1", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		newPostsRouter(mockSvc, caller).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		mockSvc := NewMockPostService(ctrl)
		mockSvc.EXPECT().
			UpdatePost(gomock.Any(), int64(1), int64(42), strPtr("New"), nil).
			Return(nil, services.ErrForbidden)

		body, _ := json.Marshal(UpdatePostRequest{Title: strPtr("New")})
		req := httptest.NewRequest(http.MethodPatch, "/api/posts/1", bytes.NewReader(body))
		rr := httptest.NewRecorder()
		newPostsRouter(mockSvc, caller).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestDeletePostHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	caller := &models.UserDB{ID: 42, Username: "alice"}

	t.Run("owner deletes", func(t *testing.T) {
		mockSvc := NewMockPostService(ctrl)
		mockSvc.EXPECT().DeletePost(gomock.Any(), int64(1), int64(42)).Return(nil)

		req := httptest.NewRequest(http.MethodDelete, "/api/posts/1", nil)
		rr := httptest.NewRecorder()
		newPostsRouter(mockSvc, caller).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc := NewMockPostService(ctrl)
		mockSvc.EXPECT().DeletePost(gomock.Any(), int64(99), int64(42)).Return(services.ErrPostNotFound)

		req := httptest.NewRequest(http.MethodDelete, "/api/posts/99", nil)
		rr := httptest.NewRecorder()
		newPostsRouter(mockSvc, caller).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestGetUserPostsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("unknown user", func(t *testing.T) {
		mockSvc := NewMockPostService(ctrl)
		mockSvc.EXPECT().ListUserPosts(gomock.Any(), int64(99)).Return(nil, services.ErrUserNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/users/99/posts", nil)
		rr := httptest.NewRecorder()
		newPostsRouter(mockSvc, nil).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("lists posts", func(t *testing.T) {
		mockSvc := NewMockPostService(ctrl)
		mockSvc.EXPECT().ListUserPosts(gomock.Any(), int64(42)).
			Return([]models.PostWithAuthor{}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/users/42/posts", nil)
		rr := httptest.NewRecorder()
		newPostsRouter(mockSvc, nil).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, "[]", rr.Body.String())
	})
}
