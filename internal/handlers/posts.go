package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/middlewares"
	"github.com/mbazhenov/blog-platform/internal/models"
	"github.com/mbazhenov/blog-platform/internal/services"
)

// PostService defines the interface that the post CRUD service must implement.
type PostService interface {
	ListPosts(ctx context.Context) ([]models.PostWithAuthor, error)
	GetPost(ctx context.Context, id int64) (*models.PostWithAuthor, error)
	ListUserPosts(ctx context.Context, userID int64) ([]models.PostWithAuthor, error)
	CreatePost(ctx context.Context, title, content string, authorID int64) (*models.PostDB, error)
	UpdatePost(ctx context.Context, id, callerID int64, title, content *string) (*models.PostDB, error)
	DeletePost(ctx context.Context, id, callerID int64) error
}

// CreatePostRequest represents the JSON body for creating a post
// swagger:model CreatePostRequest
type CreatePostRequest struct {
	// Title, 1-100 characters
	// required: true
	// example: My first post
	Title string `json:"title"`

	// Post body
	// required: true
	// example: Hello, world.
	Content string `json:"content"`
}

// UpdatePostRequest represents the JSON body for a partial post update
// swagger:model UpdatePostRequest
type UpdatePostRequest struct {
	// New title
	// example: Edited title
	Title *string `json:"title"`

	// New body
	// example: Edited content.
	Content *string `json:"content"`
}

// NewListPostsHandler returns an HTTP handler listing all posts, newest first.
// @Summary List posts
// @Tags posts
// @Produce json
// @Success 200 {array} models.PostResponse "Posts with their authors"
// @Router /api/posts [get]
func NewListPostsHandler(svc PostService, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := svc.ListPosts(r.Context())
		if err != nil {
			log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, postViews(posts))
	}
}

// NewGetPostHandler returns an HTTP handler for fetching one post.
// @Summary Get a post
// @Tags posts
// @Produce json
// @Param postID path int true "Post ID"
// @Success 200 {object} models.PostResponse "Post with its author"
// @Failure 404 {object} handlers.ErrorResponse "Post not found"
// @Router /api/posts/{postID} [get]
func NewGetPostHandler(svc PostService, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := postIDParam(w, r)
		if !ok {
			return
		}

		post, err := svc.GetPost(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrPostNotFound) {
				writeError(w, http.StatusNotFound, "Post not found")
				return
			}
			log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, post.View())
	}
}

// NewGetUserPostsHandler returns an HTTP handler listing a user's posts,
// newest first.
// @Summary List a user's posts
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {array} models.PostResponse "Posts with their authors"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Router /api/users/{userID}/posts [get]
func NewGetUserPostsHandler(svc PostService, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := userIDParam(w, r)
		if !ok {
			return
		}

		posts, err := svc.ListUserPosts(r.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "User not found")
				return
			}
			log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusOK, postViews(posts))
	}
}

// NewCreatePostHandler returns an HTTP handler for creating a post. The
// authenticated caller becomes the author.
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param createRequest body handlers.CreatePostRequest true "Post to create"
// @Success 201 {object} models.PostResponse "Created post"
// @Failure 400 {object} handlers.ErrorResponse "Validation error"
// @Failure 401 {object} handlers.ErrorResponse "Invalid or expired token"
// @Router /api/posts [post]
func NewCreatePostHandler(svc PostService, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middlewares.GetUserFromContext(r.Context())
		if caller == nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		var req CreatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if msg, ok := validatePostFields(&req.Title, &req.Content); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		post, err := svc.CreatePost(r.Context(), req.Title, req.Content, caller.ID)
		if err != nil {
			log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		writeJSON(w, http.StatusCreated, models.PostResponse{
			ID:         post.ID,
			Title:      post.Title,
			Content:    post.Content,
			UserID:     post.UserID,
			DatePosted: post.DatePosted,
			Author:     caller.PublicView(),
		})
	}
}

// NewUpdatePostHandler returns an HTTP handler for partially updating a
// post. Only the author may update it.
// @Summary Update a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param postID path int true "Post ID"
// @Param updateRequest body handlers.UpdatePostRequest true "Fields to update"
// @Success 200 {object} models.PostResponse "Updated post"
// @Failure 403 {object} handlers.ErrorResponse "Not the author"
// @Failure 404 {object} handlers.ErrorResponse "Post not found"
// @Router /api/posts/{postID} [patch]
func NewUpdatePostHandler(svc PostService, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := postIDParam(w, r)
		if !ok {
			return
		}

		caller := middlewares.GetUserFromContext(r.Context())
		if caller == nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		var req UpdatePostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if msg, ok := validatePostFields(req.Title, req.Content); !ok {
			writeError(w, http.StatusBadRequest, msg)
			return
		}

		post, err := svc.UpdatePost(r.Context(), id, caller.ID, req.Title, req.Content)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrPostNotFound):
				writeError(w, http.StatusNotFound, "Post not found")
			case errors.Is(err, services.ErrForbidden):
				writeError(w, http.StatusForbidden, "You can only update your own posts")
			default:
				log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		writeJSON(w, http.StatusOK, models.PostResponse{
			ID:         post.ID,
			Title:      post.Title,
			Content:    post.Content,
			UserID:     post.UserID,
			DatePosted: post.DatePosted,
			Author:     caller.PublicView(),
		})
	}
}

// NewDeletePostHandler returns an HTTP handler for deleting a post. Only
// the author may delete it.
// @Summary Delete a post
// @Tags posts
// @Security BearerAuth
// @Param postID path int true "Post ID"
// @Success 204 "Deleted"
// @Failure 403 {object} handlers.ErrorResponse "Not the author"
// @Failure 404 {object} handlers.ErrorResponse "Post not found"
// @Router /api/posts/{postID} [delete]
func NewDeletePostHandler(svc PostService, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := postIDParam(w, r)
		if !ok {
			return
		}

		caller := middlewares.GetUserFromContext(r.Context())
		if caller == nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if err := svc.DeletePost(r.Context(), id, caller.ID); err != nil {
			switch {
			case errors.Is(err, services.ErrPostNotFound):
				writeError(w, http.StatusNotFound, "Post not found")
			case errors.Is(err, services.ErrForbidden):
				writeError(w, http.StatusForbidden, "You can only delete your own posts")
			default:
				log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Internal server error")
			}
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func postIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid post id")
		return 0, false
	}
	return id, true
}

// validatePostFields checks title/content bounds; nil means "not provided"
// and is skipped, which lets create and partial update share the rules.
func validatePostFields(title, content *string) (string, bool) {
	if title != nil {
		if n := utf8.RuneCountInString(*title); n < 1 || n > 100 {
			return "title must be between 1 and 100 characters", false
		}
	}
	if content != nil {
		if utf8.RuneCountInString(*content) < 1 {
			return "content must not be empty", false
		}
	}
	return "", true
}

func postViews(posts []models.PostWithAuthor) []models.PostResponse {
	views := make([]models.PostResponse, 0, len(posts))
	for i := range posts {
		views = append(views, posts[i].View())
	}
	return views
}
