package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/models"
)

var ErrPostNotFound = errors.New("post not found")

// PostReader defines read-only operations for posts.
type PostReader interface {
	GetByID(ctx context.Context, id int64) (*models.PostWithAuthor, error)
	ListAll(ctx context.Context) ([]models.PostWithAuthor, error)
	ListByUser(ctx context.Context, userID int64) ([]models.PostWithAuthor, error)
}

// PostWriter defines write operations for posts.
type PostWriter interface {
	Save(ctx context.Context, title, content string, userID int64) (*models.PostDB, error)
	Update(ctx context.Context, id int64, title, content *string) (*models.PostDB, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// PostsService handles post CRUD with ownership checks.
type PostsService struct {
	posts  PostReader
	writer PostWriter
	users  UserReader
	log    *zap.SugaredLogger
}

// NewPostsService creates a new PostsService instance.
func NewPostsService(posts PostReader, writer PostWriter, users UserReader, log *zap.SugaredLogger) *PostsService {
	return &PostsService{
		posts:  posts,
		writer: writer,
		users:  users,
		log:    log,
	}
}

// ListPosts returns all posts, newest first.
func (svc *PostsService) ListPosts(ctx context.Context) ([]models.PostWithAuthor, error) {
	posts, err := svc.posts.ListAll(ctx)
	if err != nil {
		svc.log.Errorw("failed to list posts", "err", err)
		return nil, err
	}
	return posts, nil
}

// GetPost returns a single post with its author.
func (svc *PostsService) GetPost(ctx context.Context, id int64) (*models.PostWithAuthor, error) {
	post, err := svc.posts.GetByID(ctx, id)
	if err != nil {
		svc.log.Errorw("failed to get post", "err", err)
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// ListUserPosts returns a user's posts, newest first. The user must exist.
func (svc *PostsService) ListUserPosts(ctx context.Context, userID int64) ([]models.PostWithAuthor, error) {
	user, err := svc.users.GetByID(ctx, userID)
	if err != nil {
		svc.log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	posts, err := svc.posts.ListByUser(ctx, userID)
	if err != nil {
		svc.log.Errorw("failed to list user posts", "err", err)
		return nil, err
	}
	return posts, nil
}

// CreatePost stores a new post authored by the given user.
func (svc *PostsService) CreatePost(ctx context.Context, title, content string, authorID int64) (*models.PostDB, error) {
	post, err := svc.writer.Save(ctx, title, content, authorID)
	if err != nil {
		svc.log.Errorw("failed to save post", "err", err)
		return nil, err
	}

	svc.log.Infow("post created", "id", post.ID, "user_id", authorID)
	return post, nil
}

// UpdatePost applies a partial update. Only the author may update a post.
func (svc *PostsService) UpdatePost(ctx context.Context, id, callerID int64, title, content *string) (*models.PostDB, error) {
	post, err := svc.posts.GetByID(ctx, id)
	if err != nil {
		svc.log.Errorw("failed to get post", "err", err)
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.UserID != callerID {
		return nil, ErrForbidden
	}

	updated, err := svc.writer.Update(ctx, id, title, content)
	if err != nil {
		svc.log.Errorw("failed to update post", "err", err)
		return nil, err
	}
	if updated == nil {
		return nil, ErrPostNotFound
	}

	return updated, nil
}

// DeletePost removes a post. Only the author may delete it.
func (svc *PostsService) DeletePost(ctx context.Context, id, callerID int64) error {
	post, err := svc.posts.GetByID(ctx, id)
	if err != nil {
		svc.log.Errorw("failed to get post", "err", err)
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.UserID != callerID {
		return ErrForbidden
	}

	deleted, err := svc.writer.Delete(ctx, id)
	if err != nil {
		svc.log.Errorw("failed to delete post", "err", err)
		return err
	}
	if !deleted {
		return ErrPostNotFound
	}

	return nil
}
