package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/models"
)

// postColumns selects a post joined with its author, aliased so sqlx can
// scan the author into the embedded struct.
const postColumns = `
	p.id, p.title, p.content, p.user_id, p.date_posted,
	u.id            AS "author.id",
	u.username      AS "author.username",
	u.email         AS "author.email",
	u.password_hash AS "author.password_hash",
	u.image_file    AS "author.image_file"
`

type PostReadRepository struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

func NewPostReadRepository(db *sqlx.DB, log *zap.SugaredLogger) *PostReadRepository {
	return &PostReadRepository{db: db, log: log}
}

// GetByID returns the post with its author, or nil if absent.
func (r *PostReadRepository) GetByID(ctx context.Context, id int64) (*models.PostWithAuthor, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.id = $1
	`

	var post models.PostWithAuthor
	err := r.db.GetContext(ctx, &post, query, id)

	r.log.Debugw("post query",
		"query", strings.Join(strings.Fields(query), " "),
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// ListAll returns every post with its author, newest first.
func (r *PostReadRepository) ListAll(ctx context.Context) ([]models.PostWithAuthor, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		ORDER BY p.date_posted DESC
	`
	return r.list(ctx, query)
}

// ListByUser returns a user's posts with the author, newest first.
func (r *PostReadRepository) ListByUser(ctx context.Context, userID int64) ([]models.PostWithAuthor, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.user_id
		WHERE p.user_id = $1
		ORDER BY p.date_posted DESC
	`
	return r.list(ctx, query, userID)
}

func (r *PostReadRepository) list(ctx context.Context, query string, args ...any) ([]models.PostWithAuthor, error) {
	var posts []models.PostWithAuthor
	err := r.db.SelectContext(ctx, &posts, query, args...)

	r.log.Debugw("post list query",
		"query", strings.Join(strings.Fields(query), " "),
		"count", len(posts),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	return posts, nil
}

type PostWriteRepository struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

func NewPostWriteRepository(db *sqlx.DB, log *zap.SugaredLogger) *PostWriteRepository {
	return &PostWriteRepository{db: db, log: log}
}

// Save inserts a new post and returns the stored row.
func (r *PostWriteRepository) Save(ctx context.Context, title, content string, userID int64) (*models.PostDB, error) {
	const query = `
		INSERT INTO posts (title, content, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, title, content, user_id, date_posted
	`

	var post models.PostDB
	err := r.db.GetContext(ctx, &post, query, title, content, userID)

	r.log.Debugw("insert post", "user_id", userID, "error", err)

	if err != nil {
		return nil, err
	}

	return &post, nil
}

// Update applies a partial update; nil fields are left unchanged. Returns
// the updated row, or nil if the post does not exist.
func (r *PostWriteRepository) Update(ctx context.Context, id int64, title, content *string) (*models.PostDB, error) {
	const query = `
		UPDATE posts
		SET title   = COALESCE($2, title),
		    content = COALESCE($3, content)
		WHERE id = $1
		RETURNING id, title, content, user_id, date_posted
	`

	var post models.PostDB
	err := r.db.GetContext(ctx, &post, query, id, title, content)

	r.log.Debugw("update post", "id", id, "error", err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &post, nil
}

// Delete removes the post. Returns false if no row was deleted.
func (r *PostWriteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM posts WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)

	r.log.Debugw("delete post", "id", id, "error", err)

	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
