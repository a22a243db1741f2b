package repositories

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/models"
)

// Duplicate-key errors reported by the write repository. The pre-insert
// uniqueness checks in the service give nicer errors, but the LOWER(...)
// unique indexes are what actually guarantees uniqueness under concurrent
// registration, so violations are mapped here as well.
var (
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
)

// Named unique indexes in the users table; see the schema in the
// integration tests.
const (
	usernameUniqueIndex = "users_username_lower_idx"
	emailUniqueIndex    = "users_email_lower_idx"
)

type UserReadRepository struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

func NewUserReadRepository(db *sqlx.DB, log *zap.SugaredLogger) *UserReadRepository {
	return &UserReadRepository{db: db, log: log}
}

// GetByID returns the user with the given id, or nil if absent.
func (r *UserReadRepository) GetByID(ctx context.Context, id int64) (*models.UserDB, error) {
	const query = `
		SELECT id, username, email, password_hash, image_file
		FROM users
		WHERE id = $1
	`
	return r.get(ctx, query, id)
}

// GetByUsername returns the user with the given username, matched
// case-insensitively, or nil if absent.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	const query = `
		SELECT id, username, email, password_hash, image_file
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`
	return r.get(ctx, query, username)
}

// GetByEmail returns the user with the given email, matched
// case-insensitively, or nil if absent.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	const query = `
		SELECT id, username, email, password_hash, image_file
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`
	return r.get(ctx, query, email)
}

func (r *UserReadRepository) get(ctx context.Context, query string, arg any) (*models.UserDB, error) {
	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, arg)

	r.log.Debugw("user query",
		"query", strings.Join(strings.Fields(query), " "),
		"error", err,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

type UserWriteRepository struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

func NewUserWriteRepository(db *sqlx.DB, log *zap.SugaredLogger) *UserWriteRepository {
	return &UserWriteRepository{db: db, log: log}
}

// Save inserts a new user and returns the stored row.
func (r *UserWriteRepository) Save(ctx context.Context, username, email, passwordHash string) (*models.UserDB, error) {
	const query = `
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, username, email, password_hash, image_file
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, username, email, passwordHash)

	r.log.Debugw("insert user", "username", username, "error", err)

	if err != nil {
		return nil, mapUniqueViolation(err)
	}

	return &user, nil
}

// Update applies a partial update; nil fields are left unchanged. Returns
// the updated row, or nil if the user does not exist.
func (r *UserWriteRepository) Update(ctx context.Context, id int64, username, email, imageFile *string) (*models.UserDB, error) {
	const query = `
		UPDATE users
		SET username   = COALESCE($2, username),
		    email      = COALESCE($3, email),
		    image_file = COALESCE($4, image_file)
		WHERE id = $1
		RETURNING id, username, email, password_hash, image_file
	`

	var user models.UserDB
	err := r.db.GetContext(ctx, &user, query, id, username, email, imageFile)

	r.log.Debugw("update user", "id", id, "error", err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapUniqueViolation(err)
	}

	return &user, nil
}

// Delete removes the user; owned posts go with it via ON DELETE CASCADE.
// Returns false if no row was deleted.
func (r *UserWriteRepository) Delete(ctx context.Context, id int64) (bool, error) {
	const query = `DELETE FROM users WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)

	r.log.Debugw("delete user", "id", id, "error", err)

	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

// mapUniqueViolation translates a postgres unique-violation into the
// field-specific sentinel, leaving other errors untouched.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}

	switch pgErr.ConstraintName {
	case usernameUniqueIndex:
		return ErrDuplicateUsername
	case emailUniqueIndex:
		return ErrDuplicateEmail
	}

	return err
}
