package services

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/models"
	"github.com/mbazhenov/blog-platform/internal/repositories"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("forbidden")
)

// UserUpdater defines mutation operations for existing users.
type UserUpdater interface {
	Update(ctx context.Context, id int64, username, email, imageFile *string) (*models.UserDB, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// UsersService handles user lookup, partial update and deletion.
type UsersService struct {
	reader UserReader
	writer UserUpdater
	log    *zap.SugaredLogger
}

// NewUsersService creates a new UsersService instance.
func NewUsersService(reader UserReader, writer UserUpdater, log *zap.SugaredLogger) *UsersService {
	return &UsersService{
		reader: reader,
		writer: writer,
		log:    log,
	}
}

// GetUser returns the user with the given id.
func (svc *UsersService) GetUser(ctx context.Context, id int64) (*models.UserDB, error) {
	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		svc.log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateUser applies a partial update. Changed username/email values go
// through the same case-insensitive uniqueness checks as registration;
// a value that only differs in case from the user's own is not a conflict.
func (svc *UsersService) UpdateUser(ctx context.Context, id int64, username, email, imageFile *string) (*models.UserDB, error) {
	current, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		svc.log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if current == nil {
		return nil, ErrUserNotFound
	}

	if username != nil && !strings.EqualFold(*username, current.Username) {
		existing, err := svc.reader.GetByUsername(ctx, *username)
		if err != nil {
			svc.log.Errorw("failed to check username", "err", err)
			return nil, err
		}
		if existing != nil {
			return nil, ErrUsernameTaken
		}
	}

	if email != nil {
		lowered := strings.ToLower(*email)
		email = &lowered
		if !strings.EqualFold(lowered, current.Email) {
			existing, err := svc.reader.GetByEmail(ctx, lowered)
			if err != nil {
				svc.log.Errorw("failed to check email", "err", err)
				return nil, err
			}
			if existing != nil {
				return nil, ErrEmailTaken
			}
		}
	}

	user, err := svc.writer.Update(ctx, id, username, email, imageFile)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		svc.log.Errorw("failed to update user", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// DeleteUser removes the user; their posts cascade away with them.
func (svc *UsersService) DeleteUser(ctx context.Context, id int64) error {
	deleted, err := svc.writer.Delete(ctx, id)
	if err != nil {
		svc.log.Errorw("failed to delete user", "err", err)
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}

	svc.log.Infow("user deleted", "id", id)
	return nil
}
