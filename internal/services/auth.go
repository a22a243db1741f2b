package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/models"
	"github.com/mbazhenov/blog-platform/internal/password"
	"github.com/mbazhenov/blog-platform/internal/repositories"
)

// Error variables. ErrInvalidCredentials is deliberately the only login
// failure: an unknown email and a wrong password are indistinguishable to
// the caller. Registration conflicts, by contrast, do name the field — no
// secret is at stake there.
var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUnauthenticated    = errors.New("invalid or expired token")
)

// dummyHash is a well-formed argon2id string that no password hashes to.
// Login verifies against it when the email is unknown, so the not-found
// path does the same argon2 work as the wrong-password path.
const dummyHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByID(ctx context.Context, id int64) (*models.UserDB, error)
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
}

// UserCreator defines the insert operation for users.
type UserCreator interface {
	Save(ctx context.Context, username, email, passwordHash string) (*models.UserDB, error)
}

// Tokener defines the token codec operations the auth service needs.
type Tokener interface {
	Generate(ctx context.Context, subject string) (string, error)
	Decode(ctx context.Context, tokenString string) (string, error)
}

// AuthService handles registration, login and token-to-user resolution.
type AuthService struct {
	reader UserReader
	writer UserCreator
	jwt    Tokener
	log    *zap.SugaredLogger
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(reader UserReader, writer UserCreator, jwt Tokener, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		reader: reader,
		writer: writer,
		jwt:    jwt,
		log:    log,
	}
}

// Register creates a new user. Username and email are checked for existing
// case-insensitive matches first so the conflict error can name the field;
// the unique indexes in the users table back the check up against races.
// The email is stored lowercased; the password is hashed before it touches
// the database.
func (svc *AuthService) Register(ctx context.Context, username, email, plaintext string) (*models.UserDB, error) {
	existing, err := svc.reader.GetByUsername(ctx, username)
	if err != nil {
		svc.log.Errorw("failed to check username", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	existing, err = svc.reader.GetByEmail(ctx, email)
	if err != nil {
		svc.log.Errorw("failed to check email", "err", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := password.Hash(plaintext)
	if err != nil {
		svc.log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Save(ctx, username, strings.ToLower(email), hash)
	if err != nil {
		// A concurrent registration can slip past the pre-checks; the
		// unique index reports it and the error stays field-specific.
		switch {
		case errors.Is(err, repositories.ErrDuplicateUsername):
			return nil, ErrUsernameTaken
		case errors.Is(err, repositories.ErrDuplicateEmail):
			return nil, ErrEmailTaken
		}
		svc.log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	svc.log.Infow("user registered", "id", user.ID, "username", user.Username)
	return user, nil
}

// Login authenticates by email (case-insensitive) and returns a bearer
// token with the user's id as subject. When the email is unknown the
// password is still verified against a dummy hash, so both failure causes
// run the same code path before collapsing to ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, email, plaintext string) (string, error) {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		svc.log.Errorw("failed to get user", "err", err)
		return "", err
	}

	if user == nil {
		password.Verify(plaintext, dummyHash)
		return "", ErrInvalidCredentials
	}

	if !password.Verify(plaintext, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	token, err := svc.jwt.Generate(ctx, strconv.FormatInt(user.ID, 10))
	if err != nil {
		svc.log.Errorw("failed to generate token", "err", err)
		return "", err
	}

	return token, nil
}

// Resolve maps a bearer token to the persisted user it was issued for.
// Decode failure, a non-numeric subject and a missing user (deleted after
// issuance) all collapse to ErrUnauthenticated.
func (svc *AuthService) Resolve(ctx context.Context, tokenString string) (*models.UserDB, error) {
	subject, err := svc.jwt.Decode(ctx, tokenString)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	id, err := strconv.ParseInt(subject, 10, 64)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := svc.reader.GetByID(ctx, id)
	if err != nil {
		svc.log.Errorw("failed to look up token subject", "err", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthenticated
	}

	return user, nil
}
