package middlewares

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/mbazhenov/blog-platform/internal/models"
	"github.com/mbazhenov/blog-platform/internal/services"
)

// TokenExtractor pulls the bearer token out of a request.
type TokenExtractor interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
}

// UserResolver maps a bearer token to the user it was issued for.
type UserResolver interface {
	Resolve(ctx context.Context, tokenString string) (*models.UserDB, error)
}

// AuthMiddleware authenticates the request and stores the resolved user in
// the request context. Missing, invalid or expired tokens and tokens for
// deleted users all answer 401 with a WWW-Authenticate challenge.
func AuthMiddleware(extractor TokenExtractor, resolver UserResolver, log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := extractor.GetTokenFromRequest(ctx, r)
			if err != nil {
				unauthorized(w)
				return
			}

			user, err := resolver.Resolve(ctx, tokenString)
			if err != nil {
				if errors.Is(err, services.ErrUnauthenticated) {
					unauthorized(w)
					return
				}
				log.Errorw("failed to resolve user", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(SetUserToContext(ctx, user)))
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"error":"Invalid or expired token"}`))
}

// contextKey is an unexported type for keys in context
type contextKey struct{}

var userKey = contextKey{}

// SetUserToContext stores the authenticated user in the context.
func SetUserToContext(ctx context.Context, user *models.UserDB) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext retrieves the authenticated user from the context.
// Returns nil if the request did not pass through AuthMiddleware.
func GetUserFromContext(ctx context.Context) *models.UserDB {
	user, _ := ctx.Value(userKey).(*models.UserDB)
	return user
}
