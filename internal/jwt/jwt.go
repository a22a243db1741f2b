package jwt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned by Decode for every kind of failure: bad
// signature, wrong algorithm, missing claims, expired token. Callers cannot
// tell the cases apart, so neither can anyone probing the API.
var ErrInvalidToken = errors.New("invalid token")

// JWT mints and verifies signed bearer tokens. The secret and algorithm are
// fixed at construction and never change for the lifetime of the process.
type JWT struct {
	secretKey []byte
	method    *jwt.SigningMethodHMAC
	exp       time.Duration
}

// New creates a JWT codec. algorithm must be an HMAC variant (HS256, HS384
// or HS512); exp is the default token lifetime used by Generate.
func New(secretKey, algorithm string, exp time.Duration) (*JWT, error) {
	if secretKey == "" {
		return nil, errors.New("jwt: secret key is required")
	}

	method, ok := jwt.GetSigningMethod(algorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, fmt.Errorf("jwt: unsupported signing algorithm %q", algorithm)
	}

	return &JWT{
		secretKey: []byte(secretKey),
		method:    method,
		exp:       exp,
	}, nil
}

// Generate mints a token for the given subject with the default lifetime.
func (j *JWT) Generate(ctx context.Context, subject string) (string, error) {
	return j.GenerateWithTTL(ctx, subject, j.exp)
}

// GenerateWithTTL mints a token for the given subject expiring ttl from now.
func (j *JWT) GenerateWithTTL(ctx context.Context, subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(j.method, claims)
	return token.SignedString(j.secretKey)
}

// Decode verifies the token signature against the configured secret and
// algorithm and returns the subject claim. Both sub and exp must be present
// and the token must not be expired.
func (j *JWT) Decode(ctx context.Context, tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return j.secretKey, nil
		},
		jwt.WithValidMethods([]string{j.method.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}

// GetTokenFromRequest extracts the bearer token from the Authorization header.
func (j *JWT) GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
