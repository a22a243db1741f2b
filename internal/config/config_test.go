package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Defaults(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := New("does-not-exist.env")
	assert.NoError(t, err)

	assert.Equal(t, "localhost", cfg.AppHost)
	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5432, cfg.PostgresPort)
	assert.Equal(t, "HS256", cfg.JWTAlgorithm)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenExp)
}

func TestNew_MissingSecret(t *testing.T) {
	os.Clearenv()

	cfg, err := New("does-not-exist.env")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestNew_InvalidNumbers(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{"PostgresPort", "POSTGRES_PORT"},
		{"MaxOpenConns", "POSTGRES_MAX_OPEN_CONNS"},
		{"MaxIdleConns", "POSTGRES_MAX_IDLE_CONNS"},
		{"TokenExpiry", "ACCESS_TOKEN_EXPIRE_MINUTES"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			os.Setenv("JWT_SECRET_KEY", "test-secret")
			os.Setenv(tt.key, "not-a-number")

			cfg, err := New("does-not-exist.env")
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	os.Clearenv()
	os.Setenv("JWT_SECRET_KEY", "test-secret")
	os.Setenv("POSTGRES_HOST", "db.internal")
	os.Setenv("POSTGRES_PORT", "5433")
	os.Setenv("POSTGRES_USER", "blog")
	os.Setenv("POSTGRES_PASSWORD", "pw")
	os.Setenv("POSTGRES_DB", "blogdb")

	cfg, err := New("does-not-exist.env")
	assert.NoError(t, err)
	assert.Equal(t, "postgres://blog:pw@db.internal:5433/blogdb?sslmode=disable", cfg.PostgresDSN())
}
