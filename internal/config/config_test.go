package config

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:             "test",
		ServerPort:      "8080",
		RequestTimeout:  30 * time.Second,
		DatabaseURL:     "postgres://localhost:5432/blog",
		JWTSecret:       strings.Repeat("s", 32),
		SessionTTL:      7 * 24 * time.Hour,
		CSRFTTL:         24 * time.Hour,
		LoginRateWindow: 15 * time.Minute,
		LoginRateMax:    5,
		AdminRateWindow: time.Minute,
		AdminRateMax:    30,
		APIRateWindow:   time.Minute,
		APIRateMax:      100,
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_JWTSecretRequired(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = ""
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET is required")
}

func TestValidate_JWTSecretMinLength(t *testing.T) {
	cfg := validConfig()
	cfg.JWTSecret = strings.Repeat("s", 31)
	assert.ErrorContains(t, cfg.Validate(), "at least 32 characters")
}

func TestValidate_DatabaseURLRequired(t *testing.T) {
	cfg := validConfig()
	cfg.DatabaseURL = ""
	assert.ErrorContains(t, cfg.Validate(), "DATABASE_URL is required")
}

func TestValidate_RateLimits(t *testing.T) {
	cfg := validConfig()
	cfg.LoginRateWindow = 0
	assert.ErrorContains(t, cfg.Validate(), "windows must be positive")

	cfg = validConfig()
	cfg.APIRateMax = 0
	assert.ErrorContains(t, cfg.Validate(), "maximums must be positive")
}

func TestLoad_DefaultCORSOriginIsExplicit(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/blog")
	t.Setenv("CORS_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)

	// Never a wildcard: the session cookie needs credentialed CORS.
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSOrigins)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("DATABASE_URL", "postgres://localhost:5432/blog")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOGIN_RATE_MAX", "7")
	t.Setenv("LOGIN_RATE_WINDOW", "10m")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("DB_CONN_LIFETIME", "45m")
	t.Setenv("DB_CONN_IDLE_TIME", "3m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 7, cfg.LoginRateMax)
	assert.Equal(t, 10*time.Minute, cfg.LoginRateWindow)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 24*time.Hour, cfg.CSRFTTL)
	assert.Equal(t, 45*time.Minute, cfg.DBConnLifetime)
	assert.Equal(t, 3*time.Minute, cfg.DBConnIdleTime)
	assert.Equal(t, time.Minute, cfg.DBHealthPeriod)
}
