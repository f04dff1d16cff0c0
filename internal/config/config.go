package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const minJWTSecretLength = 32

type Config struct {
	Env                string
	ServerPort         string
	ServerReadTimeout  time.Duration
	ServerWriteTimeout time.Duration
	ServerIdleTimeout  time.Duration
	RequestTimeout     time.Duration
	DatabaseURL        string
	DBMaxConns         int32
	DBMinConns         int32
	DBConnLifetime     time.Duration
	DBConnIdleTime     time.Duration
	DBHealthPeriod     time.Duration
	JWTSecret          string
	SessionTTL         time.Duration
	CSRFTTL            time.Duration
	CORSOrigins        []string
	LoginRateWindow    time.Duration
	LoginRateMax       int
	AdminRateWindow    time.Duration
	AdminRateMax       int
	APIRateWindow      time.Duration
	APIRateMax         int
	AdminUsername      string
	AdminEmail         string
	AdminPassword      string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		ServerReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		ServerWriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
		ServerIdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		RequestTimeout:     getDuration("REQUEST_TIMEOUT", 30*time.Second),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:         int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:         int32(getInt("DB_MIN_CONNS", 2)),
		DBConnLifetime:     getDuration("DB_CONN_LIFETIME", time.Hour),
		DBConnIdleTime:     getDuration("DB_CONN_IDLE_TIME", 10*time.Minute),
		DBHealthPeriod:     getDuration("DB_HEALTH_PERIOD", time.Minute),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		SessionTTL:         getDuration("SESSION_TTL", 7*24*time.Hour),
		CSRFTTL:            getDuration("CSRF_TTL", 24*time.Hour),
		// Wildcard origins are rejected by browsers for credentialed
		// requests, and the session rides in a cookie. Production must
		// set CORS_ORIGINS to the real frontend origin.
		CORSOrigins:        splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000")),
		LoginRateWindow:    getDuration("LOGIN_RATE_WINDOW", 15*time.Minute),
		LoginRateMax:       getInt("LOGIN_RATE_MAX", 5),
		AdminRateWindow:    getDuration("ADMIN_RATE_WINDOW", time.Minute),
		AdminRateMax:       getInt("ADMIN_RATE_MAX", 30),
		APIRateWindow:      getDuration("API_RATE_WINDOW", time.Minute),
		APIRateMax:         getInt("API_RATE_MAX", 100),
		AdminUsername:      getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:         getEnv("ADMIN_EMAIL", "admin@localhost"),
		AdminPassword:      strings.TrimSpace(os.Getenv("ADMIN_PASS")),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.JWTSecret) < minJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters long", minJWTSecretLength)
	}

	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	if c.CSRFTTL <= 0 {
		return fmt.Errorf("CSRF_TTL must be positive")
	}

	if c.LoginRateWindow <= 0 || c.AdminRateWindow <= 0 || c.APIRateWindow <= 0 {
		return fmt.Errorf("rate limit windows must be positive")
	}

	if c.LoginRateMax <= 0 || c.AdminRateMax <= 0 || c.APIRateMax <= 0 {
		return fmt.Errorf("rate limit maximums must be positive")
	}

	return nil
}

// IsProduction controls cookie hardening (the Secure attribute).
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func getEnv(key string, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}

	return v
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	v, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return v
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}

	return out
}
