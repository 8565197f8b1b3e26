// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	Env        string `env:"INTAKE_ENV" envDefault:"development"`
	ServerHost string `env:"INTAKE_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"INTAKE_SERVER_PORT" envDefault:"5000"`
	LogLevel   string `env:"INTAKE_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"INTAKE_LOG_FORMAT" envDefault:"text"`

	// Storage
	DBPath         string        `env:"INTAKE_DB_PATH" envDefault:"./data/intake.db"`
	StorageTimeout time.Duration `env:"INTAKE_STORAGE_TIMEOUT" envDefault:"5s"`

	// Admin session
	JWTSecret         string        `env:"INTAKE_JWT_SECRET,required"`
	AdminPassword     string        `env:"INTAKE_ADMIN_PASSWORD"`
	AdminPasswordHash string        `env:"INTAKE_ADMIN_PASSWORD_HASH"` // argon2id encoded hash
	SessionTTL        time.Duration `env:"INTAKE_SESSION_TTL" envDefault:"24h"`
	CookieSameSite    string        `env:"INTAKE_COOKIE_SAMESITE" envDefault:"strict"`

	// HTTP boundary
	AllowedOrigins []string      `env:"INTAKE_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	RequestTimeout time.Duration `env:"INTAKE_REQUEST_TIMEOUT" envDefault:"30s"`

	// Applicant list cache
	RedisURL    string        `env:"INTAKE_REDIS_URL"` // Optional Redis URL, memory cache otherwise
	CachePrefix string        `env:"INTAKE_CACHE_PREFIX" envDefault:"intake:"`
	CacheTTL    time.Duration `env:"INTAKE_CACHE_TTL" envDefault:"30s"` // 0 disables caching
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if the application is running in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheEnabled returns true if the applicant list cache is enabled.
func (c Config) CacheEnabled() bool {
	return c.CacheTTL > 0
}

// SameSite returns the cookie SameSite mode for the admin session cookie.
// Load has already validated the value, so unknown modes fall back to strict.
func (c Config) SameSite() http.SameSite {
	switch strings.ToLower(c.CookieSameSite) {
	case "lax":
		return http.SameSiteLaxMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteStrictMode
	}
}

// MinJWTSecretLength is the minimum required length for the token signing secret.
// HS256 keys shorter than the hash output weaken the signature.
const MinJWTSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.JWTSecret) {
		slog.Warn("INTAKE_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("INTAKE_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(c.JWTSecret))
	}
	for _, weak := range knownWeakSecrets {
		if c.JWTSecret == weak {
			return errors.New("INTAKE_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if c.AdminPassword == "" && c.AdminPasswordHash == "" {
		return errors.New("one of INTAKE_ADMIN_PASSWORD or INTAKE_ADMIN_PASSWORD_HASH must be set")
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("INTAKE_SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.StorageTimeout <= 0 {
		return fmt.Errorf("INTAKE_STORAGE_TIMEOUT must be positive, got %s", c.StorageTimeout)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("INTAKE_CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}

	switch strings.ToLower(c.CookieSameSite) {
	case "strict", "lax":
	case "none":
		// Browsers drop SameSite=None cookies that are not Secure.
		if !c.IsProduction() {
			slog.Warn("INTAKE_COOKIE_SAMESITE=none requires HTTPS; the admin cookie is only Secure in production")
		}
	default:
		return fmt.Errorf("INTAKE_COOKIE_SAMESITE must be one of strict, lax, none; got %q", c.CookieSameSite)
	}

	origins := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o == "" {
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("INTAKE_ALLOWED_ORIGINS contains invalid origin %q", o)
		}
		origins = append(origins, o)
	}
	c.AllowedOrigins = origins

	return nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
