// Copyright (c) 2025-2026 Hanbit Church
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected in production.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	SessionSecret string `env:"CHURCH_SESSION_SECRET,required"`
	ServerHost    string `env:"CHURCH_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"CHURCH_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"CHURCH_ENV" envDefault:"development"`
	LogLevel      string `env:"CHURCH_LOG_LEVEL" envDefault:"info"`

	// Hosted backend configuration. Both values are required to reach
	// the backend; if either is missing the site runs in degraded mode
	// (empty boards, disabled admin forms) instead of failing to start.
	BackendURL     string `env:"CHURCH_BACKEND_URL"`
	BackendAnonKey string `env:"CHURCH_BACKEND_ANON_KEY"`

	// SiteName is shown in the layout header and page titles.
	SiteName string `env:"CHURCH_SITE_NAME" envDefault:"한빛교회"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// BackendConfigured reports whether both backend values are present.
// It is resolved once at startup; every repository and auth method
// consults this single flag instead of re-deriving the condition at
// each call site.
func (c Config) BackendConfigured() bool {
	return c.BackendURL != "" && c.BackendAnonKey != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate session secret length
	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("CHURCH_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	// Reject known weak/default secrets
	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("CHURCH_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	// Warn about low-entropy secrets
	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("CHURCH_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	// A malformed backend URL is treated the same as an absent one:
	// the site stays up, the backend is just unreachable.
	if cfg.BackendURL != "" {
		u, err := url.Parse(cfg.BackendURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			slog.Warn("CHURCH_BACKEND_URL is not a valid URL; running without a backend", "url", cfg.BackendURL)
			cfg.BackendURL = ""
		} else {
			cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
		}
	}

	if !cfg.BackendConfigured() {
		slog.Warn("backend not configured; boards will be empty and admin features disabled")
	}

	return cfg, nil
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
