// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Content repository target
	Owner  string
	Repo   string
	Branch string

	// GitHub authentication. Either Token is set, or the three App
	// fields are.
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKey     []byte

	// Valkey (Redis-compatible cache and session store)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Admin accounts parsed from ADMIN_USERS
	Admins []AdminUser
}

// AdminUser is one entry from ADMIN_USERS, formatted as
// "username:bcrypt-hash" or "username:bcrypt-hash:totp-secret".
type AdminUser struct {
	Username     string
	PasswordHash string
	TOTPSecret   string
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Missing repository credentials are
// always an error: without them every page of the site is dead.
func Load() (*Config, error) {
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		Owner:  os.Getenv("GITHUB_OWNER"),
		Repo:   os.Getenv("GITHUB_REPO"),
		Branch: envOrDefault("GITHUB_BRANCH", "main"),
		Token:  os.Getenv("GITHUB_TOKEN"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
	}

	if cfg.Owner == "" || cfg.Repo == "" {
		return nil, fmt.Errorf("GITHUB_OWNER and GITHUB_REPO must be set")
	}

	if err := loadGitHubAuth(cfg); err != nil {
		return nil, err
	}

	admins, err := parseAdminUsers(os.Getenv("ADMIN_USERS"))
	if err != nil {
		return nil, err
	}
	cfg.Admins = admins

	return cfg, nil
}

// loadGitHubAuth fills in either the token or the GitHub App triple and
// rejects ambiguous or incomplete combinations.
func loadGitHubAuth(cfg *Config) error {
	appID := os.Getenv("GITHUB_APP_ID")
	instID := os.Getenv("GITHUB_INSTALLATION_ID")
	keyPEM := os.Getenv("GITHUB_PRIVATE_KEY")
	keyFile := os.Getenv("GITHUB_PRIVATE_KEY_FILE")

	hasApp := appID != "" || instID != "" || keyPEM != "" || keyFile != ""
	if cfg.Token != "" && hasApp {
		return fmt.Errorf("set either GITHUB_TOKEN or the GITHUB_APP_* variables, not both")
	}
	if cfg.Token != "" {
		return nil
	}
	if !hasApp {
		return fmt.Errorf("GITHUB_TOKEN or GITHUB_APP_ID/GITHUB_INSTALLATION_ID/GITHUB_PRIVATE_KEY must be set")
	}

	var err error
	if cfg.AppID, err = strconv.ParseInt(appID, 10, 64); err != nil {
		return fmt.Errorf("GITHUB_APP_ID must be an integer: %w", err)
	}
	if cfg.InstallationID, err = strconv.ParseInt(instID, 10, 64); err != nil {
		return fmt.Errorf("GITHUB_INSTALLATION_ID must be an integer: %w", err)
	}

	switch {
	case keyPEM != "":
		cfg.PrivateKey = []byte(keyPEM)
	case keyFile != "":
		data, err := os.ReadFile(keyFile)
		if err != nil {
			return fmt.Errorf("reading GITHUB_PRIVATE_KEY_FILE: %w", err)
		}
		cfg.PrivateKey = data
	default:
		return fmt.Errorf("GITHUB_PRIVATE_KEY or GITHUB_PRIVATE_KEY_FILE must be set for app auth")
	}
	return nil
}

// parseAdminUsers decodes the comma-separated ADMIN_USERS value. Each
// entry is "username:bcrypt-hash" with an optional ":totp-secret" tail.
// Bcrypt hashes contain no colons, so splitting is unambiguous.
func parseAdminUsers(raw string) ([]AdminUser, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var admins []AdminUser
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.Split(entry, ":")
		if len(parts) < 2 || len(parts) > 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("ADMIN_USERS entry %q: want username:hash or username:hash:totp-secret", entry)
		}
		admin := AdminUser{Username: parts[0], PasswordHash: parts[1]}
		if len(parts) == 3 {
			admin.TOTPSecret = parts[2]
		}
		admins = append(admins, admin)
	}
	return admins, nil
}

// ValkeyAddr returns the cache server address (host:port).
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.ValkeyHost, c.ValkeyPort)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// Admin looks up an admin account by username.
func (c *Config) Admin(username string) (AdminUser, bool) {
	for _, a := range c.Admins {
		if a.Username == username {
			return a, true
		}
	}
	return AdminUser{}, false
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
