package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	defaultSessionTTL   = 2 * time.Hour
	defaultSessionIdle  = 30 * time.Minute
	defaultClientTTL    = 15 * time.Second
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server      ServerConfig
	Marketplace MarketplaceConfig
	Session     SessionConfig
	Firebase    FirebaseConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// MarketplaceConfig locates the marketplace REST API this console consumes.
type MarketplaceConfig struct {
	BaseURL string
	Timeout time.Duration
}

// SessionConfig carries the signing material and lifetimes for POS sessions.
type SessionConfig struct {
	CookieName  string
	HashKey     string
	BlockKey    string
	Lifetime    time.Duration
	IdleTimeout time.Duration
}

// FirebaseConfig stores Firebase project settings for staff authentication.
type FirebaseConfig struct {
	ProjectID string
}

var errMissingValue = errors.New("config: missing required value")

// Load reads configuration from the environment and validates required values.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", defaultPort),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Marketplace: MarketplaceConfig{
			BaseURL: strings.TrimSpace(os.Getenv("MARKETPLACE_API_URL")),
			Timeout: getDuration("MARKETPLACE_API_TIMEOUT", defaultClientTTL),
		},
		Session: SessionConfig{
			CookieName:  getEnv("POS_SESSION_COOKIE", "pos_session"),
			HashKey:     strings.TrimSpace(os.Getenv("POS_SESSION_HASH_KEY")),
			BlockKey:    strings.TrimSpace(os.Getenv("POS_SESSION_BLOCK_KEY")),
			Lifetime:    getDuration("POS_SESSION_LIFETIME", defaultSessionTTL),
			IdleTimeout: getDuration("POS_SESSION_IDLE_TIMEOUT", defaultSessionIdle),
		},
		Firebase: FirebaseConfig{
			ProjectID: strings.TrimSpace(os.Getenv("FIREBASE_PROJECT_ID")),
		},
	}

	if cfg.Marketplace.BaseURL == "" {
		return Config{}, fmt.Errorf("%w: MARKETPLACE_API_URL", errMissingValue)
	}
	if cfg.Session.HashKey == "" {
		return Config{}, fmt.Errorf("%w: POS_SESSION_HASH_KEY", errMissingValue)
	}
	if _, err := strconv.Atoi(cfg.Server.Port); err != nil {
		return Config{}, fmt.Errorf("config: PORT must be numeric: %q", cfg.Server.Port)
	}

	return cfg, nil
}

// IsMissingValue reports whether err stems from an absent required setting.
func IsMissingValue(err error) bool {
	return errors.Is(err, errMissingValue)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
