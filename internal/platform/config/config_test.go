package config

import (
	"testing"
	"time"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("MARKETPLACE_API_URL", "https://api.example.com")
	t.Setenv("POS_SESSION_HASH_KEY", "0123456789abcdef0123456789abcdef")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.Session.CookieName != "pos_session" {
		t.Fatalf("expected default cookie name, got %q", cfg.Session.CookieName)
	}
	if cfg.Session.IdleTimeout != 30*time.Minute {
		t.Fatalf("expected default idle timeout, got %s", cfg.Session.IdleTimeout)
	}
	if cfg.Marketplace.Timeout != 15*time.Second {
		t.Fatalf("expected default client timeout, got %s", cfg.Marketplace.Timeout)
	}
}

func TestLoadRequiresMarketplaceURL(t *testing.T) {
	t.Setenv("MARKETPLACE_API_URL", "")
	t.Setenv("POS_SESSION_HASH_KEY", "key")

	_, err := Load()
	if !IsMissingValue(err) {
		t.Fatalf("expected missing value error, got %v", err)
	}
}

func TestLoadRequiresSessionHashKey(t *testing.T) {
	t.Setenv("MARKETPLACE_API_URL", "https://api.example.com")
	t.Setenv("POS_SESSION_HASH_KEY", "")

	_, err := Load()
	if !IsMissingValue(err) {
		t.Fatalf("expected missing value error, got %v", err)
	}
}

func TestLoadRejectsNonNumericPort(t *testing.T) {
	t.Setenv("MARKETPLACE_API_URL", "https://api.example.com")
	t.Setenv("POS_SESSION_HASH_KEY", "key")
	t.Setenv("PORT", "eighty")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for non-numeric port")
	}
}

func TestLoadParsesDurations(t *testing.T) {
	t.Setenv("MARKETPLACE_API_URL", "https://api.example.com")
	t.Setenv("POS_SESSION_HASH_KEY", "key")
	t.Setenv("POS_SESSION_IDLE_TIMEOUT", "45m")
	t.Setenv("MARKETPLACE_API_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Session.IdleTimeout != 45*time.Minute {
		t.Fatalf("expected 45m idle timeout, got %s", cfg.Session.IdleTimeout)
	}
	if cfg.Marketplace.Timeout != 3*time.Second {
		t.Fatalf("expected 3s client timeout, got %s", cfg.Marketplace.Timeout)
	}
}
