package config

import "testing"

func TestLoadFillsDefaults(t *testing.T) {
	cfg := Load()

	if cfg.StoreURL == "" {
		t.Error("expected a default store URL")
	}
	if cfg.StoreTimeout <= 0 {
		t.Error("expected a positive store timeout")
	}
	if cfg.SMTPHost == "" || cfg.SMTPPort == "" {
		t.Error("expected default SMTP host and port")
	}
	if cfg.SMTPFrom == "" {
		t.Error("expected a default sender address")
	}
	if cfg.JWTSecret == "" {
		t.Error("expected a signing secret even without JWT_SECRET set")
	}
	if cfg.JWTExpirationHours <= 0 {
		t.Error("expected a positive token expiration")
	}
	if cfg.Port == "" {
		t.Error("expected a default port")
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	if Load() != Load() {
		t.Error("expected Load to return the same instance")
	}
	if Get() != Load() {
		t.Error("expected Get to return the loaded instance")
	}
}
