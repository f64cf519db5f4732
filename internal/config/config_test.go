package config_test

import (
	"testing"
	"time"

	"github.com/geocoder89/accounthub/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("JWT_SECRET", "")

	cfg, err := config.Load()

	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Port)
	}

	if cfg.TokenTTL() != 365*24*time.Hour {
		t.Fatalf("token ttl = %v, want one year", cfg.TokenTTL())
	}

	if cfg.BcryptCost != 10 {
		t.Fatalf("bcrypt cost = %d, want 10", cfg.BcryptCost)
	}

	// dev gets a fallback secret so the service still boots
	if cfg.JWTSecret == "" {
		t.Fatalf("expected a dev fallback secret")
	}
}

func TestLoad_RequiresSecretOutsideDev(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()

	if err == nil {
		t.Fatalf("expected an error for a missing secret in prod")
	}

	t.Setenv("JWT_SECRET", "real-secret")

	cfg, err := config.Load()

	if err != nil {
		t.Fatalf("load with secret: %v", err)
	}

	if cfg.JWTSecret != "real-secret" {
		t.Fatalf("secret not picked up")
	}
}

func TestLoad_CORSOrigins(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")

	cfg, err := config.Load()

	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.example.com" {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("PORT", "not-a-number")

	cfg, err := config.Load()

	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != 8080 {
		t.Fatalf("port = %d, want fallback 8080", cfg.Port)
	}
}
