package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	if cfg.HTTPPort != 8080 {
		t.Errorf("expected default HTTP port 8080, got %d", cfg.HTTPPort)
	}
	if cfg.PostgresPort != 5432 {
		t.Errorf("expected default Postgres port 5432, got %d", cfg.PostgresPort)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("expected default session TTL 1h, got %s", cfg.SessionTTL)
	}
	if cfg.MaxDeliveryAttempts != 5 {
		t.Errorf("expected default max delivery attempts 5, got %d", cfg.MaxDeliveryAttempts)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("SESSION_TTL_SECONDS", "120")
	t.Setenv("ORDER_MAX_DELIVERY_ATTEMPTS", "3")

	cfg := Load()

	if cfg.HTTPPort != 9090 {
		t.Errorf("expected HTTP port 9090, got %d", cfg.HTTPPort)
	}
	if cfg.PostgresHost != "db.internal" {
		t.Errorf("expected Postgres host db.internal, got %s", cfg.PostgresHost)
	}
	if cfg.SessionTTL != 2*time.Minute {
		t.Errorf("expected session TTL 2m, got %s", cfg.SessionTTL)
	}
	if cfg.MaxDeliveryAttempts != 3 {
		t.Errorf("expected max delivery attempts 3, got %d", cfg.MaxDeliveryAttempts)
	}
}

func TestLoad_InvalidNumberFallsBack(t *testing.T) {
	t.Setenv("HTTP_PORT", "not-a-number")

	cfg := Load()

	if cfg.HTTPPort != 8080 {
		t.Errorf("expected fallback to 8080, got %d", cfg.HTTPPort)
	}
}
