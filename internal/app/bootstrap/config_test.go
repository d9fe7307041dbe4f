package bootstrap

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://test")
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Errorf("HTTPPort = %d, want 8080", cfg.HTTPPort)
	}
	if cfg.MaxLoginAttempts != 5 {
		t.Errorf("MaxLoginAttempts = %d, want 5", cfg.MaxLoginAttempts)
	}
	if cfg.AttemptWindow != 15*time.Minute {
		t.Errorf("AttemptWindow = %s, want 15m", cfg.AttemptWindow)
	}
	if cfg.ResetTokenTTL != time.Hour {
		t.Errorf("ResetTokenTTL = %s, want 1h", cfg.ResetTokenTTL)
	}
}

func TestLoadConfigFileBeatsDefaults(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://localhost:6379")

	path := writeConfigFile(t, `
service:
  http_port: 9000
dependencies:
  postgres_url: "postgres://from-file"
auth:
  max_login_attempts: 3
  attempt_window_minutes: 5
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.HTTPPort != 9000 {
		t.Errorf("HTTPPort = %d, want 9000", cfg.HTTPPort)
	}
	if cfg.DatabaseURL != "postgres://from-file" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.MaxLoginAttempts != 3 || cfg.AttemptWindow != 5*time.Minute {
		t.Errorf("throttle = (%d, %s), want (3, 5m)", cfg.MaxLoginAttempts, cfg.AttemptWindow)
	}
}

func TestLoadConfigEnvBeatsFile(t *testing.T) {
	t.Setenv("DB_URL", "postgres://from-env")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("MAX_LOGIN_ATTEMPTS", "7")

	path := writeConfigFile(t, `
service:
  http_port: 9000
dependencies:
  postgres_url: "postgres://from-file"
auth:
  max_login_attempts: 3
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.DatabaseURL != "postgres://from-env" {
		t.Errorf("DatabaseURL = %q, want env value", cfg.DatabaseURL)
	}
	if cfg.HTTPPort != 9100 {
		t.Errorf("HTTPPort = %d, want 9100", cfg.HTTPPort)
	}
	if cfg.MaxLoginAttempts != 7 {
		t.Errorf("MaxLoginAttempts = %d, want 7", cfg.MaxLoginAttempts)
	}
}

func TestLoadConfigRequiresStores(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("POSTGRES_URL", "")
	t.Setenv("REDIS_URL", "")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error when database url is missing")
	}
}
