package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/XavierBriggs/fortuna/services/cricket-stats-service/internal/config"
)

var envKeys = []string{
	"CONFIG_FILE", "SERVER_ADDR", "PORT", "ADMIN_API_KEY", "CORS_ORIGINS", "REDIS_URL", "REDIS_ENABLED",
	"DATABASE_URL", "SOURCE_BASE_URL", "DEFAULT_TOURNAMENT_ID", "SOURCE_USER_AGENT", "SOURCE_MODE",
	"CHROME_PATH", "SOURCE_TIMEOUT", "SOURCE_MAX_ATTEMPTS", "POLLER_ENABLED", "POLL_INTERVAL",
	"POLLER_AUTO_SNAPSHOT", "DEBUG_CAPTURE", "DEBUG_DIR", "DEBUG_S3_BUCKET", "AWS_REGION",
	"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every variable the loader reads; blank counts as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":5000" {
		t.Errorf("Expected default server addr ':5000', got '%s'", cfg.Server.Addr)
	}
	if cfg.Server.AdminAPIKey != "demo_admin_key" {
		t.Errorf("Expected default admin key, got '%s'", cfg.Server.AdminAPIKey)
	}
	if cfg.Source.DefaultTournamentID != "8307" {
		t.Errorf("Expected default tournament '8307', got '%s'", cfg.Source.DefaultTournamentID)
	}
	if cfg.Source.Mode != "http" {
		t.Errorf("Expected http mode, got '%s'", cfg.Source.Mode)
	}
	if cfg.Poller.Interval != 30*time.Second {
		t.Errorf("Expected 30s poll interval, got %s", cfg.Poller.Interval)
	}
	if cfg.Postgres.DSN != "" {
		t.Errorf("Expected snapshots disabled by default, got DSN '%s'", cfg.Postgres.DSN)
	}
	if cfg.Telegram.BotToken != "" {
		t.Errorf("Expected alerts disabled by default")
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("ADMIN_API_KEY", "s3cret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("POLL_INTERVAL", "10s")
	t.Setenv("SOURCE_MODE", "browser")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Expected server addr ':9090', got '%s'", cfg.Server.Addr)
	}
	if cfg.Server.AdminAPIKey != "s3cret" {
		t.Errorf("Expected admin key override, got '%s'", cfg.Server.AdminAPIKey)
	}
	if len(cfg.Server.CORSOrigins) != 2 || cfg.Server.CORSOrigins[1] != "https://b.example" {
		t.Errorf("Expected 2 trimmed origins, got %v", cfg.Server.CORSOrigins)
	}
	if cfg.Poller.Interval != 10*time.Second {
		t.Errorf("Expected 10s interval, got %s", cfg.Poller.Interval)
	}
	if cfg.Source.Mode != "browser" {
		t.Errorf("Expected browser mode, got '%s'", cfg.Source.Mode)
	}
	if cfg.Telegram.ChatID != -100123 {
		t.Errorf("Expected chat id -100123, got %d", cfg.Telegram.ChatID)
	}
	if cfg.Redis.Enabled {
		t.Error("Expected redis disabled")
	}
}

func TestLoadConfig_PortFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8081" {
		t.Errorf("Expected ':8081', got '%s'", cfg.Server.Addr)
	}
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  addr: ":7000"
source:
  default_tournament_id: "9241"
  requests_per_second: 0.5
poller:
  interval: 45s
  auto_snapshot: true
postgres:
  dsn: postgres://cricket@localhost/cricket?sslmode=disable
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("SERVER_ADDR", ":7001")

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr != ":7001" {
		t.Errorf("Expected env to win over file, got '%s'", cfg.Server.Addr)
	}
	if cfg.Source.DefaultTournamentID != "9241" {
		t.Errorf("Expected tournament from file, got '%s'", cfg.Source.DefaultTournamentID)
	}
	if cfg.Source.RequestsPerSecond != 0.5 {
		t.Errorf("Expected 0.5 rps, got %v", cfg.Source.RequestsPerSecond)
	}
	if cfg.Poller.Interval != 45*time.Second || !cfg.Poller.AutoSnapshot {
		t.Errorf("Expected poller settings from file, got %+v", cfg.Poller)
	}
	if cfg.Source.MaxAttempts != 3 {
		t.Errorf("Expected defaults kept for fields absent from file, got %d", cfg.Source.MaxAttempts)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "POLL_INTERVAL", "soon"},
		{"bad bool", "POLLER_ENABLED", "maybe"},
		{"bad mode", "SOURCE_MODE", "carrier-pigeon"},
		{"zero attempts", "SOURCE_MAX_ATTEMPTS", "0"},
		{"missing file", "CONFIG_FILE", "/nonexistent/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)

			if _, err := config.LoadConfig(); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}
