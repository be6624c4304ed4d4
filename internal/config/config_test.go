package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFromFile_overridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: 9090
events:
  driver: nats
  channel: ledger_events
reporter:
  schedule: "@every 30s"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port got %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host got %q, want default %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Events.Driver != EventsDriverNATS {
		t.Errorf("Events.Driver got %q, want %q", cfg.Events.Driver, EventsDriverNATS)
	}
	if cfg.Events.Channel != "ledger_events" {
		t.Errorf("Events.Channel got %q, want %q", cfg.Events.Channel, "ledger_events")
	}
	if cfg.Reporter.Schedule != "@every 30s" {
		t.Errorf("Reporter.Schedule got %q, want %q", cfg.Reporter.Schedule, "@every 30s")
	}
	if cfg.MySQL.ConnMaxLifetime != 5*time.Minute {
		t.Errorf("MySQL.ConnMaxLifetime got %v, want %v", cfg.MySQL.ConnMaxLifetime, 5*time.Minute)
	}
}

func TestLoadFromFile_rejectsUnknownDriver(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("events:\n  driver: kafka\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := LoadFromFile(path)
	if err == nil || !strings.Contains(err.Error(), "kafka") {
		t.Fatalf("got error %v, want unknown driver error", err)
	}
}

func TestLoad_envOverridesDefault(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("EVENTS_DRIVER", "redis")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port got %d, want %d", cfg.Server.Port, 7070)
	}
	if cfg.Events.Driver != EventsDriverRedis {
		t.Errorf("Events.Driver got %q, want %q", cfg.Events.Driver, EventsDriverRedis)
	}
}
