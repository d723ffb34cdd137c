package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":8099" {
		t.Errorf("Listen = %q, want :8099", cfg.Listen)
	}
	if cfg.DefaultSyncIntervalMin != 15 {
		t.Errorf("DefaultSyncIntervalMin = %d, want 15", cfg.DefaultSyncIntervalMin)
	}
	if cfg.ReminderLeadMin != 60 {
		t.Errorf("ReminderLeadMin = %d, want 60", cfg.ReminderLeadMin)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":8099" {
		t.Errorf("Listen = %q, want :8099", cfg.Listen)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "listen: \":9000\"\nwebhook_url: \"https://hooks.example.com/cal\"\nreminder_lead_min: 30\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":9000" {
		t.Errorf("Listen = %q, want :9000", cfg.Listen)
	}
	if cfg.WebhookURL != "https://hooks.example.com/cal" {
		t.Errorf("WebhookURL = %q", cfg.WebhookURL)
	}
	if cfg.ReminderLeadMin != 30 {
		t.Errorf("ReminderLeadMin = %d, want 30", cfg.ReminderLeadMin)
	}
	// Unset keys keep their defaults.
	if cfg.DefaultSyncIntervalMin != 15 {
		t.Errorf("DefaultSyncIntervalMin = %d, want 15", cfg.DefaultSyncIntervalMin)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: \":9000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LISTEN", ":7777")
	t.Setenv("NOTIFY_BATCH_WINDOW_SEC", "5")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != ":7777" {
		t.Errorf("Listen = %q, want :7777", cfg.Listen)
	}
	if cfg.NotifyBatchWindowSec != 5 {
		t.Errorf("NotifyBatchWindowSec = %d, want 5", cfg.NotifyBatchWindowSec)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
