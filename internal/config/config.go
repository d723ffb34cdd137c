// Package config loads the service configuration from an optional YAML
// file with environment variable overrides.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v3"
)

// Config is the top-level service configuration. Values resolve in
// order: defaults, then the YAML file, then environment variables.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" env:"LISTEN"`

	// DataDir holds the SQLite database.
	DataDir string `yaml:"data_dir" env:"DATA_DIR"`

	// StaticDir serves the frontend bundle.
	StaticDir string `yaml:"static_dir" env:"STATIC_DIR"`

	// WebhookURL receives outbound notification batches. Empty disables
	// webhook delivery; notifications are then recorded and logged only.
	WebhookURL string `yaml:"webhook_url" env:"WEBHOOK_URL"`

	// DefaultSyncIntervalMin applies to feed sources without their own
	// interval.
	DefaultSyncIntervalMin int `yaml:"default_sync_interval_min" env:"DEFAULT_SYNC_INTERVAL_MIN"`

	// ReminderLeadMin is how long before a scheduled visit its reminder
	// fires.
	ReminderLeadMin int `yaml:"reminder_lead_min" env:"REMINDER_LEAD_MIN"`

	// NotifyBatchWindowSec is the webhook batching window.
	NotifyBatchWindowSec int `yaml:"notify_batch_window_sec" env:"NOTIFY_BATCH_WINDOW_SEC"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Listen:                 ":8099",
		DataDir:                "/data",
		StaticDir:              "./static",
		DefaultSyncIntervalMin: 15,
		ReminderLeadMin:        60,
		NotifyBatchWindowSec:   30,
	}
}

// Load reads the configuration. A missing file is not an error; the
// defaults plus environment apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config file: %w", err)
			}
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	return cfg, nil
}
