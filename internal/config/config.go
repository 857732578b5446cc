package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config keeps runtime settings for the service.
type Config struct {
	ListenAddr  string
	DatabaseURL string

	// ReconcileInterval and ReconcileAt control the category count
	// reconciliation job. The interval takes precedence; At ("HH:MM")
	// schedules a daily run instead. Both empty disables the job.
	ReconcileInterval time.Duration
	ReconcileAt       string
}

// fileConfig is the on-disk YAML shape. Durations arrive as strings.
type fileConfig struct {
	ListenAddr  string `yaml:"listen_addr"`
	DatabaseURL string `yaml:"database_url"`
	Reconcile   struct {
		Interval string `yaml:"interval"`
		At       string `yaml:"at"`
	} `yaml:"reconcile"`
}

// Load reads an optional YAML config file and applies environment overrides
// with sane defaults. ${VAR} placeholders in the file are substituted from
// the environment.
func Load(path string) (Config, error) {
	var cfg Config
	var raw fileConfig

	if path == "" {
		path = "config.yaml"
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		content := os.Expand(string(data), os.Getenv)
		if err := yaml.Unmarshal([]byte(content), &raw); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Config file is optional; env and defaults cover everything.
	default:
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg.ListenAddr = raw.ListenAddr
	cfg.DatabaseURL = raw.DatabaseURL
	cfg.ReconcileAt = raw.Reconcile.At
	if raw.Reconcile.Interval != "" {
		cfg.ReconcileInterval, err = parseInterval(raw.Reconcile.Interval)
		if err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if v := strings.TrimSpace(os.Getenv("LISTEN_ADDR")); v != "" {
		cfg.ListenAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		cfg.DatabaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("RECONCILE_INTERVAL")); v != "" {
		cfg.ReconcileInterval, err = parseInterval(v)
		if err != nil {
			return cfg, err
		}
	}
	if v := strings.TrimSpace(os.Getenv("RECONCILE_AT")); v != "" {
		cfg.ReconcileAt = v
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "taskhub.db"
	}

	return cfg, nil
}

func parseInterval(raw string) (time.Duration, error) {
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid reconcile interval %q", raw)
	}
	return d, nil
}
