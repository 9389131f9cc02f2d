// Package config holds runtime settings for the batch processor.
// Defaults come from environment variables; an optional YAML file overlays
// them, and command-line flags overlay both.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// MetricsAddr is the optional Prometheus listener address. Empty means
	// no listener; a one-shot run usually wants none.
	MetricsAddr string `yaml:"metrics_addr"`

	// SortOutput orders report rows by ascending client id.
	SortOutput bool `yaml:"sort_output"`
}

func Default() Config {
	return Config{
		LogLevel:    envOrDefault("TXPROC_LOG_LEVEL", "info"),
		MetricsAddr: envOrDefault("TXPROC_METRICS_ADDR", ""),
		SortOutput:  envBoolOrDefault("TXPROC_SORT_OUTPUT", true),
	}
}

// Load returns the defaults overlaid with the YAML file at path. An empty
// path means defaults only.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envBoolOrDefault(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}
