package app

import (
	"errors"
	"fmt"
	"time"
)

// Config format values.
const (
	FormatAuto = ""
	FormatHCL  = "hcl"
	FormatYAML = "yaml"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPaths []string // .hcl/.yaml files or directories
	Format      string   // forces a loader; empty picks one by extension

	// Overrides for the settings found in the configuration files. Empty
	// values keep the configured setting.
	OutputDir string
	IconsDir  string
	NoPNG     bool
	NoLibrary bool

	Force       bool
	Workers     int
	UnitTimeout time.Duration
	Debounce    time.Duration

	LogFormat  string
	LogLevel   string
	StatusPort int
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.ConfigPaths) == 0 {
		return nil, errors.New("at least one configuration path is required")
	}
	switch cfg.Format {
	case FormatAuto, FormatHCL, FormatYAML:
	default:
		return nil, fmt.Errorf("unknown config format %q: must be %q or %q", cfg.Format, FormatHCL, FormatYAML)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	if cfg.UnitTimeout < 0 {
		return nil, fmt.Errorf("unit timeout must not be negative, got %s", cfg.UnitTimeout)
	}
	if cfg.StatusPort < 0 || cfg.StatusPort > 65535 {
		return nil, fmt.Errorf("status port out of range: %d", cfg.StatusPort)
	}
	return &cfg, nil
}
