package config

import (
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, e.g. XOLMIS_TARGET_PREFIX.
// Variables are also read without the prefix when the prefixed form is
// unset, which is how SHELL is picked up.
const Prefix = "xolmis"

// OSC8 modes.
const (
	OSC8Auto = "auto"
	OSC8On   = "on"
	OSC8Off  = "off"
)

// Config holds all application configuration.
type Config struct {
	Shell         string `envconfig:"SHELL" default:"/bin/sh"`
	TargetPrefix  string `envconfig:"TARGET_PREFIX" default:"cursor://file/"`
	RulesFile     string `envconfig:"RULES_FILE"`
	OSC8          string `envconfig:"OSC8" default:"on"`
	AmbiguousWide bool   `envconfig:"AMBIGUOUS_WIDE" default:"false"`
	ReadBuffer    int    `envconfig:"READ_BUFFER" default:"2048"`
	LogLevel      string `envconfig:"LOG_LEVEL" default:"info"`
	LogFile       string `envconfig:"LOG_FILE"`
	LogDev        bool   `envconfig:"LOG_DEV" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Shell:        "/bin/sh",
		TargetPrefix: "cursor://file/",
		OSC8:         OSC8On,
		ReadBuffer:   2048,
		LogLevel:     "info",
	}
}

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	if c.ReadBuffer <= 0 {
		return fmt.Errorf("invalid config: READ_BUFFER must be > 0, got %d", c.ReadBuffer)
	}
	if _, err := ParseOSC8Mode(c.OSC8); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ParseOSC8Mode normalizes the accepted spellings of an OSC 8 mode.
func ParseOSC8Mode(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", OSC8Auto:
		return OSC8Auto, nil
	case OSC8On, "1", "true", "yes":
		return OSC8On, nil
	case OSC8Off, "0", "false", "no":
		return OSC8Off, nil
	default:
		return "", fmt.Errorf("OSC8 must be auto, on or off, got %q", v)
	}
}
