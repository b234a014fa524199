package config

import (
	"fmt"
	"strings"
)

// LoggingConfig defines the application log verbosity.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
}

// Validate checks the level name.
func (c LoggingConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("unknown level %s", c.Level)
}

// MetricsConfig defines where run metrics are written.
type MetricsConfig struct {
	// Textfile is the path of a Prometheus textfile written after each
	// successful run. Empty disables metrics output.
	Textfile string `json:"textfile"`
}
