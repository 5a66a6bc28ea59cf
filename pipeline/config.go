package pipeline

import (
	"fmt"
	"time"
)

const (
	defaultMaxConcurrent = 4
	defaultMaxWait       = 15 * time.Minute
)

// Config bounds how many runs execute at once.
type Config struct {
	// MaxConcurrent is the number of runs allowed in flight. Defaults to 4.
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	// MaxWait is how long a run may queue for a slot. Defaults to 15m.
	MaxWait time.Duration `yaml:"max_wait" mapstructure:"max_wait"`
}

// ApplyDefaults fills zero values.
func (c *Config) ApplyDefaults() {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = defaultMaxConcurrent
	}
	if c.MaxWait <= 0 {
		c.MaxWait = defaultMaxWait
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("pipeline: max_concurrent must be positive")
	}
	return nil
}
