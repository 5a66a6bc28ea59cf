package auth

import (
	"fmt"
	"time"

	"github.com/kbukum/whisper-mcp/auth/jwt"
)

const minSecretLength = 16

// Config is the server.auth section.
type Config struct {
	JWTSecret string        `yaml:"jwt_secret" mapstructure:"jwt_secret"`
	Issuer    string        `yaml:"issuer" mapstructure:"issuer"`
	Audience  string        `yaml:"audience" mapstructure:"audience"`
	TokenTTL  time.Duration `yaml:"token_ttl" mapstructure:"token_ttl"`
}

// Enabled reports whether bearer tokens are required.
func (c *Config) Enabled() bool { return c.JWTSecret != "" }

// ApplyDefaults sets defaults for unset fields.
func (c *Config) ApplyDefaults() {
	if c.TokenTTL == 0 {
		c.TokenTTL = 24 * time.Hour
	}
}

// Validate checks the section; a disabled section is always valid.
func (c *Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if len(c.JWTSecret) < minSecretLength {
		return fmt.Errorf("auth.jwt_secret must be at least %d characters", minSecretLength)
	}
	if c.TokenTTL < 0 {
		return fmt.Errorf("auth.token_ttl must be non-negative (got: %s)", c.TokenTTL)
	}
	return nil
}

// JWT converts the section into the token service configuration.
func (c *Config) JWT() *jwt.Config {
	cfg := &jwt.Config{
		Secret:   c.JWTSecret,
		Issuer:   c.Issuer,
		TokenTTL: c.TokenTTL,
	}
	if c.Audience != "" {
		cfg.Audience = []string{c.Audience}
	}
	return cfg
}
