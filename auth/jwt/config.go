package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// SigningMethod names a supported HMAC algorithm.
type SigningMethod string

const (
	HS256 SigningMethod = "HS256"
	HS384 SigningMethod = "HS384"
	HS512 SigningMethod = "HS512"
)

// Config configures the token service.
type Config struct {
	// Secret is the shared HMAC key.
	Secret string

	// Method is the signing algorithm (default: HS256).
	Method SigningMethod

	// Issuer is checked on parse and stamped on generate when set.
	Issuer string

	// Audience is checked on parse and stamped on generate when set.
	Audience []string

	// TokenTTL is the lifetime GenerateAccess stamps (default: 24h).
	TokenTTL time.Duration
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.TokenTTL == 0 {
		c.TokenTTL = 24 * time.Hour
	}
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return errors.New("secret is required")
	}
	if c.signingMethod() == nil {
		return fmt.Errorf("unsupported signing method: %s", c.Method)
	}
	return nil
}

func (c *Config) signingMethod() gojwt.SigningMethod {
	switch c.Method {
	case HS256:
		return gojwt.SigningMethodHS256
	case HS384:
		return gojwt.SigningMethodHS384
	case HS512:
		return gojwt.SigningMethodHS512
	default:
		return nil
	}
}

func (c *Config) key() []byte { return []byte(c.Secret) }
