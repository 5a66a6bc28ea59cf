package auth

import (
	"github.com/kbukum/whisper-mcp/auth/jwt"
)

// TokenValidator validates a bearer token and returns its parsed claims.
// Middleware depends on this interface rather than on the JWT service.
type TokenValidator interface {
	ValidateToken(token string) (any, error)
}

// TokenValidatorFunc adapts an ordinary function to TokenValidator.
type TokenValidatorFunc func(token string) (any, error)

// ValidateToken implements TokenValidator.
func (f TokenValidatorFunc) ValidateToken(token string) (any, error) {
	return f(token)
}

// NewValidator builds the validator for cfg. It returns nil when auth is
// disabled, which callers treat as "no auth middleware".
func NewValidator(cfg Config) (TokenValidator, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	svc, err := jwt.NewService(cfg.JWT(), jwt.NewClaims)
	if err != nil {
		return nil, err
	}
	return TokenValidatorFunc(svc.ValidatorFunc()), nil
}
