package config

import "fmt"

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT returns the token settings, or nil when no secret is configured and JWT auth is off.
func (a AuthConfig) JWT() (*JWTConfig, error) {
	if a.JWTSecret == "" {
		return nil, nil
	}
	cfg := &JWTConfig{Secret: a.JWTSecret, ExpirationHours: a.JWTExpirationHours}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("jwt secret cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("jwt expiration must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
