package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Accepted bcrypt work factors.
const (
	MinBcryptCost = 10
	MaxBcryptCost = 14
)

// APIKeyConfig verifies X-API-Key values against a stored bcrypt hash.
type APIKeyConfig struct {
	Hash       string
	BcryptCost int
}

// APIKey returns the API key settings, or nil when no hash is configured.
func (a AuthConfig) APIKey() (*APIKeyConfig, error) {
	cfg := &APIKeyConfig{Hash: a.APIKeyHash, BcryptCost: a.BcryptCost}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if cfg.Hash == "" {
		return nil, nil
	}
	return cfg, nil
}

func (c *APIKeyConfig) normalize() error {
	if c.BcryptCost < MinBcryptCost || c.BcryptCost > MaxBcryptCost {
		return fmt.Errorf("bcrypt cost out of range: %d (must be %d-%d)", c.BcryptCost, MinBcryptCost, MaxBcryptCost)
	}
	return nil
}

// HashAPIKey hashes a key for storage in auth.api_key_hash.
func (c *APIKeyConfig) HashAPIKey(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("api key is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(key), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash api key: %w", err)
	}
	return string(hash), nil
}

// VerifyAPIKey reports whether key matches the stored hash.
func (c *APIKeyConfig) VerifyAPIKey(key string) bool {
	if c.Hash == "" || key == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(key)) == nil
}
