package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthConfig_JWT(t *testing.T) {
	tests := []struct {
		name    string
		auth    AuthConfig
		wantNil bool
		wantErr bool
	}{
		{"Disabled without secret", AuthConfig{JWTExpirationHours: 24}, true, false},
		{"Enabled", AuthConfig{JWTSecret: "secret", JWTExpirationHours: 48}, false, false},
		{"Invalid expiration", AuthConfig{JWTSecret: "secret", JWTExpirationHours: 0}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.auth.JWT()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			if tt.wantNil {
				assert.Nil(t, cfg)
				return
			}
			require.NotNil(t, cfg)
			assert.Equal(t, tt.auth.JWTSecret, cfg.Secret)
			assert.Equal(t, tt.auth.JWTExpirationHours, cfg.ExpirationHours)
		})
	}
}

func TestAuthConfig_APIKey(t *testing.T) {
	cfg, err := AuthConfig{BcryptCost: 12}.APIKey()
	require.NoError(t, err)
	assert.Nil(t, cfg, "no hash means API key auth is off")

	_, err = AuthConfig{BcryptCost: 4, APIKeyHash: "x"}.APIKey()
	assert.Error(t, err)
}

func TestAPIKeyConfig_HashAndVerify(t *testing.T) {
	hasher := &APIKeyConfig{BcryptCost: MinBcryptCost}
	hash, err := hasher.HashAPIKey("rk_live_123")
	require.NoError(t, err)
	assert.NotEqual(t, "rk_live_123", hash)

	cfg, err := AuthConfig{APIKeyHash: hash, BcryptCost: MinBcryptCost}.APIKey()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.True(t, cfg.VerifyAPIKey("rk_live_123"))
	assert.False(t, cfg.VerifyAPIKey("rk_live_124"))
	assert.False(t, cfg.VerifyAPIKey(""))
}

func TestAPIKeyConfig_HashEmpty(t *testing.T) {
	_, err := (&APIKeyConfig{BcryptCost: MinBcryptCost}).HashAPIKey("")
	assert.Error(t, err)
}
