// Package config provides configuration loading and validation for the CLI and HTTP server.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/jonathan/resume-reviewer/internal/types"
)

// EnvPrefix prefixes every environment override, e.g. REVIEWER_SERVER_PORT.
const EnvPrefix = "REVIEWER"

// Config is the full reviewer configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Fetch     FetchConfig     `mapstructure:"fetch"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxBodyBytes    int64         `mapstructure:"max_body_bytes"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
}

// AnalysisConfig configures the scoring engine.
type AnalysisConfig struct {
	Weights         types.Weights `mapstructure:"weights"`
	Redact          bool          `mapstructure:"redact"`
	BlendSimilarity bool          `mapstructure:"blend_similarity"`
	DisplayLimit    int           `mapstructure:"display_limit"`
}

// FetchConfig configures job posting retrieval.
type FetchConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	UserAgent  string        `mapstructure:"user_agent"`
	UseBrowser bool          `mapstructure:"use_browser"`
}

// AuthConfig configures optional API authentication. Both mechanisms are off when empty.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt_secret"`
	JWTExpirationHours int    `mapstructure:"jwt_expiration_hours"`
	APIKeyHash         string `mapstructure:"api_key_hash"`
	BcryptCost         int    `mapstructure:"bcrypt_cost"`
}

// RateLimitConfig configures per-client request limits.
type RateLimitConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	DefaultLimit    int           `mapstructure:"default_limit"`
	DefaultWindow   time.Duration `mapstructure:"default_window"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
	Whitelist       []string      `mapstructure:"whitelist"`
	Blacklist       []string      `mapstructure:"blacklist"`
}

// LogConfig selects the zap encoder and level.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// Defaults applied before any file or environment value.
var defaults = map[string]any{
	"server.port":             8080,
	"server.read_timeout":     15 * time.Second,
	"server.write_timeout":    60 * time.Second,
	"server.shutdown_timeout": 10 * time.Second,
	"server.max_body_bytes":   int64(10 << 20),
	"server.allowed_origins":  []string{"*"},

	"analysis.weights.ats":           types.DefaultATSWeight,
	"analysis.weights.keyword_match": types.DefaultKeywordMatchWeight,
	"analysis.weights.impact":        types.DefaultImpactWeight,
	"analysis.weights.clarity":       types.DefaultClarityWeight,
	"analysis.redact":                false,
	"analysis.blend_similarity":      false,
	"analysis.display_limit":         types.DefaultDisplayLimit,

	"fetch.timeout":     20 * time.Second,
	"fetch.user_agent":  "",
	"fetch.use_browser": false,

	"auth.jwt_secret":           "",
	"auth.jwt_expiration_hours": 24,
	"auth.api_key_hash":         "",
	"auth.bcrypt_cost":          12,

	"rate_limit.enabled":          true,
	"rate_limit.default_limit":    600,
	"rate_limit.default_window":   time.Minute,
	"rate_limit.cleanup_interval": 5 * time.Minute,
	"rate_limit.whitelist":        []string{},
	"rate_limit.blacklist":        []string{},

	"log.json":  false,
	"log.debug": false,
}

// New returns a viper instance with defaults and REVIEWER_ environment overrides wired.
// Callers may bind command flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path into v and returns the validated Config.
func Load(v *viper.Viper, path string) (*Config, error) {
	if v == nil {
		v = New()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration with no file and no environment overrides applied.
func Default() *Config {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	var cfg Config
	// defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	var errs []error

	w := c.Analysis.Weights
	if w.ATS < 0 || w.KeywordMatch < 0 || w.Impact < 0 || w.Clarity < 0 {
		errs = append(errs, fmt.Errorf("config error: 'analysis.weights' must be non-negative"))
	}
	if c.Analysis.DisplayLimit < 1 || c.Analysis.DisplayLimit > types.MaxKeywords {
		errs = append(errs, fmt.Errorf("config error: 'analysis.display_limit' must be between 1 and %d", types.MaxKeywords))
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("config error: 'server.port' out of range: %d", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("config error: 'server.max_body_bytes' must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.DefaultWindow <= 0 || c.RateLimit.DefaultLimit <= 0) {
		errs = append(errs, fmt.Errorf("config error: 'rate_limit.default_limit' and 'rate_limit.default_window' must be positive when enabled"))
	}
	if c.Auth.BcryptCost < MinBcryptCost || c.Auth.BcryptCost > MaxBcryptCost {
		errs = append(errs, fmt.Errorf("config error: 'auth.bcrypt_cost' out of range: %d (must be %d-%d)", c.Auth.BcryptCost, MinBcryptCost, MaxBcryptCost))
	}
	if c.Auth.JWTSecret != "" && c.Auth.JWTExpirationHours < 1 {
		errs = append(errs, fmt.Errorf("config error: 'auth.jwt_expiration_hours' must be at least 1"))
	}

	return errors.Join(errs...)
}
