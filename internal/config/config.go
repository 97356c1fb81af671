// Package config provides configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"transfer-cost/internal/errors"
	"transfer-cost/internal/logging"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "TRANSFER_COST_"

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server configuration
	Server ServerConfig `json:"server"`

	// Output contains output configuration
	Output OutputConfig `json:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Addr is the listen address
	Addr string `json:"addr" validate:"required"`

	// ReadTimeoutSeconds bounds reading a request
	ReadTimeoutSeconds int `json:"read_timeout_seconds" validate:"gte=0"`

	// WriteTimeoutSeconds bounds writing a response
	WriteTimeoutSeconds int `json:"write_timeout_seconds" validate:"gte=0"`

	// CORSAllowedOrigins lists origins allowed to call the API
	CORSAllowedOrigins []string `json:"cors_allowed_origins" validate:"min=1"`

	// CORSAllowCredentials sets Access-Control-Allow-Credentials
	CORSAllowCredentials bool `json:"cors_allow_credentials"`

	// MetricsEnabled exposes GET /metrics
	MetricsEnabled bool `json:"metrics_enabled"`

	// MetricsNamespace prefixes every metric name
	MetricsNamespace string `json:"metrics_namespace" validate:"required"`
}

// ReadTimeout returns the read timeout as a duration
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a duration
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// Currency is the symbol printed before amounts
	Currency string `json:"currency" validate:"required"`

	// DefaultFormat is the default CLI output format
	DefaultFormat string `json:"default_format" validate:"oneof=cli json markdown"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Addr:                ":8080",
			ReadTimeoutSeconds:  10,
			WriteTimeoutSeconds: 10,
			CORSAllowedOrigins:  []string{"*"},
			MetricsEnabled:      true,
			MetricsNamespace:    "transfer_cost",
		},
		Output: OutputConfig{
			Currency:      "N$",
			DefaultFormat: "cli",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a file, then applies environment overrides.
// A missing file yields the defaults. Files ending in .hcl are read as HCL,
// anything else as JSON.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		if err := loadFile(path, config); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Config("read config "+path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return decodeHCL(data, path, config)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return errors.Config("parse config "+path, err)
	}
	return nil
}

func applyEnv(config *Config) error {
	k := koanf.New(".")
	provider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(s, EnvPrefix)
	})
	if err := k.Load(provider, nil); err != nil {
		return errors.Config("load env", err)
	}

	if v := strings.TrimSpace(k.String("ADDR")); v != "" {
		config.Server.Addr = v
	}
	if v := strings.TrimSpace(k.String("LOG_LEVEL")); v != "" {
		config.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(k.String("LOG_FORMAT")); v != "" {
		config.Logging.Format = strings.ToLower(v)
	}
	if v := splitAndTrim(k.String("CORS_ORIGINS")); len(v) > 0 {
		config.Server.CORSAllowedOrigins = v
	}
	if v := strings.TrimSpace(k.String("METRICS_ENABLED")); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Config(EnvPrefix+"METRICS_ENABLED must be a boolean", err)
		}
		config.Server.MetricsEnabled = enabled
	}
	if v := strings.TrimSpace(k.String("CURRENCY")); v != "" {
		config.Output.Currency = v
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Config("invalid configuration", err)
	}
	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

func splitAndTrim(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}

// String renders the configuration as indented JSON
func (c *Config) String() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("<config: %v>", err)
	}
	return string(data)
}
