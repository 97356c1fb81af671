package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transfer-cost/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 10*time.Second, cfg.Server.ReadTimeout())
	assert.True(t, cfg.Server.MetricsEnabled)
	assert.Equal(t, "N$", cfg.Output.Currency)
	assert.Equal(t, "cli", cfg.Output.DefaultFormat)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Addr, cfg.Server.Addr)
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"server": {"addr": ":9000", "cors_allowed_origins": ["https://example.com"], "metrics_namespace": "quotes"},
		"output": {"currency": "NAD", "default_format": "json"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "quotes", cfg.Server.MetricsNamespace)
	assert.Equal(t, "NAD", cfg.Output.Currency)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	// untouched keys keep their defaults
	assert.Equal(t, 10, cfg.Server.WriteTimeoutSeconds)
}

func TestLoadHCL(t *testing.T) {
	path := writeFile(t, "config.hcl", `
version = "2"

server {
  addr                 = "127.0.0.1:7000"
  read_timeout_seconds = 3
  metrics_enabled      = false
}

logging {
  level  = "debug"
  format = "json"
}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "2", cfg.Version)
	assert.Equal(t, "127.0.0.1:7000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ReadTimeout())
	assert.False(t, cfg.Server.MetricsEnabled)
	assert.Equal(t, "transfer_cost", cfg.Server.MetricsNamespace)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "N$", cfg.Output.Currency)
}

func TestLoadHCLSyntaxError(t *testing.T) {
	path := writeFile(t, "broken.hcl", `server {`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestLoadHCLUnknownAttribute(t *testing.T) {
	path := writeFile(t, "unknown.hcl", `colour = "blue"`)

	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvPrefix+"ADDR", ":9191")
	t.Setenv(EnvPrefix+"LOG_LEVEL", "WARN")
	t.Setenv(EnvPrefix+"CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv(EnvPrefix+"METRICS_ENABLED", "false")
	t.Setenv(EnvPrefix+"CURRENCY", "R")

	path := writeFile(t, "config.json", `{"server": {"addr": ":9000"}}`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9191", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.False(t, cfg.Server.MetricsEnabled)
	assert.Equal(t, "R", cfg.Output.Currency)
}

func TestEnvRejectsBadBoolean(t *testing.T) {
	t.Setenv(EnvPrefix+"METRICS_ENABLED", "sometimes")

	_, err := Load("")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.TypeConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty addr", func(c *Config) { c.Server.Addr = "" }},
		{"no origins", func(c *Config) { c.Server.CORSAllowedOrigins = nil }},
		{"negative timeout", func(c *Config) { c.Server.ReadTimeoutSeconds = -1 }},
		{"unknown format", func(c *Config) { c.Output.DefaultFormat = "yaml" }},
		{"empty currency", func(c *Config) { c.Output.Currency = "" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.TypeConfig))
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")
	cfg := Default()
	cfg.Server.Addr = ":1234"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":1234", loaded.Server.Addr)
	assert.Contains(t, loaded.String(), `"addr": ":1234"`)
}
