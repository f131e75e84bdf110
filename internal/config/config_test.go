package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "volatility", cfg.AppName)
	assert.Equal(t, 10, cfg.Exchange.RateLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Empty(t, cfg.Analyzer.Thresholds)

	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFilesUseDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.json"), filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	assert.Equal(t, Default().Exchange.RateLimit, cfg.Exchange.RateLimit)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "volatility.json")
	payload := `{
		"exchange": {"rate_limit": 5},
		"analyzer": {"thresholds": ["0.02", "0.01"]},
		"logging": {"level": "debug", "format": "json", "output": "stdout"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Exchange.RateLimit)
	assert.Equal(t, []string{"0.02", "0.01"}, cfg.Analyzer.Thresholds)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoad_MalformedConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "volatility.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Load(path, "")
	assert.Error(t, err)
}

func TestLoad_CredentialsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.env")
	payload := "VOLATILITY_API_KEY=file-key\nVOLATILITY_API_SECRET=file-secret\n"
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o600))

	t.Setenv(envAPIKey, "")
	t.Setenv(envAPISecret, "")
	os.Unsetenv(envAPIKey)
	os.Unsetenv(envAPISecret)

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, "file-key", cfg.Exchange.APIKey)
	assert.Equal(t, "file-secret", cfg.Exchange.APISecret)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "volatility.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"exchange": {"rate_limit": 5}}`), 0o644))

	t.Setenv(envRateLimit, "20")
	t.Setenv(envLogLevel, "warn")

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Exchange.RateLimit)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{
			name:   "valid_defaults",
			mutate: func(c *Config) {},
		},
		{
			name:        "zero_rate_limit",
			mutate:      func(c *Config) { c.Exchange.RateLimit = 0 },
			expectError: true,
		},
		{
			name:        "bad_log_level",
			mutate:      func(c *Config) { c.Logging.Level = "verbose" },
			expectError: true,
		},
		{
			name:        "bad_log_format",
			mutate:      func(c *Config) { c.Logging.Format = "xml" },
			expectError: true,
		},
		{
			name:        "file_output_without_path",
			mutate:      func(c *Config) { c.Logging.Output = "file" },
			expectError: true,
		},
		{
			name: "file_output_with_path",
			mutate: func(c *Config) {
				c.Logging.Output = "file"
				c.Logging.FilePath = "/tmp/volatility.log"
			},
		},
		{
			name:        "empty_threshold_value",
			mutate:      func(c *Config) { c.Analyzer.Thresholds = []string{"0.02", " "} },
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestString_RedactsCredentials(t *testing.T) {
	cfg := Default()
	cfg.Exchange.APIKey = "super-secret-key"
	cfg.Exchange.APISecret = "super-secret-secret"

	out := cfg.String()
	assert.NotContains(t, out, "super-secret-key")
	assert.NotContains(t, out, "super-secret-secret")
	assert.Contains(t, out, "[REDACTED]")
}
