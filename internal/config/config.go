// Package config provides configuration for the volatility tool.
// Configuration is loaded from defaults, an optional JSON file, an optional
// credentials file, and environment variables, in increasing priority, then
// validated. The loaded configuration is passed explicitly into component
// constructors; nothing reads it from globals.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variable names. The credentials file uses the same keys.
const (
	envAPIKey    = "VOLATILITY_API_KEY"
	envAPISecret = "VOLATILITY_API_SECRET"
	envBaseURL   = "VOLATILITY_BASE_URL"
	envRateLimit = "VOLATILITY_RATE_LIMIT"
	envLogLevel  = "VOLATILITY_LOG_LEVEL"
	envLogFormat = "VOLATILITY_LOG_FORMAT"
	envLogOutput = "VOLATILITY_LOG_OUTPUT"
)

// Config represents the complete application configuration.
type Config struct {
	AppName string `json:"app_name,omitempty"`

	Exchange ExchangeConfig `json:"exchange"`
	Analyzer AnalyzerConfig `json:"analyzer"`
	Logging  LoggingConfig  `json:"logging"`
}

// ExchangeConfig configures the market data source.
type ExchangeConfig struct {
	// BaseURL overrides the exchange API base URL. Empty means the default.
	BaseURL string `json:"base_url,omitempty"`

	// APIKey and APISecret are forwarded opaquely to the exchange.
	APIKey    string `json:"api_key,omitempty"`
	APISecret string `json:"api_secret,omitempty"`

	// RateLimit is the request budget in requests per second.
	RateLimit int `json:"rate_limit"`
}

// AnalyzerConfig configures the volatility analysis.
type AnalyzerConfig struct {
	// Thresholds are fractional band distances as decimal strings
	// (e.g. "0.02" for 2%). Empty means the built-in default set.
	Thresholds []string `json:"thresholds,omitempty"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level      string `json:"level"`                 // debug, info, warn, error
	Format     string `json:"format"`                // json, text
	Output     string `json:"output"`                // stdout, stderr, file
	FilePath   string `json:"file_path,omitempty"`   // log file path when output is "file"
	MaxSize    int    `json:"max_size,omitempty"`    // maximum log file size in MB
	MaxBackups int    `json:"max_backups,omitempty"` // maximum rotated files to keep
	MaxAge     int    `json:"max_age,omitempty"`     // maximum age of rotated files in days
	Compress   bool   `json:"compress,omitempty"`    // compress rotated files
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		AppName: "volatility",
		Exchange: ExchangeConfig{
			RateLimit: 10,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "text",
			Output:     "stderr",
			MaxSize:    100,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		},
	}
}

// Load builds the configuration from, in increasing priority: defaults, the
// JSON config file at configPath (skipped when empty or missing), the
// credentials file at credentialsPath (dotenv format, skipped when empty or
// missing), and environment variables. The result is validated before return.
func Load(configPath, credentialsPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if credentialsPath != "" {
		if err := loadCredentials(credentialsPath); err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadFromFile merges a JSON config file into cfg. A missing file is not an
// error; the defaults stand.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// loadCredentials loads the dotenv-format credentials file into the process
// environment, where the env pass below picks the values up. The contents are
// never inspected beyond key/value parsing.
func loadCredentials(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

// loadFromEnv overrides cfg with environment variables.
func loadFromEnv(cfg *Config) {
	if val := os.Getenv(envAPIKey); val != "" {
		cfg.Exchange.APIKey = val
	}
	if val := os.Getenv(envAPISecret); val != "" {
		cfg.Exchange.APISecret = val
	}
	if val := os.Getenv(envBaseURL); val != "" {
		cfg.Exchange.BaseURL = val
	}
	if val := os.Getenv(envRateLimit); val != "" {
		if rateLimit, err := strconv.Atoi(val); err == nil {
			cfg.Exchange.RateLimit = rateLimit
		}
	}
	if val := os.Getenv(envLogLevel); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv(envLogFormat); val != "" {
		cfg.Logging.Format = val
	}
	if val := os.Getenv(envLogOutput); val != "" {
		cfg.Logging.Output = val
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []string

	if c.Exchange.RateLimit <= 0 {
		errs = append(errs, "exchange.rate_limit must be greater than 0")
	}

	for _, t := range c.Analyzer.Thresholds {
		if strings.TrimSpace(t) == "" {
			errs = append(errs, "analyzer.thresholds must not contain empty values")
			break
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		errs = append(errs, "logging.level must be one of: debug, info, warn, error")
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		errs = append(errs, "logging.format must be one of: json, text")
	}

	validLogOutputs := map[string]bool{"stdout": true, "stderr": true, "file": true}
	if !validLogOutputs[c.Logging.Output] {
		errs = append(errs, "logging.output must be one of: stdout, stderr, file")
	}
	if c.Logging.Output == "file" && c.Logging.FilePath == "" {
		errs = append(errs, "logging.file_path is required when output is \"file\"")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation errors:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// String returns the configuration as JSON with credentials redacted.
func (c *Config) String() string {
	sanitized := *c
	if sanitized.Exchange.APIKey != "" {
		sanitized.Exchange.APIKey = "[REDACTED]"
	}
	if sanitized.Exchange.APISecret != "" {
		sanitized.Exchange.APISecret = "[REDACTED]"
	}

	data, _ := json.MarshalIndent(&sanitized, "", "  ")
	return string(data)
}
