package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/s0up4200/waxatomic/atomicassets"
)

// EnvPrefix is the prefix of environment variables overriding config keys,
// e.g. WAXATOMIC_API_RETRIES.
const EnvPrefix = "WAXATOMIC"

// Load loads the configuration from file. A missing config file is not an
// error; defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".waxatomic"))
		}

		// Check /etc
		v.AddConfigPath("/etc/waxatomic/")
	}

	// Read config file; only an explicitly requested file has to exist
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if configPath != "" || !missing {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", atomicassets.DefaultBaseURL)
	v.SetDefault("api.api_key", "")
	v.SetDefault("api.timeout", atomicassets.DefaultTimeout)
	v.SetDefault("api.retries", atomicassets.DefaultRetries)
	v.SetDefault("api.backoff_factor", atomicassets.DefaultBackoffFactor)
	v.SetDefault("api.max_backoff", atomicassets.DefaultMaxBackoff)
	v.SetDefault("api.retry_statuses", atomicassets.DefaultRetryStatuses)
	v.SetDefault("api.user_agent", "waxatomic")
	v.SetDefault("api.concurrency", 4)

	// Output defaults
	v.SetDefault("output.format", "text")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("update.repository", "s0up4200/waxatomic")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive")
	}

	if cfg.API.Retries < 0 {
		return fmt.Errorf("api.retries must not be negative")
	}

	if cfg.API.BackoffFactor < 0 {
		return fmt.Errorf("api.backoff_factor must not be negative")
	}

	if cfg.API.Concurrency < 1 {
		return fmt.Errorf("api.concurrency must be at least 1")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	if cfg.Output.Format != "text" && cfg.Output.Format != "json" {
		return fmt.Errorf("invalid output format: %s (must be 'text' or 'json')", cfg.Output.Format)
	}

	return nil
}

// ClientOptions converts the API section into atomicassets client options.
func (c APIConfig) ClientOptions() []atomicassets.Option {
	opts := []atomicassets.Option{
		atomicassets.WithBaseURL(c.BaseURL),
		atomicassets.WithTimeout(c.Timeout),
		atomicassets.WithRetries(c.Retries),
		atomicassets.WithBackoffFactor(c.BackoffFactor),
		atomicassets.WithUserAgent(c.UserAgent),
	}
	if c.MaxBackoff > 0 {
		opts = append(opts, atomicassets.WithMaxBackoff(c.MaxBackoff))
	}
	if len(c.RetryStatuses) > 0 {
		opts = append(opts, atomicassets.WithRetryStatuses(c.RetryStatuses...))
	}
	return opts
}
