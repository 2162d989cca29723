package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
	Update  UpdateConfig  `mapstructure:"update"`
}

// APIConfig holds AtomicAssets API connection and retry settings
type APIConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	APIKey        string        `mapstructure:"api_key"`
	Timeout       time.Duration `mapstructure:"timeout"`
	Retries       int           `mapstructure:"retries"`
	BackoffFactor time.Duration `mapstructure:"backoff_factor"`
	MaxBackoff    time.Duration `mapstructure:"max_backoff"`
	RetryStatuses []int         `mapstructure:"retry_statuses"`
	UserAgent     string        `mapstructure:"user_agent"`
	Concurrency   int           `mapstructure:"concurrency"`
}

// OutputConfig controls how command results are printed
type OutputConfig struct {
	Format string `mapstructure:"format"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// UpdateConfig names the GitHub repository releases are fetched from
type UpdateConfig struct {
	Repository string `mapstructure:"repository"`
}
