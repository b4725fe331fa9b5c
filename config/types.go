package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	User      UserConfig      `mapstructure:"user"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Debug     DebugConfig     `mapstructure:"debug"`
}

// APIConfig holds Altura API connection details
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Source  string        `mapstructure:"source"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// UserConfig contains user-settings request settings
type UserConfig struct {
	Watchdog time.Duration `mapstructure:"watchdog"`
}

// TelemetryConfig controls the SDK usage side-call
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// DebugConfig contains diagnostics toggles
type DebugConfig struct {
	RawResponse bool `mapstructure:"raw_response"`
}
