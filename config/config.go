package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/alturanft/alturanft-go/altura"
)

// EnvPrefix prefixes environment overrides, e.g. ALTURA_API_API_KEY
const EnvPrefix = "ALTURA"

// LoadOption adjusts values after the file and environment were read
type LoadOption func(*viper.Viper)

// WithAPIKey overrides api.api_key when key is not empty
func WithAPIKey(key string) LoadOption {
	return func(v *viper.Viper) {
		if key != "" {
			v.Set("api.api_key", key)
		}
	}
}

// WithDebug forces debug logging and raw response logging
func WithDebug(enabled bool) LoadOption {
	return func(v *viper.Viper) {
		if enabled {
			v.Set("logging.level", "debug")
			v.Set("debug.raw_response", true)
		}
	}
}

// Load loads the configuration from file and environment. Without an
// explicit path a missing config file is not an error, since every key can
// come from the environment.
func Load(configPath string, opts ...LoadOption) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".alturanft"))
		}
		v.AddConfigPath("/etc/alturanft/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || configPath != "" {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	for _, opt := range opts {
		opt(v)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	normalize(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.base_url", altura.DefaultBaseURL)
	v.SetDefault("api.api_key", "")
	v.SetDefault("api.source", altura.DefaultSource)
	v.SetDefault("api.timeout", altura.DefaultHTTPTimeout)

	v.SetDefault("user.watchdog", altura.DefaultUserSettingsWatchdog)
	v.SetDefault("telemetry.enabled", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)

	v.SetDefault("debug.raw_response", false)
}

// normalize lowercases enumerated values so validate and the logger agree
func normalize(cfg *Config) {
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if u, err := url.Parse(cfg.API.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("api.base_url must be an absolute URL: %s", cfg.API.BaseURL)
	}

	if cfg.API.APIKey == "" || cfg.API.APIKey == "your-api-key-here" {
		return fmt.Errorf("api.api_key must be set to a valid API key")
	}

	if cfg.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive: %s", cfg.API.Timeout)
	}
	if cfg.User.Watchdog <= 0 || cfg.User.Watchdog > time.Minute {
		return fmt.Errorf("user.watchdog must be between 0 and 1m: %s", cfg.User.Watchdog)
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
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

	return nil
}
