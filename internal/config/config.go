package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Remote    RemoteConfig    `yaml:"remote"`
	Auth      AuthConfig      `yaml:"auth"`
	Cache     CacheConfig     `yaml:"cache"`
	Notify    NotifyConfig    `yaml:"notify"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// RemoteConfig contains the remote collection store settings
type RemoteConfig struct {
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// AuthConfig contains the auth provider settings
type AuthConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// CacheConfig contains local offline cache settings
type CacheConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// NotifyConfig contains order confirmation email settings
type NotifyConfig struct {
	Enabled        bool   `yaml:"enabled"`
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

// SchedulerConfig contains cron schedule settings for background re-sync
type SchedulerConfig struct {
	RefreshCart   string `yaml:"refresh_cart"`
	RefreshOrders string `yaml:"refresh_orders"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Remote store
	if val := os.Getenv("REMOTE_BASE_URL"); val != "" {
		c.Remote.BaseURL = val
	}
	if val := os.Getenv("REMOTE_TIMEOUT_SECONDS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Remote.TimeoutSeconds)
	}

	// Auth provider
	if val := os.Getenv("AUTH_BASE_URL"); val != "" {
		c.Auth.BaseURL = val
	}
	if val := os.Getenv("AUTH_API_KEY"); val != "" {
		c.Auth.APIKey = val
	}

	// Cache
	if val := os.Getenv("CACHE_PATH"); val != "" {
		c.Cache.Path = val
	}

	// Notify
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notify.SendGridAPIKey = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Remote store validation
	if c.Remote.BaseURL == "" {
		return fmt.Errorf("remote store base URL is required")
	}
	if c.Remote.TimeoutSeconds <= 0 {
		c.Remote.TimeoutSeconds = 10
	}

	// Auth validation
	if c.Auth.TimeoutSeconds <= 0 {
		c.Auth.TimeoutSeconds = 10
	}

	// Cache validation
	if c.Cache.Enabled && c.Cache.Path == "" {
		return fmt.Errorf("cache path is required when cache is enabled")
	}

	// Notify validation
	if c.Notify.Enabled {
		if c.Notify.SendGridAPIKey == "" {
			return fmt.Errorf("SendGrid API key is required when notifications are enabled")
		}
		if c.Notify.FromEmail == "" {
			return fmt.Errorf("notification from email is required when notifications are enabled")
		}
	}

	// Scheduler defaults
	if c.Scheduler.RefreshCart == "" {
		c.Scheduler.RefreshCart = "0 */5 * * * *" // Every 5 minutes
	}
	if c.Scheduler.RefreshOrders == "" {
		c.Scheduler.RefreshOrders = "0 */10 * * * *" // Every 10 minutes
	}

	return nil
}
