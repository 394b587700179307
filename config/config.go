package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Store     StoreConfig
	Cache     CacheConfig
	Catalog   CatalogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds the local HTTP facade configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig holds the remote storefront service configuration
type StoreConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds the durable local cart cache configuration
type CacheConfig struct {
	Dir string `mapstructure:"dir"`
}

// CatalogConfig bounds the refetch poll after a catalog update trigger
type CatalogConfig struct {
	PollInterval time.Duration `mapstructure:"poll_interval"`
	PollAttempts int           `mapstructure:"poll_attempts"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
	Store int `mapstructure:"store"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/storefront/")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	v.SetDefault("store.base_url", "http://localhost:8000/api")
	v.SetDefault("store.timeout", "15s")

	v.SetDefault("cache.dir", "./data")

	v.SetDefault("catalog.poll_interval", "2s")
	v.SetDefault("catalog.poll_attempts", 10)

	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.store", 10)
}

// validate validates the configuration
func validate(config *Config) error {
	parsed, err := url.Parse(config.Store.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("store base URL must be absolute, got: %s", config.Store.BaseURL)
	}

	if config.Cache.Dir == "" {
		return fmt.Errorf("cache dir is required (set STOREFRONT_CACHE_DIR)")
	}

	if config.Catalog.PollAttempts < 1 {
		return fmt.Errorf("catalog poll attempts must be at least 1, got: %d", config.Catalog.PollAttempts)
	}

	return nil
}
