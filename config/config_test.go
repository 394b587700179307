package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("STOREFRONT_SERVER_PORT")
		os.Unsetenv("STOREFRONT_SERVER_ENVIRONMENT")
		os.Unsetenv("STOREFRONT_STORE_BASE_URL")
		os.Unsetenv("STOREFRONT_STORE_TIMEOUT")
		os.Unsetenv("STOREFRONT_CACHE_DIR")
		os.Unsetenv("STOREFRONT_CATALOG_POLL_INTERVAL")
		os.Unsetenv("STOREFRONT_CATALOG_POLL_ATTEMPTS")
		os.Unsetenv("STOREFRONT_RATELIMIT_PER_IP")
		os.Unsetenv("STOREFRONT_RATELIMIT_STORE")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Store.BaseURL != "http://localhost:8000/api" {
			t.Errorf("Store.BaseURL = %s, want http://localhost:8000/api", cfg.Store.BaseURL)
		}
		if cfg.Store.Timeout != 15*time.Second {
			t.Errorf("Store.Timeout = %v, want 15s", cfg.Store.Timeout)
		}
		if cfg.Cache.Dir != "./data" {
			t.Errorf("Cache.Dir = %s, want ./data", cfg.Cache.Dir)
		}
		if cfg.Catalog.PollInterval != 2*time.Second {
			t.Errorf("Catalog.PollInterval = %v, want 2s", cfg.Catalog.PollInterval)
		}
		if cfg.Catalog.PollAttempts != 10 {
			t.Errorf("Catalog.PollAttempts = %d, want 10", cfg.Catalog.PollAttempts)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.Store != 10 {
			t.Errorf("RateLimit.Store = %d, want 10", cfg.RateLimit.Store)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STOREFRONT_SERVER_PORT", "9090")
		os.Setenv("STOREFRONT_SERVER_ENVIRONMENT", "production")
		os.Setenv("STOREFRONT_STORE_BASE_URL", "https://shop.example.com/api")
		os.Setenv("STOREFRONT_STORE_TIMEOUT", "30s")
		os.Setenv("STOREFRONT_CACHE_DIR", "/var/lib/storefront")
		os.Setenv("STOREFRONT_CATALOG_POLL_INTERVAL", "500ms")
		os.Setenv("STOREFRONT_CATALOG_POLL_ATTEMPTS", "5")
		os.Setenv("STOREFRONT_RATELIMIT_PER_IP", "200")
		os.Setenv("STOREFRONT_RATELIMIT_STORE", "20")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Store.BaseURL != "https://shop.example.com/api" {
			t.Errorf("Store.BaseURL = %s, want https://shop.example.com/api", cfg.Store.BaseURL)
		}
		if cfg.Store.Timeout != 30*time.Second {
			t.Errorf("Store.Timeout = %v, want 30s", cfg.Store.Timeout)
		}
		if cfg.Cache.Dir != "/var/lib/storefront" {
			t.Errorf("Cache.Dir = %s, want /var/lib/storefront", cfg.Cache.Dir)
		}
		if cfg.Catalog.PollInterval != 500*time.Millisecond {
			t.Errorf("Catalog.PollInterval = %v, want 500ms", cfg.Catalog.PollInterval)
		}
		if cfg.Catalog.PollAttempts != 5 {
			t.Errorf("Catalog.PollAttempts = %d, want 5", cfg.Catalog.PollAttempts)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.Store != 20 {
			t.Errorf("RateLimit.Store = %d, want 20", cfg.RateLimit.Store)
		}
	})

	t.Run("fails validation for relative base URL", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STOREFRONT_STORE_BASE_URL", "/api")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for relative base URL")
		}
	})

	t.Run("fails validation for zero poll attempts", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("STOREFRONT_CATALOG_POLL_ATTEMPTS", "0")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for zero poll attempts")
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store: StoreConfig{
				BaseURL: "http://localhost:8000/api",
				Timeout: 15 * time.Second,
			},
			Cache:   CacheConfig{Dir: "./data"},
			Catalog: CatalogConfig{PollInterval: 2 * time.Second, PollAttempts: 10},
		}
	}

	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(valid()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for URL without scheme", func(t *testing.T) {
		cfg := valid()
		cfg.Store.BaseURL = "localhost:8000"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for URL without scheme")
		}
	})

	t.Run("fails for empty cache dir", func(t *testing.T) {
		cfg := valid()
		cfg.Cache.Dir = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty cache dir")
		}
	})

	t.Run("fails for negative poll attempts", func(t *testing.T) {
		cfg := valid()
		cfg.Catalog.PollAttempts = -1
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for negative poll attempts")
		}
	})
}
