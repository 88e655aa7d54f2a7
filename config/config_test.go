package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	envKeys := []string{
		"AIRECIPES_SERVER_PORT",
		"AIRECIPES_SERVER_ENVIRONMENT",
		"AIRECIPES_LOG_LEVEL",
		"AIRECIPES_DATABASE_DRIVER",
		"AIRECIPES_DATABASE_DSN",
		"AIRECIPES_CACHE_TYPE",
		"AIRECIPES_CACHE_REDIS_URL",
		"AIRECIPES_OPENFOODFACTS_BASE_URL",
		"AIRECIPES_OPENFOODFACTS_TIMEOUT",
		"AIRECIPES_RATELIMIT_PER_IP",
		"AIRECIPES_LOOKUP_SINGLE_FLIGHT",
	}
	cleanupEnv := func() {
		for _, key := range envKeys {
			os.Unsetenv(key)
		}
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "3001" {
			t.Errorf("Server.Port = %s, want 3001", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Server.ShutdownTimeout != 10*time.Second {
			t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
		}
		if cfg.Database.Driver != "sqlite" {
			t.Errorf("Database.Driver = %s, want sqlite", cfg.Database.Driver)
		}
		if cfg.Cache.Type != "database" {
			t.Errorf("Cache.Type = %s, want database", cfg.Cache.Type)
		}
		if cfg.OpenFoodFacts.BaseURL != "https://world.openfoodfacts.org" {
			t.Errorf("OpenFoodFacts.BaseURL = %s, want https://world.openfoodfacts.org", cfg.OpenFoodFacts.BaseURL)
		}
		if cfg.OpenFoodFacts.Timeout != 10*time.Second {
			t.Errorf("OpenFoodFacts.Timeout = %v, want 10s", cfg.OpenFoodFacts.Timeout)
		}
		if cfg.OpenFoodFacts.MaxRetries != 3 {
			t.Errorf("OpenFoodFacts.MaxRetries = %d, want 3", cfg.OpenFoodFacts.MaxRetries)
		}
		if cfg.RateLimit.PerIP != 100 {
			t.Errorf("RateLimit.PerIP = %d, want 100", cfg.RateLimit.PerIP)
		}
		if cfg.RateLimit.SearchPerMinute != 10 {
			t.Errorf("RateLimit.SearchPerMinute = %d, want 10", cfg.RateLimit.SearchPerMinute)
		}
		if cfg.Lookup.SingleFlight {
			t.Error("Lookup.SingleFlight = true, want false")
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("AIRECIPES_SERVER_PORT", "9090")
		os.Setenv("AIRECIPES_SERVER_ENVIRONMENT", "production")
		os.Setenv("AIRECIPES_LOG_LEVEL", "debug")
		os.Setenv("AIRECIPES_DATABASE_DRIVER", "postgres")
		os.Setenv("AIRECIPES_DATABASE_DSN", "host=db user=app dbname=app")
		os.Setenv("AIRECIPES_CACHE_TYPE", "redis")
		os.Setenv("AIRECIPES_CACHE_REDIS_URL", "redis://localhost:6379/0")
		os.Setenv("AIRECIPES_OPENFOODFACTS_BASE_URL", "https://off.example.com")
		os.Setenv("AIRECIPES_OPENFOODFACTS_TIMEOUT", "3s")
		os.Setenv("AIRECIPES_RATELIMIT_PER_IP", "200")
		os.Setenv("AIRECIPES_LOOKUP_SINGLE_FLIGHT", "true")
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
		if cfg.Log.Level != "debug" {
			t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
		}
		if cfg.Database.Driver != "postgres" {
			t.Errorf("Database.Driver = %s, want postgres", cfg.Database.Driver)
		}
		if cfg.Database.DSN != "host=db user=app dbname=app" {
			t.Errorf("Database.DSN = %s, want host=db user=app dbname=app", cfg.Database.DSN)
		}
		if cfg.Cache.Type != "redis" {
			t.Errorf("Cache.Type = %s, want redis", cfg.Cache.Type)
		}
		if cfg.Cache.RedisURL != "redis://localhost:6379/0" {
			t.Errorf("Cache.RedisURL = %s, want redis://localhost:6379/0", cfg.Cache.RedisURL)
		}
		if cfg.OpenFoodFacts.BaseURL != "https://off.example.com" {
			t.Errorf("OpenFoodFacts.BaseURL = %s, want https://off.example.com", cfg.OpenFoodFacts.BaseURL)
		}
		if cfg.OpenFoodFacts.Timeout != 3*time.Second {
			t.Errorf("OpenFoodFacts.Timeout = %v, want 3s", cfg.OpenFoodFacts.Timeout)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if !cfg.Lookup.SingleFlight {
			t.Error("Lookup.SingleFlight = false, want true")
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("AIRECIPES_CACHE_TYPE", "invalid")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails validation when redis URL missing for redis cache", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("AIRECIPES_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for missing Redis URL")
		}
	})
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables from .env file", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		envContent := `
# Comment line
TEST_VAR_1=value1
TEST_VAR_2=value2
# TEST_COMMENTED=should_not_load
`
		if err := os.WriteFile(".env", []byte(envContent), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		os.Unsetenv("TEST_VAR_1")
		os.Unsetenv("TEST_VAR_2")
		os.Unsetenv("TEST_COMMENTED")
		defer func() {
			os.Unsetenv("TEST_VAR_1")
			os.Unsetenv("TEST_VAR_2")
		}()

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_VAR_1") != "value1" {
			t.Errorf("TEST_VAR_1 = %s, want value1", os.Getenv("TEST_VAR_1"))
		}
		if os.Getenv("TEST_VAR_2") != "value2" {
			t.Errorf("TEST_VAR_2 = %s, want value2", os.Getenv("TEST_VAR_2"))
		}
		if os.Getenv("TEST_COMMENTED") != "" {
			t.Errorf("TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		originalDir, _ := os.Getwd()
		defer os.Chdir(originalDir)

		os.Chdir(t.TempDir())

		os.Setenv("TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("TEST_OVERRIDE")

		if err := os.WriteFile(".env", []byte("TEST_OVERRIDE=new-value"), 0644); err != nil {
			t.Fatalf("Failed to create test .env file: %v", err)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if os.Getenv("TEST_OVERRIDE") != "existing-value" {
			t.Errorf("TEST_OVERRIDE = %s, want existing-value (should not override)", os.Getenv("TEST_OVERRIDE"))
		}
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{Driver: "sqlite"},
			Cache:    CacheConfig{Type: "memory"},
			OpenFoodFacts: OpenFoodFactsConfig{
				BaseURL:    "https://world.openfoodfacts.org",
				SearchURL:  "https://search.openfoodfacts.org",
				Timeout:    10 * time.Second,
				MaxRetries: 3,
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		wantErr bool
	}{
		{name: "valid configuration", mutate: func(cfg *Config) {}, wantErr: false},
		{name: "unknown database driver", mutate: func(cfg *Config) { cfg.Database.Driver = "mysql" }, wantErr: true},
		{name: "postgres without dsn or credentials", mutate: func(cfg *Config) { cfg.Database.Driver = "postgres" }, wantErr: true},
		{
			name: "postgres with user and name",
			mutate: func(cfg *Config) {
				cfg.Database.Driver = "postgres"
				cfg.Database.User = "app"
				cfg.Database.Name = "airecipes"
			},
			wantErr: false,
		},
		{name: "invalid cache type", mutate: func(cfg *Config) { cfg.Cache.Type = "invalid-type" }, wantErr: true},
		{
			name: "redis cache with URL",
			mutate: func(cfg *Config) {
				cfg.Cache.Type = "redis"
				cfg.Cache.RedisURL = "redis://localhost:6379"
			},
			wantErr: false,
		},
		{name: "redis cache without URL", mutate: func(cfg *Config) { cfg.Cache.Type = "redis" }, wantErr: true},
		{name: "missing search url", mutate: func(cfg *Config) { cfg.OpenFoodFacts.SearchURL = "" }, wantErr: true},
		{name: "zero timeout", mutate: func(cfg *Config) { cfg.OpenFoodFacts.Timeout = 0 }, wantErr: true},
		{name: "zero retries", mutate: func(cfg *Config) { cfg.OpenFoodFacts.MaxRetries = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
