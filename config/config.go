package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server        ServerConfig
	Log           LogConfig
	Database      DatabaseConfig
	Cache         CacheConfig
	OpenFoodFacts OpenFoodFactsConfig
	RateLimit     RateLimitConfig
	Lookup        LookupConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// DatabaseConfig holds relational store configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"` // "sqlite" or "postgres"
	Path     string `mapstructure:"path"`
	DSN      string `mapstructure:"dsn"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

// CacheConfig selects the product cache backend
type CacheConfig struct {
	Type        string `mapstructure:"type"` // "database", "memory" or "redis"
	RedisURL    string `mapstructure:"redis_url"`
	RedisPrefix string `mapstructure:"redis_prefix"`
}

// OpenFoodFactsConfig holds Open Food Facts API configuration
type OpenFoodFactsConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	SearchURL  string        `mapstructure:"search_url"`
	UserAgent  string        `mapstructure:"user_agent"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// RateLimitConfig holds rate limiting configuration, all values per minute
type RateLimitConfig struct {
	PerIP            int `mapstructure:"per_ip"`
	ProductPerMinute int `mapstructure:"product_per_minute"`
	SearchPerMinute  int `mapstructure:"search_per_minute"`
}

// LookupConfig tunes the barcode lookup path
type LookupConfig struct {
	SingleFlight bool `mapstructure:"single_flight"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/airecipes/")

	v.SetEnvPrefix("AIRECIPES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
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

// loadEnvFile loads ./.env into the process environment when present.
// Variables already set in the environment are never overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3001")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "data/airecipes.db")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("cache.type", "database")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.redis_prefix", "airecipes")

	v.SetDefault("openfoodfacts.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("openfoodfacts.search_url", "https://search.openfoodfacts.org")
	v.SetDefault("openfoodfacts.user_agent", "AIRecipes/1.0 (contact@airecipes.app)")
	v.SetDefault("openfoodfacts.timeout", "10s")
	v.SetDefault("openfoodfacts.max_retries", 3)

	// Open Food Facts allows 100 product reads and 10 searches per minute
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.product_per_minute", 100)
	v.SetDefault("ratelimit.search_per_minute", 10)

	v.SetDefault("lookup.single_flight", false)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Database.Driver {
	case "sqlite":
	case "postgres":
		if config.Database.DSN == "" && (config.Database.User == "" || config.Database.Name == "") {
			return fmt.Errorf("postgres requires a DSN or user and database name (set AIRECIPES_DATABASE_DSN)")
		}
	default:
		return fmt.Errorf("database driver must be 'sqlite' or 'postgres', got: %s", config.Database.Driver)
	}

	switch config.Cache.Type {
	case "database", "memory":
	case "redis":
		if config.Cache.RedisURL == "" {
			return fmt.Errorf("redis URL is required when cache type is 'redis'")
		}
	default:
		return fmt.Errorf("cache type must be 'database', 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.OpenFoodFacts.BaseURL == "" || config.OpenFoodFacts.SearchURL == "" {
		return fmt.Errorf("open food facts base and search URLs are required")
	}

	if config.OpenFoodFacts.Timeout <= 0 {
		return fmt.Errorf("open food facts timeout must be positive, got: %s", config.OpenFoodFacts.Timeout)
	}

	if config.OpenFoodFacts.MaxRetries < 1 {
		return fmt.Errorf("open food facts max_retries must be at least 1, got: %d", config.OpenFoodFacts.MaxRetries)
	}

	return nil
}
