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

// EnvPrefix is prepended to every environment variable, e.g. SHOPMATCH_SERVER_PORT
const EnvPrefix = "SHOPMATCH"

// maxKeywordMatches bounds match.max_keyword_matches
const maxKeywordMatches = 5

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Rainforest RainforestConfig `mapstructure:"rainforest"`
	Ebay       EbayConfig       `mapstructure:"ebay"`
	Cache      CacheConfig      `mapstructure:"cache"`
	RateLimit  RateLimitConfig  `mapstructure:"ratelimit"`
	Match      MatchConfig      `mapstructure:"match"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// RainforestConfig holds the amazon provider configuration
type RainforestConfig struct {
	APIKey            string  `mapstructure:"api_key"`
	BaseURL           string  `mapstructure:"base_url"`
	AmazonDomain      string  `mapstructure:"amazon_domain"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// Enabled reports whether the amazon provider has credentials
func (c RainforestConfig) Enabled() bool {
	return c.APIKey != ""
}

// EbayConfig holds the ebay provider configuration
type EbayConfig struct {
	AppID             string  `mapstructure:"app_id"`
	CertID            string  `mapstructure:"cert_id"`
	BaseURL           string  `mapstructure:"base_url"`
	TokenURL          string  `mapstructure:"token_url"`
	MarketplaceID     string  `mapstructure:"marketplace_id"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// Enabled reports whether the ebay provider has credentials
func (c EbayConfig) Enabled() bool {
	return c.AppID != "" && c.CertID != ""
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // "memory", "redis" or "none"
	RedisURL      string        `mapstructure:"redis_url"`
	KeyPrefix     string        `mapstructure:"key_prefix"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// RateLimitConfig holds inbound rate limiting configuration
type RateLimitConfig struct {
	PerIP         int           `mapstructure:"per_ip"` // requests per minute, 0 disables
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

// MatchConfig holds matching configuration
type MatchConfig struct {
	MaxKeywordMatches int  `mapstructure:"max_keyword_matches"`
	DebugScoring      bool `mapstructure:"debug_scoring"`
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/shopmatch/")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults are enough
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

// loadEnvFile loads .env from the working directory when present.
// Variables already set in the environment win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(".env"); err != nil {
		return fmt.Errorf("error loading .env file: %w", err)
	}
	return nil
}

// setDefaults sets default configuration values. Every key is registered so
// AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("rainforest.api_key", "")
	v.SetDefault("rainforest.base_url", "https://api.rainforestapi.com")
	v.SetDefault("rainforest.amazon_domain", "amazon.com")
	v.SetDefault("rainforest.requests_per_second", 1.0)

	v.SetDefault("ebay.app_id", "")
	v.SetDefault("ebay.cert_id", "")
	v.SetDefault("ebay.base_url", "https://api.ebay.com")
	v.SetDefault("ebay.token_url", "https://api.ebay.com/identity/v1/oauth2/token")
	v.SetDefault("ebay.marketplace_id", "EBAY_US")
	v.SetDefault("ebay.requests_per_second", 5.0)

	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.key_prefix", "shopmatch:")
	v.SetDefault("cache.sweep_interval", "10m")

	v.SetDefault("ratelimit.per_ip", 10)
	v.SetDefault("ratelimit.sweep_interval", "5m")

	v.SetDefault("match.max_keyword_matches", 5)
	v.SetDefault("match.debug_scoring", false)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Cache.Type {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'none', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("redis URL is required when cache type is 'redis'")
	}

	if config.Log.Format != "json" && config.Log.Format != "console" {
		return fmt.Errorf("log format must be 'json' or 'console', got: %s", config.Log.Format)
	}

	if config.RateLimit.PerIP < 0 {
		return fmt.Errorf("ratelimit per_ip must not be negative, got: %d", config.RateLimit.PerIP)
	}

	if config.Match.MaxKeywordMatches <= 0 || config.Match.MaxKeywordMatches > maxKeywordMatches {
		return fmt.Errorf("match max_keyword_matches must be between 1 and %d, got: %d", maxKeywordMatches, config.Match.MaxKeywordMatches)
	}

	return nil
}
