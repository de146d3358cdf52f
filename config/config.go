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

// EnvPrefix is prepended to every environment override, e.g.
// RECIPEHELPER_MATCHING_MIN_MATCH
const EnvPrefix = "RECIPEHELPER"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Catalog   CatalogConfig   `mapstructure:"catalog"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Log       LogConfig       `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig points at the recipe catalog file (JSON or YAML)
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// MatchingConfig holds ranking parameters
type MatchingConfig struct {
	MinMatch           int  `mapstructure:"min_match"`
	WindowSize         int  `mapstructure:"window_size"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory" or "redis"
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP     int     `mapstructure:"per_ip"`    // requests per minute per client IP
	Assistant float64 `mapstructure:"assistant"` // assistant requests per second
}

// AssistantConfig holds the chat-completions endpoint settings.
// The assistant is disabled when APIKey is empty.
type AssistantConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
}

// StorageConfig holds where saved recipes and recipe cards are written
type StorageConfig struct {
	SavedPath string `mapstructure:"saved_path"`
	CardsDir  string `mapstructure:"cards_dir"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// Enabled reports whether an assistant API key is configured
func (a AssistantConfig) Enabled() bool {
	return strings.TrimSpace(a.APIKey) != ""
}

// Load loads configuration from environment variables and config files.
// configFile overrides the search path when non-empty.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/recipehelper/")
	}

	// Environment variable settings
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
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

	// OPENAI_API_KEY is honored when no prefixed key is set
	if config.Assistant.APIKey == "" {
		config.Assistant.APIKey = v.GetString("openai_api_key")
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values. Every key needs a default
// so AutomaticEnv can override it during Unmarshal.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Catalog defaults
	v.SetDefault("catalog.path", "data/recipes.json")

	// Matching defaults
	v.SetDefault("matching.min_match", 2)
	v.SetDefault("matching.window_size", 3)
	v.SetDefault("matching.enable_debug_logging", false)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_url", "")
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 100)
	v.SetDefault("ratelimit.assistant", 1.0)

	// Assistant defaults
	v.SetDefault("assistant.api_key", "")
	v.SetDefault("assistant.base_url", "https://api.openai.com/v1")
	v.SetDefault("assistant.model", "gpt-4o-mini")
	v.SetDefault("assistant.timeout", "30s")
	v.SetDefault("assistant.max_tokens", 500)
	v.SetDefault("assistant.temperature", 0.6)

	// Storage defaults
	v.SetDefault("storage.saved_path", "saved_recipes.json")
	v.SetDefault("storage.cards_dir", "saved_cards")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Bound without the prefix
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
}

// validate validates the configuration
func validate(config *Config) error {
	if strings.TrimSpace(config.Catalog.Path) == "" {
		return fmt.Errorf("catalog path is required (set %s_CATALOG_PATH)", EnvPrefix)
	}

	if config.Matching.MinMatch <= 0 {
		return fmt.Errorf("matching.min_match must be positive, got: %d", config.Matching.MinMatch)
	}

	if config.Matching.WindowSize <= 0 {
		return fmt.Errorf("matching.window_size must be positive, got: %d", config.Matching.WindowSize)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisURL == "" {
		return fmt.Errorf("Redis URL is required when cache type is 'redis'")
	}

	if config.Log.Format != "console" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'console' or 'json', got: %s", config.Log.Format)
	}

	return nil
}

// LoadEnvFile loads variables from a .env file into the process environment.
// A missing file is not an error and existing variables are never overridden.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	var present []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			present = append(present, p)
		}
	}
	if len(present) == 0 {
		return nil
	}

	if err := godotenv.Load(present...); err != nil {
		return fmt.Errorf("error loading env file: %w", err)
	}
	return nil
}
