package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends selectable through STORAGE_TYPE
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Discord configuration
	Token   string
	AppID   string
	GuildID string

	// Persistence
	DataDir       string
	StorageType   string
	RedisAddr     string
	RedisPassword string

	// Card analytics, disabled when URL is empty
	ElasticsearchURL      string
	ElasticsearchUsername string
	ElasticsearchPassword string
	ElasticsearchPrefix   string

	// Template catalog
	TemplatesPath    string
	TemplateCacheTTL time.Duration
	AssetBaseURL     string // prefix for relative asset paths

	// Wallet economy
	DefaultBalance int64
	DailyReward    int64
	AdReward       int64
	Location       *time.Location

	MetricsAddr string
	LogLevel    string

	// Environment
	Environment string // "development" or "production"
}

// Load reads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Only return error if file exists but couldn't be loaded
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	// Get working directory for resource paths
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg := &Config{
		Token:                 os.Getenv("DISCORD_TOKEN"),
		AppID:                 os.Getenv("APP_ID"),
		GuildID:               os.Getenv("GUILD_ID"),
		Environment:           getEnvWithDefault("ENVIRONMENT", "development"),
		DataDir:               getEnvWithDefault("DATA_DIR", filepath.Join(wd, "data")),
		StorageType:           getEnvWithDefault("STORAGE_TYPE", StorageFile),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisPassword:         os.Getenv("REDIS_PASSWORD"),
		ElasticsearchURL:      os.Getenv("ELASTICSEARCH_URL"),
		ElasticsearchUsername: os.Getenv("ELASTICSEARCH_USERNAME"),
		ElasticsearchPassword: os.Getenv("ELASTICSEARCH_PASSWORD"),
		ElasticsearchPrefix:   getEnvWithDefault("ELASTICSEARCH_INDEX_PREFIX", "affectlab"),
		TemplatesPath:         os.Getenv("TEMPLATES_PATH"),
		AssetBaseURL:          os.Getenv("ASSET_BASE_URL"),
		MetricsAddr:           os.Getenv("METRICS_ADDR"),
		LogLevel:              getEnvWithDefault("LOG_LEVEL", "info"),
	}

	if cfg.TemplateCacheTTL, err = getDurationWithDefault("TEMPLATE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.DefaultBalance, err = getIntWithDefault("DEFAULT_BALANCE", 20); err != nil {
		return nil, err
	}
	if cfg.DailyReward, err = getIntWithDefault("DAILY_REWARD", 10); err != nil {
		return nil, err
	}
	if cfg.AdReward, err = getIntWithDefault("AD_REWARD", 10); err != nil {
		return nil, err
	}

	// Daily claims roll over at midnight UTC+8 unless told otherwise
	offset, err := getIntWithDefault("TIMEZONE_OFFSET_HOURS", 8)
	if err != nil {
		return nil, err
	}
	cfg.Location = time.FixedZone(fmt.Sprintf("UTC%+d", offset), int(offset)*3600)

	// Validate the settings every entrypoint needs
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create data directory if it doesn't exist
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// validate checks storage and economy settings
func (c *Config) validate() error {
	switch c.StorageType {
	case StorageFile, StorageSQLite:
	case StorageRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when STORAGE_TYPE=redis")
		}
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	if c.DefaultBalance < 0 {
		return fmt.Errorf("DEFAULT_BALANCE cannot be negative")
	}
	return nil
}

// RequireDiscord checks that the bot credentials are present
func (c *Config) RequireDiscord() error {
	if c.Token == "" {
		return fmt.Errorf("DISCORD_TOKEN is required")
	}
	if c.AppID == "" {
		return fmt.Errorf("APP_ID is required")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// FileStorePath is the JSON store location for STORAGE_TYPE=file
func (c *Config) FileStorePath() string {
	return filepath.Join(c.DataDir, "affectlab.json")
}

// SQLitePath is the database location for STORAGE_TYPE=sqlite
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "affectlab.db")
}

// getEnvWithDefault returns environment variable value or default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntWithDefault(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
