package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	Database  DatabaseConfig
	Providers ProviderConfig
	Storage   StorageConfig
	App       AppConfig
}

type ServerConfig struct {
	Port               string
	RateLimitPerMinute int
	APIKey             string // empty means the API is open
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type DatabaseConfig struct {
	DSN      string // empty disables asset persistence
	MaxConns int
	MinConns int
}

type ProviderConfig struct {
	OpenAIKey    string
	AnthropicKey string
	GeminiKey    string
}

type StorageConfig struct {
	S3Bucket  string // empty disables image mirroring
	AWSRegion string
}

type AppConfig struct {
	Environment        string
	Version            string
	TaskTTL            time.Duration
	AssetRetentionDays int
	MonthlyQuota       int
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 100),
			APIKey:             getEnv("API_KEY", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Database: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns: getEnvAsInt("DB_MIN_CONNS", 2),
		},
		Providers: ProviderConfig{
			OpenAIKey:    getEnv("OPENAI_API_KEY", ""),
			AnthropicKey: getEnv("CLAUDE_API_KEY", ""),
			GeminiKey:    getEnv("GEMINI_API_KEY", ""),
		},
		Storage: StorageConfig{
			S3Bucket:  getEnv("S3_BUCKET", ""),
			AWSRegion: getEnv("AWS_REGION", "us-east-1"),
		},
		App: AppConfig{
			Environment:        getEnv("APP_ENV", "development"),
			Version:            getEnv("APP_VERSION", "1.0.0"),
			TaskTTL:            getEnvAsDuration("TASK_TTL", 24*time.Hour),
			AssetRetentionDays: getEnvAsInt("ASSET_RETENTION_DAYS", 90),
			MonthlyQuota:       getEnvAsInt("MONTHLY_QUOTA", 500),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is required")
	}

	if c.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}

	return nil
}

// HasAnyProvider reports whether at least one AI provider key is configured.
func (c *Config) HasAnyProvider() bool {
	p := c.Providers
	return p.OpenAIKey != "" || p.AnthropicKey != "" || p.GeminiKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}
