// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/metiseon/landing/internal/publish"
)

// Config holds application configuration
type Config struct {
	Port         int
	LogLevel     string
	DevMode      bool
	AssetsDir    string // Optional on-disk override for the embedded assets (always absolute when set)
	SiteURL      string
	CopyResetMs  int    // How long a code block shows "copied" after a copy action
	LedgerDBPath string // Empty = in-memory ledger
	Publish      *PublishConfig
}

// PublishConfig holds static-site publishing configuration (config package version)
type PublishConfig struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string // S3-compatible endpoint (R2, MinIO); empty = AWS
	Schedule string // Cron expression with seconds; empty = no scheduled publish

	// Static credentials; empty = the default AWS credential chain
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether a bucket has been configured
func (c *PublishConfig) Enabled() bool {
	return c != nil && c.Bucket != ""
}

// ToS3Config converts config.PublishConfig to publish.S3Config
func (c *PublishConfig) ToS3Config() publish.S3Config {
	return publish.S3Config{
		Bucket:          c.Bucket,
		Prefix:          c.Prefix,
		Region:          c.Region,
		Endpoint:        c.Endpoint,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
	}
}

// CopyResetDuration returns the copy indicator window as a duration
func (c *Config) CopyResetDuration() time.Duration {
	return time.Duration(c.CopyResetMs) * time.Millisecond
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	assetsDir := getEnv("ASSETS_DIR", "")
	if assetsDir != "" {
		absAssetsDir, err := filepath.Abs(assetsDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve assets directory path: %w", err)
		}
		info, err := os.Stat(absAssetsDir)
		if err != nil {
			return nil, fmt.Errorf("assets directory not available: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("assets path is not a directory: %s", absAssetsDir)
		}
		assetsDir = absAssetsDir
	}

	cfg := &Config{
		Port:         getEnvAsInt("PORT", 8080),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DevMode:      getEnvAsBool("DEV_MODE", false),
		AssetsDir:    assetsDir,
		SiteURL:      getEnv("SITE_URL", "http://localhost:8080"),
		CopyResetMs:  getEnvAsInt("COPY_RESET_MS", 2000),
		LedgerDBPath: getEnv("LEDGER_DB_PATH", ""),
		Publish:      loadPublishConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.CopyResetMs <= 0 {
		return fmt.Errorf("COPY_RESET_MS must be positive, got %d", c.CopyResetMs)
	}
	if c.Publish != nil && c.Publish.Schedule != "" && c.Publish.Bucket == "" {
		return fmt.Errorf("PUBLISH_SCHEDULE is set but PUBLISH_BUCKET is empty")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func loadPublishConfig() *PublishConfig {
	return &PublishConfig{
		Bucket:   getEnv("PUBLISH_BUCKET", ""),
		Prefix:   getEnv("PUBLISH_PREFIX", "site"),
		Region:   getEnv("PUBLISH_REGION", "auto"),
		Endpoint: getEnv("PUBLISH_ENDPOINT", ""),
		Schedule: getEnv("PUBLISH_SCHEDULE", ""),

		AccessKeyID:     getEnv("PUBLISH_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("PUBLISH_SECRET_ACCESS_KEY", ""),
	}
}
