// Package config loads worker configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the complete worker configuration
type Config struct {
	AppEnv string

	// RabbitMQ
	RabbitMQURL string

	// Meilisearch
	MeiliURL       string
	MeiliMasterKey string

	// OpenAI
	OpenAIAPIKey string

	// GitHub. Optional: public repositories work unauthenticated at 60
	// requests/hour; a token raises the limit to 5000.
	GithubToken string

	// Repositories whose zipball exceeds this size are fetched file by
	// file through the Tree API instead.
	MaxZipSizeMB int

	// Documents per embed+index batch
	BatchSize int

	// LRU entries for the embedding cache
	EmbedCacheSize int

	// Logging
	LogLevel string
	LogJSON  bool
}

// Load reads configuration from environment variables, consulting a .env
// file in the working directory when present
func Load() (*Config, error) {
	return LoadFrom(".env")
}

// LoadFrom reads configuration like Load but with an explicit env file path
func LoadFrom(envFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		AppEnv:         v.GetString("APP_ENV"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		MeiliURL:       v.GetString("MEILI_URL"),
		MeiliMasterKey: v.GetString("MEILI_MASTER_KEY"),
		OpenAIAPIKey:   v.GetString("OPENAI_API_KEY"),
		GithubToken:    v.GetString("GITHUB_TOKEN"),
		MaxZipSizeMB:   v.GetInt("MAX_ZIP_SIZE_MB"),
		BatchSize:      v.GetInt("BATCH_SIZE"),
		EmbedCacheSize: v.GetInt("EMBED_CACHE_SIZE"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		LogJSON:        v.GetBool("LOG_JSON"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("MEILI_URL", "")
	v.SetDefault("MEILI_MASTER_KEY", "")
	v.SetDefault("OPENAI_API_KEY", "")
	v.SetDefault("GITHUB_TOKEN", "")
	v.SetDefault("MAX_ZIP_SIZE_MB", 50)
	v.SetDefault("BATCH_SIZE", 20)
	v.SetDefault("EMBED_CACHE_SIZE", 10000)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_JSON", false)
}

func (c *Config) validate() error {
	var missing []string
	if c.RabbitMQURL == "" {
		missing = append(missing, "RABBITMQ_URL")
	}
	if c.MeiliURL == "" {
		missing = append(missing, "MEILI_URL")
	}
	if c.MeiliMasterKey == "" {
		missing = append(missing, "MEILI_MASTER_KEY")
	}
	if c.OpenAIAPIKey == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	if c.MaxZipSizeMB <= 0 {
		return fmt.Errorf("MAX_ZIP_SIZE_MB must be positive, got %d", c.MaxZipSizeMB)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("BATCH_SIZE must be positive, got %d", c.BatchSize)
	}
	return nil
}
