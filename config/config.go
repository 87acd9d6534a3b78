package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when no completion-API credentials are
// configured. The server cannot start without them.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is required")

// Config holds all configuration for the application.
// Mapstructure tags map environment variables and config file keys.
type Config struct {
	// Server Configuration
	ServerAddress string `mapstructure:"SERVER_ADDRESS"` // e.g., ":8080"

	// AI Configuration
	OpenAIKey   string `mapstructure:"OPENAI_API_KEY"` // API key for OpenAI
	OpenAIModel string `mapstructure:"OPENAI_MODEL"`   // e.g., "gpt-4o"

	// Generation Configuration
	OutputDir             string `mapstructure:"OUTPUT_DIR"`               // Directory generated sites are written to
	HistoryDBPath         string `mapstructure:"HISTORY_DB_PATH"`          // SQLite file for prompt/site history
	MaxGapFillRounds      int    `mapstructure:"MAX_GAP_FILL_ROUNDS"`      // Bound on gap-filling rounds per request
	FallbackMinScriptSize int    `mapstructure:"FALLBACK_MIN_SCRIPT_SIZE"` // Minimum script.js length before fallback kicks in
}

// LoadConfig reads configuration from file and environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("OPENAI_MODEL", "gpt-4o")
	viper.SetDefault("OUTPUT_DIR", "generated_website")
	viper.SetDefault("HISTORY_DB_PATH", "website_history.db")
	viper.SetDefault("MAX_GAP_FILL_ROUNDS", 3)
	viper.SetDefault("FALLBACK_MIN_SCRIPT_SIZE", 200)

	viper.AutomaticEnv() // Read environment variables that match keys

	err = viper.ReadInConfig()
	if err != nil {
		// If config file not found, log it but continue if env vars might be set
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("Config file ('config.yaml') not found in specified path, relying solely on environment variables.")
		} else {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		log.Printf("Using configuration file: %s", viper.ConfigFileUsed())
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return Config{}, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if config.OpenAIKey == "" {
		return Config{}, ErrMissingAPIKey
	}

	return
}
