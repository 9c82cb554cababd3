package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Telegram configuration
	BotToken    string
	BotUsername string
	Channel     string  // subscription-gate channel, e.g. "@mychannel"
	AdminIDs    []int64 // Telegram IDs allowed to use the admin panel

	// Database configuration
	DatabaseURL string

	// Ledger configuration
	ReferralBonus int64 // stars credited to a referrer per referred signup

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from a .env file (if present) and the environment
func load() (*Config, error) {
	// Missing .env just means plain environment variables
	_ = godotenv.Load()

	config := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		BotUsername: os.Getenv("BOT_USERNAME"),
		Channel:     os.Getenv("CHANNEL"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		Environment: os.Getenv("ENVIRONMENT"),

		ReferralBonus: 1,
	}

	if bonus := os.Getenv("REFERRAL_BONUS"); bonus != "" {
		parsed, err := strconv.ParseInt(bonus, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid REFERRAL_BONUS %q: %w", bonus, err)
		}
		config.ReferralBonus = parsed
	}

	if adminIDs := os.Getenv("ADMIN_IDS"); adminIDs != "" {
		for _, idStr := range strings.Split(adminIDs, ",") {
			idStr = strings.TrimSpace(idStr)
			if idStr == "" {
				continue
			}
			id, err := strconv.ParseInt(idStr, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid ADMIN_IDS entry %q: %w", idStr, err)
			}
			config.AdminIDs = append(config.AdminIDs, id)
		}
	}

	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		if config.BotToken == "" {
			return nil, fmt.Errorf("BOT_TOKEN is required")
		}
		if config.BotUsername == "" {
			return nil, fmt.Errorf("BOT_USERNAME is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
