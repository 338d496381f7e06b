package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrMissingToken is returned when no bot token is configured
var ErrMissingToken = errors.New("TELEGRAM_BOT_TOKEN is not set")

// Config application configuration
type Config struct {
	// Telegram
	TelegramToken string `env:"TELEGRAM_BOT_TOKEN"`
	BotToken      string `env:"BOT_TOKEN"` // legacy name, used when TELEGRAM_BOT_TOKEN is empty

	// Database
	DatabasePath string `env:"DATABASE_PATH" envDefault:"./data/tempmail.db"`

	// Mail provider
	MailGWBaseURL string        `env:"MAILGW_BASE_URL" envDefault:"https://api.mail.gw"`
	MailGWTimeout time.Duration `env:"MAILGW_TIMEOUT" envDefault:"30s"`

	// Mailbox lifecycle
	RetentionWindow time.Duration `env:"RETENTION_WINDOW" envDefault:"1h"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1h"`
	CleanupDelay    time.Duration `env:"CLEANUP_DELAY" envDefault:"10s"`
	StrictOwnership bool          `env:"STRICT_OWNERSHIP" envDefault:"true"`
	InboxLimit      int           `env:"INBOX_LIMIT" envDefault:"10"`
	BodyLimit       int           `env:"BODY_LIMIT" envDefault:"3000"`

	// Security
	EncryptionKey string `env:"ENCRYPTION_KEY"` // optional, 32 bytes for AES-256

	// Keep-alive web server
	Port int `env:"PORT" envDefault:"5000"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
	LogFile   string `env:"LOG_FILE"`
}

// EncryptionEnabled returns true if stored passwords should be sealed
func (c *Config) EncryptionEnabled() bool {
	return c.EncryptionKey != ""
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if cfg.TelegramToken == "" {
		cfg.TelegramToken = cfg.BotToken
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that env tags cannot express
func (c *Config) Validate() error {
	if c.TelegramToken == "" {
		return ErrMissingToken
	}

	// Validate encryption key length (32 bytes for AES-256)
	if c.EncryptionKey != "" && len(c.EncryptionKey) != 32 {
		return fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes, got %d", len(c.EncryptionKey))
	}

	if c.RetentionWindow <= 0 {
		return fmt.Errorf("RETENTION_WINDOW must be positive, got %s", c.RetentionWindow)
	}
	if c.CleanupInterval <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL must be positive, got %s", c.CleanupInterval)
	}
	if c.InboxLimit <= 0 {
		return fmt.Errorf("INBOX_LIMIT must be positive, got %d", c.InboxLimit)
	}
	if c.BodyLimit <= 0 {
		return fmt.Errorf("BODY_LIMIT must be positive, got %d", c.BodyLimit)
	}

	return nil
}
