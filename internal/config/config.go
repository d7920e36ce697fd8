package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort   string `env:"PORT" envDefault:"5000"`
	DatabaseType string `env:"DB_TYPE" envDefault:"sqlite"`
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabasePath string `env:"DB_PATH" envDefault:"./guessme.db"`

	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
	LogDev    bool          `env:"LOG_DEV" envDefault:"false"`
	LogFile   string        `env:"LOG_FILE"`
	LogMaxAge time.Duration `env:"LOG_MAX_AGE" envDefault:"168h"`

	JWTSecret   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL" envDefault:"24h"`
	AdminEmails []string      `env:"ADMIN_EMAILS" envSeparator:","`

	DailyLives   int    `env:"DAILY_LIVES" envDefault:"5"`
	MaxAttempts  int    `env:"MAX_ATTEMPTS" envDefault:"6"`
	GameTimezone string `env:"GAME_TIMEZONE" envDefault:"UTC"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://127.0.0.1:5000,http://localhost:5000"`

	OTelEndpoint    string `env:"OTEL_ENDPOINT"`
	OTelServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"guessme"`
}

// Load reads an optional .env file, then environment variables with sensible defaults
func Load() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is Load for offline tools that only touch the database
func LoadDatabase() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse() (*Config, error) {
	// a missing .env is fine, real environment wins either way
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate rejects settings the server cannot run with
func (c *Config) Validate() error {
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.DailyLives < 1 {
		return errors.New("DAILY_LIVES must be at least 1")
	}
	if c.MaxAttempts < 1 {
		return errors.New("MAX_ATTEMPTS must be at least 1")
	}
	if _, err := time.LoadLocation(c.GameTimezone); err != nil {
		return fmt.Errorf("invalid GAME_TIMEZONE %q: %w", c.GameTimezone, err)
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch strings.ToLower(c.DatabaseType) {
	case "sqlite", "sqlite3", "":
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for %s", c.DatabaseType)
		}
	default:
		return fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
	return nil
}

// Location returns the time zone that decides when a game day starts
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.GameTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsAdminEmail reports whether email is on the admin allowlist
func (c *Config) IsAdminEmail(email string) bool {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, admin := range c.AdminEmails {
		if strings.ToLower(strings.TrimSpace(admin)) == email && email != "" {
			return true
		}
	}
	return false
}
