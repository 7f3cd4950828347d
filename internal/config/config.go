package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	SMTP     SMTPConfig
	Reminder ReminderConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds token verification configuration. Tokens are issued by the
// auth service; this backend only verifies them.
type JWTConfig struct {
	Secret        string
	SSEExpiration string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
}

// SMTPConfig holds outbound email configuration. Email delivery is disabled
// when Host is empty.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// ReminderConfig controls the visit reminder cron job.
type ReminderConfig struct {
	Enabled  bool
	Interval time.Duration
	Window   time.Duration
}

func Load() (*Config, error) {
	// .env is optional; deployed environments set real env vars
	_ = godotenv.Load()

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "roomly"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:        getEnv("JWT_SECRET_KEY", ""),
		SSEExpiration: getEnv("JWT_SSE_EXPIRATION_TIME", "5m"),
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}

	config.SMTP = SMTPConfig{
		Host:     getEnv("SMTP_HOST", ""),
		Port:     smtpPort,
		Username: getEnv("SMTP_USERNAME", ""),
		Password: getEnv("SMTP_PASSWORD", ""),
		From:     getEnv("SMTP_FROM", "no-reply@roomly.fr"),
	}

	// Reminder job configuration
	reminderInterval, err := time.ParseDuration(getEnv("REMINDER_INTERVAL", "15m"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_INTERVAL: %w", err)
	}

	reminderWindow, err := time.ParseDuration(getEnv("REMINDER_WINDOW", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid REMINDER_WINDOW: %w", err)
	}

	config.Reminder = ReminderConfig{
		Enabled:  getEnv("REMINDER_ENABLED", "true") == "true",
		Interval: reminderInterval,
		Window:   reminderWindow,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
