package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds the configuration shared by all services.
// Values come from the environment, optionally seeded from a .env file.
type AppConfig struct {
	// Remote data store (row-filter REST backend)
	StoreURL     string
	StoreAPIKey  string
	StoreTimeout time.Duration

	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string

	// Session tokens
	JWTSecret          string
	JWTExpirationHours int

	// Local HTTP server
	Port string
}

// devJWTSecret signs tokens when JWT_SECRET is not set. Development only.
const devJWTSecret = "Zk1vNq4rT7wYpXsB9dFgJ2mQ5uH8cE3aL6oR0iS+vC1xW4yU7bN2kM9gD5fP8hT"

var (
	appConfig *AppConfig
	once      sync.Once
)

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *AppConfig {
	once.Do(func() {
		_ = godotenv.Load()

		appConfig = &AppConfig{
			StoreURL:     getEnv("STORE_URL", "http://127.0.0.1:54321"),
			StoreAPIKey:  getEnv("STORE_API_KEY", ""),
			StoreTimeout: time.Duration(getEnvInt("STORE_TIMEOUT_SECONDS", 10)) * time.Second,

			SMTPHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			SMTPPort:     getEnv("SMTP_PORT", "587"),
			SMTPUsername: getEnv("SMTP_USERNAME", ""),
			SMTPPassword: getEnv("SMTP_PASSWORD", ""),
			SMTPFrom:     getEnv("SMTP_FROM", "noreply@sigemarimon.com"),
			SMTPFromName: getEnv("SMTP_FROM_NAME", "SIGE Marimon"),

			JWTSecret:          getEnv("JWT_SECRET", devJWTSecret),
			JWTExpirationHours: getEnvInt("JWT_EXPIRATION_HOURS", 24),

			Port: getEnv("PORT", "8080"),
		}
	})
	return appConfig
}

// Get returns the loaded configuration
func Get() *AppConfig {
	return Load()
}

// Validate checks that required settings are present
func (c *AppConfig) Validate() error {
	if c.StoreURL == "" {
		return fmt.Errorf("STORE_URL is required")
	}
	if c.StoreAPIKey == "" {
		return fmt.Errorf("STORE_API_KEY is required")
	}
	return nil
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvInt gets integer environment variable with fallback
func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
