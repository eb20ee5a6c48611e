package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Recipe extraction service (external edge function)
	ExtractorURL string

	// Credits charged per AI recipe scan
	ScanCreditCost int
}

// LoadConfig creates a new Config instance from environment variables,
// falling back to Docker secrets and then to development defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:     getValue("SERVER_PORT", "8080"),
		ServerHost:     getValue("SERVER_HOST", "0.0.0.0"),
		DBHost:         getValue("DB_HOST", "localhost"),
		DBPort:         getValue("DB_PORT", "5432"),
		DBUser:         getValue("DB_USER", "postgres"),
		DBPassword:     getValue("DB_PASSWORD", "postgres"),
		DBName:         getValue("DB_NAME", "forkful"),
		DBSSLMode:      getValue("DB_SSL_MODE", "disable"),
		RedisURL:       getValue("REDIS_URL", "redis://localhost:6379"),
		RedisPassword:  getValue("REDIS_PASSWORD", ""),
		RedisDB:        0,
		JWTSecret:      getValue("JWT_SECRET", "your-secret-key"),
		ExtractorURL:   getValue("EXTRACTOR_URL", ""),
		ScanCreditCost: 1,
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// getValue reads an environment variable, then the matching Docker secret,
// then falls back to the given default.
func getValue(envVar, fallback string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	if v := readSecret(strings.ToLower(envVar)); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
