package config

import (
	"fmt"
	"strings"
)

// ValidateConfig checks that the configuration is usable in the current
// environment. Development and test get permissive defaults; production
// must not run with placeholder secrets.
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.DBHost == "" {
		errors = append(errors, "database host is required")
	}
	if cfg.DBName == "" {
		errors = append(errors, "database name is required")
	}
	if cfg.JWTSecret == "" {
		errors = append(errors, "JWT secret is required")
	}

	if IsProduction() {
		if cfg.JWTSecret == "your-secret-key" {
			errors = append(errors, "JWT_SECRET must be set explicitly in production")
		}
		if cfg.DBPassword == "postgres" {
			errors = append(errors, "DB_PASSWORD must be set explicitly in production")
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("%s", strings.Join(errors, "; "))
	}

	return nil
}
