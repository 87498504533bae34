package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that every value a production deployment cannot run
// without is present. Development and test environments fall back to
// defaults instead.
func ValidateConfig(cfg *Config) error {
	var errs []string

	required := map[string]string{
		"SERVER_PORT":     cfg.ServerPort,
		"PUBLIC_BASE_URL": cfg.PublicBaseURL,
		"DB_HOST":         cfg.DBHost,
		"DB_PORT":         cfg.DBPort,
		"DB_USER":         cfg.DBUser,
		"DB_NAME":         cfg.DBName,
		"DB_SSL_MODE":     cfg.DBSSLMode,
	}
	for field, value := range required {
		if value == "" {
			errs = append(errs, fmt.Sprintf("required configuration %s is not set", field))
		}
	}

	// Sensitive values come from env or Docker secrets; no defaults apply.
	if cfg.DBPassword == "" {
		errs = append(errs, "DB_PASSWORD (or db_password secret) is required")
	}
	if cfg.JWTSecret == "" {
		errs = append(errs, "JWT_SECRET (or jwt_secret secret) is required")
	}
	if cfg.RedisURL == "" && (cfg.RedisHost == "" || cfg.RedisPort == "") {
		errs = append(errs, "REDIS_URL or REDIS_HOST/REDIS_PORT is required")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
