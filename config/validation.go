package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ConfigRequirements defines required configuration for each environment
type ConfigRequirements struct {
	RequiredFields  []string
	RequiredSecrets []string
	AllowedDrivers  []string
}

var requirements = map[Environment]ConfigRequirements{
	Development: {
		RequiredFields: []string{"SERVER_PORT", "JWT_SECRET"},
		AllowedDrivers: []string{"postgres", "sqlite"},
	},
	Test: {
		RequiredFields: []string{"SERVER_PORT", "JWT_SECRET"},
		AllowedDrivers: []string{"postgres", "sqlite"},
	},
	CI: {
		RequiredFields: []string{"SERVER_PORT", "DB_HOST", "DB_PASSWORD", "JWT_SECRET"},
		AllowedDrivers: []string{"postgres", "sqlite"},
	},
	Production: {
		RequiredFields:  []string{"SERVER_PORT", "DB_HOST", "DB_NAME", "DB_PASSWORD", "JWT_SECRET"},
		RequiredSecrets: []string{"db_password", "jwt_secret"},
		AllowedDrivers:  []string{"postgres"},
	},
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	env := cfg.Environment
	if env == "" {
		env = GetEnvironment()
	}
	reqs := requirements[env]

	var errs []string

	fields := map[string]string{
		"SERVER_PORT": cfg.ServerPort,
		"DB_HOST":     cfg.DBHost,
		"DB_NAME":     cfg.DBName,
		"DB_PASSWORD": cfg.DBPassword,
		"JWT_SECRET":  cfg.JWTSecret,
	}
	for _, name := range reqs.RequiredFields {
		if fields[name] == "" {
			errs = append(errs, ValidationError{Field: name, Message: "is required"}.Error())
		}
	}

	for _, secret := range reqs.RequiredSecrets {
		if readSecret(secret) == "" {
			errs = append(errs, ValidationError{Field: secret, Message: "secret is not set"}.Error())
		}
	}

	if !contains(reqs.AllowedDrivers, cfg.DBDriver) {
		errs = append(errs, ValidationError{
			Field:   "DB_DRIVER",
			Message: fmt.Sprintf("%q not allowed in %s (allowed: %s)", cfg.DBDriver, env, strings.Join(reqs.AllowedDrivers, ", ")),
		}.Error())
	}

	if _, err := time.LoadLocation(cfg.TimeZone); err != nil {
		errs = append(errs, ValidationError{Field: "TIME_ZONE", Message: err.Error()}.Error())
	}

	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		errs = append(errs, ValidationError{Field: "TOKEN_TTL", Message: "token lifetimes must be positive"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
