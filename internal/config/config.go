package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/skanderbk/tartil/internal/constants"
)

// Config holds all application configuration
type Config struct {
	Port          string
	DBPath        string
	AudioOrigin   string
	ContentAPIURL string
	HTTPTimeout   time.Duration
	LogLevel      string
	LogFormat     string
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", constants.DefaultPort),
		DBPath:        getEnv("DB_PATH", constants.DefaultDBPath),
		AudioOrigin:   getEnv("AUDIO_ORIGIN", constants.DefaultAudioOrigin),
		ContentAPIURL: getEnv("CONTENT_API_URL", constants.DefaultContentAPIURL),
		HTTPTimeout:   getDurationEnv("HTTP_TIMEOUT", constants.DefaultHTTPTimeout),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}
}

// Validate validates the configuration and returns detailed errors
func (c *Config) Validate() error {
	var errors []string

	if c.Port == "" {
		errors = append(errors, "PORT cannot be empty")
	} else {
		port, err := strconv.Atoi(c.Port)
		if err != nil {
			errors = append(errors, fmt.Sprintf("PORT must be a valid number, got: %s", c.Port))
		} else if port < 1 || port > 65535 {
			errors = append(errors, fmt.Sprintf("PORT must be between 1 and 65535, got: %d", port))
		}
	}

	if c.DBPath == "" {
		errors = append(errors, "DB_PATH cannot be empty")
	}

	if c.AudioOrigin == "" {
		errors = append(errors, "AUDIO_ORIGIN cannot be empty")
	} else if u, err := url.Parse(c.AudioOrigin); err != nil || u.Scheme == "" {
		errors = append(errors, fmt.Sprintf("AUDIO_ORIGIN is not a valid URL: %s", c.AudioOrigin))
	}

	if c.ContentAPIURL == "" {
		errors = append(errors, "CONTENT_API_URL cannot be empty")
	} else if u, err := url.Parse(c.ContentAPIURL); err != nil || u.Scheme == "" {
		errors = append(errors, fmt.Sprintf("CONTENT_API_URL is not a valid URL: %s", c.ContentAPIURL))
	}

	if c.HTTPTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("HTTP_TIMEOUT must be positive, got: %s", c.HTTPTimeout))
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: debug, info, warn, error, got: %s", c.LogLevel))
	}

	validLogFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validLogFormats[c.LogFormat] {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: text, json, got: %s", c.LogFormat))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errors, "\n  - "))
	}

	return nil
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getDurationEnv retrieves a duration environment variable with a fallback default
func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
