package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Token     TokenConfig
	Storage   StorageConfig
	Mail      MailConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// TokenConfig holds JWT signing settings
type TokenConfig struct {
	Secret         string
	Issuer         string
	ExpirationMins int
}

// StorageConfig holds image storage settings. Backend selects between the
// S3-compatible store and a local directory store for development.
type StorageConfig struct {
	Backend   string // "s3" or "local"
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
	PublicURL string
	LocalRoot string
}

// MailConfig holds registration confirmation mail settings. When SMTPEnabled
// is false, mail is sent through the Resend HTTP API.
type MailConfig struct {
	SMTPEnabled  bool
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPass     string
	FromEmail    string
	ResendAPIKey string
}

// RateLimitConfig holds public registration endpoint rate limit settings
type RateLimitConfig struct {
	Rate   int
	Burst  int
	Window time.Duration
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("SERVER_ENV", "development"),
			ReadTimeout:    getDurationEnv("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			AllowedOrigins: getSliceEnv("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      getEnv("DB_HOST", "localhost"),
			Port:      getEnv("DB_PORT", "8000"),
			Namespace: getEnv("DB_NAMESPACE", "festival"),
			Database:  getEnv("DB_DATABASE", "main"),
			User:      getEnv("DB_USER", "root"),
			Password:  getEnv("DB_PASSWORD", "root"),
		},
		Token: TokenConfig{
			Secret:         getEnv("TOKEN_SECRET", ""),
			Issuer:         getEnv("TOKEN_ISSUER", "api.kinovera.film"),
			ExpirationMins: getIntEnv("TOKEN_EXPIRATION_MINS", 720),
		},
		Storage: StorageConfig{
			Backend:   getEnv("STORAGE_BACKEND", "local"),
			Bucket:    getEnv("STORAGE_BUCKET", ""),
			Region:    getEnv("STORAGE_REGION", "us-east-1"),
			Endpoint:  getEnv("STORAGE_ENDPOINT", ""),
			AccessKey: getEnv("STORAGE_ACCESS_KEY", ""),
			SecretKey: getEnv("STORAGE_SECRET_KEY", ""),
			PublicURL: getEnv("STORAGE_PUBLIC_URL", "http://localhost:8080/uploads"),
			LocalRoot: getEnv("STORAGE_LOCAL_ROOT", "./uploads"),
		},
		Mail: MailConfig{
			SMTPEnabled:  getBoolEnv("MAIL_SMTP_ENABLED", false),
			SMTPHost:     getEnv("MAIL_SMTP_HOST", "localhost"),
			SMTPPort:     getEnv("MAIL_SMTP_PORT", "587"),
			SMTPUser:     getEnv("MAIL_SMTP_USER", ""),
			SMTPPass:     getEnv("MAIL_SMTP_PASS", ""),
			FromEmail:    getEnv("MAIL_FROM_EMAIL", "registrations@kinovera.film"),
			ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		},
		RateLimit: RateLimitConfig{
			Rate:   getIntEnv("RATE_LIMIT_RATE", 100),
			Burst:  getIntEnv("RATE_LIMIT_BURST", 20),
			Window: getDurationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
	}, nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks that all required configuration values are present and valid.
// It returns an error describing all validation failures, or nil if valid.
func (c *Config) Validate() error {
	var errs []error

	// Server validation
	if c.Server.Port == "" {
		errs = append(errs, errors.New("SERVER_PORT is required"))
	}
	if c.Server.Env != "development" && c.Server.Env != "production" && c.Server.Env != "test" {
		errs = append(errs, fmt.Errorf("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env))
	}
	if len(c.Server.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("CORS_ALLOWED_ORIGINS must have at least one origin"))
	}

	// Database validation
	if c.Database.Host == "" {
		errs = append(errs, errors.New("DB_HOST is required"))
	}
	if c.Database.Port == "" {
		errs = append(errs, errors.New("DB_PORT is required"))
	}
	if c.Database.Namespace == "" {
		errs = append(errs, errors.New("DB_NAMESPACE is required"))
	}
	if c.Database.Database == "" {
		errs = append(errs, errors.New("DB_DATABASE is required"))
	}

	// Token validation - critical for production
	if c.IsProduction() && c.Token.Secret == "" {
		errs = append(errs, errors.New("TOKEN_SECRET is required in production"))
	}
	if c.Token.ExpirationMins <= 0 {
		errs = append(errs, errors.New("TOKEN_EXPIRATION_MINS must be positive"))
	}

	// Storage validation
	switch c.Storage.Backend {
	case "s3":
		if c.Storage.Bucket == "" {
			errs = append(errs, errors.New("STORAGE_BUCKET is required when STORAGE_BACKEND is 's3'"))
		}
	case "local":
		if c.Storage.LocalRoot == "" {
			errs = append(errs, errors.New("STORAGE_LOCAL_ROOT is required when STORAGE_BACKEND is 'local'"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be 's3' or 'local', got '%s'", c.Storage.Backend))
	}

	// Mail validation
	if c.Mail.FromEmail == "" {
		errs = append(errs, errors.New("MAIL_FROM_EMAIL is required"))
	}
	if c.Mail.SMTPEnabled {
		if c.Mail.SMTPHost == "" {
			errs = append(errs, errors.New("MAIL_SMTP_HOST is required when MAIL_SMTP_ENABLED is true"))
		}
		if c.Mail.SMTPPort == "" {
			errs = append(errs, errors.New("MAIL_SMTP_PORT is required when MAIL_SMTP_ENABLED is true"))
		}
	} else if c.IsProduction() && c.Mail.ResendAPIKey == "" {
		errs = append(errs, errors.New("RESEND_API_KEY is required in production when SMTP is disabled"))
	}

	// Rate limit validation
	if c.RateLimit.Rate <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RATE must be positive"))
	}
	if c.RateLimit.Window <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_WINDOW must be positive"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
