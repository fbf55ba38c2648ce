// Package config manages application configuration for the festival API.
//
// The config package loads and validates configuration from environment variables.
// All configuration is centralized here to provide a single source of truth.
//
// # Configuration Loading
//
// Configuration is loaded from environment variables:
//
//	cfg, err := config.Load()
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - TokenConfig: JWT signing and validation settings
//   - StorageConfig: image storage settings (S3 or local directory)
//   - MailConfig: registration confirmation mail settings
//   - RateLimitConfig: public registration endpoint rate limiting
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT       - HTTP server port (default: 8080)
//	DB_HOST           - SurrealDB host
//	DB_NAMESPACE      - Database namespace
//	DB_DATABASE       - Database name
//	TOKEN_SECRET      - JWT signing secret
//	STORAGE_BACKEND   - "s3" or "local"
//	RESEND_API_KEY    - Resend API key for confirmation mail
//
// # Default Values
//
// Sensible defaults are provided for development:
//
//	func getEnv(key, defaultValue string) string {
//	    if value := os.Getenv(key); value != "" {
//	        return value
//	    }
//	    return defaultValue
//	}
package config
