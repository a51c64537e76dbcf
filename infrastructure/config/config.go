// Package config loads application configuration from environment
// variables with development-friendly defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string
	// WriteTimeoutSeconds bounds response writes. AI endpoints block on
	// upstream model calls, so the default sits well above typical APIs.
	WriteTimeoutSeconds int

	// AWS configuration
	AWSRegion      string
	DynamoDBTable  string
	EmailIndexName string // GSI for email lookups
	OwnerIndexName string // GSI for owner-scoped queries
	EventBusName   string

	// Lambda configuration
	IsLambda bool

	// AI collaborator
	OpenAIAPIKey    string
	OpenAIChatModel string

	// Storage backend: "dynamodb" or "memory" (local development)
	StorageBackend string

	// Logging
	LogLevel string

	// Feature flags
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress:       getEnv("SERVER_ADDRESS", ":10000"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		WriteTimeoutSeconds: getEnvInt("SERVER_WRITE_TIMEOUT", 60),

		AWSRegion:      getEnv("AWS_REGION", "us-west-2"),
		DynamoDBTable:  getEnv("TABLE_NAME", "ideavine"),
		EmailIndexName: getEnv("EMAIL_INDEX_NAME", "EmailIndex"),
		OwnerIndexName: getEnv("OWNER_INDEX_NAME", "OwnerIndex"),
		EventBusName:   getEnv("EVENT_BUS_NAME", "ideavine-events"),

		IsLambda: getEnvBool("IS_LAMBDA", false) || os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",

		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIChatModel: getEnv("OPENAI_CHAT_MODEL", "gpt-4o-mini"),

		StorageBackend: getEnv("STORAGE_BACKEND", "dynamodb"),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.StorageBackend != "dynamodb" && c.StorageBackend != "memory" {
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.WriteTimeoutSeconds <= 0 {
		return fmt.Errorf("SERVER_WRITE_TIMEOUT must be positive")
	}
	if c.Environment == "production" {
		if c.DynamoDBTable == "" {
			return fmt.Errorf("TABLE_NAME is required in production")
		}
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required in production")
		}
	}
	return nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvInt gets an integer environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed
	}
	return defaultValue
}
