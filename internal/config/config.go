package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	DB struct {
		Host     string
		Port     string
		User     string
		Password string
		Name     string
		SSLMode  string
	}

	Storage struct {
		Type string
	}

	Server struct {
		Port     string
		GinMode  string
		LogLevel string
	}

	Auth struct {
		JWTSecret string
		JWTIssuer string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	RateLimit struct {
		Writes int
		Window time.Duration
	}

	CORS struct {
		AllowOrigins string
		AllowMethods string
		AllowHeaders string
	}
}

// Load loads configuration from environment variables
func Load() *Config {
	_ = godotenv.Load()

	config := &Config{}

	config.DB.Host = getEnv("DB_HOST", "localhost")
	config.DB.Port = getEnv("DB_PORT", "5432")
	config.DB.User = getEnv("DB_USER", "orbitview")
	config.DB.Password = getEnv("DB_PASSWORD", "orbitview_password")
	config.DB.Name = getEnv("DB_NAME", "orbitview_db")
	config.DB.SSLMode = getEnv("DB_SSLMODE", "disable")

	config.Storage.Type = getEnv("STORAGE_TYPE", "postgres")

	config.Server.Port = getEnv("PORT", "8080")
	config.Server.GinMode = getEnv("GIN_MODE", "debug")
	config.Server.LogLevel = getEnv("LOG_LEVEL", "info")

	config.Auth.JWTSecret = getEnv("JWT_SECRET", "")
	config.Auth.JWTIssuer = getEnv("JWT_ISSUER", "")

	config.Redis.Addr = getEnv("REDIS_ADDR", "")
	config.Redis.Password = getEnv("REDIS_PASSWORD", "")
	config.Redis.DB = int(getEnvAsInt64("REDIS_DB", 0))

	config.RateLimit.Writes = int(getEnvAsInt64("RATE_LIMIT_WRITES", 60))
	config.RateLimit.Window = getEnvAsDuration("RATE_LIMIT_WINDOW", time.Minute)

	config.CORS.AllowOrigins = getEnv("CORS_ALLOW_ORIGINS", "*")
	config.CORS.AllowMethods = getEnv("CORS_ALLOW_METHODS", "GET,POST,PUT,PATCH,DELETE,HEAD,OPTIONS")
	config.CORS.AllowHeaders = getEnv("CORS_ALLOW_HEADERS", "Origin,Content-Length,Content-Type,Authorization")

	return config
}

// GetDatabaseURL returns the database connection URL
func (c *Config) GetDatabaseURL() string {
	return "postgres://" + c.DB.User + ":" + c.DB.Password + "@" + c.DB.Host + ":" + c.DB.Port + "/" + c.DB.Name + "?sslmode=" + c.DB.SSLMode
}

// IsProduction reports whether gin runs in release mode
func (c *Config) IsProduction() bool {
	return c.Server.GinMode == "release"
}

// SplitList splits a comma separated setting such as CORS_ALLOW_ORIGINS
func SplitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt64 gets an environment variable as int64 or returns a default value
func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsDuration parses values like "30s" or "1m"
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
