package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr       string // listen address (host:port)
	UploadDir  string // directory for uploaded shop logos
	SeedFile   string // optional YAML fixture file applied on boot
	CORSOrigin string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds Redis configuration for the task queue
type RedisConfig struct {
	Address string // Redis address (host:port)
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	return &Config{
		Server: ServerConfig{
			Addr:       getenv("LISTEN_ADDR", ":8080"),
			UploadDir:  getenv("UPLOAD_DIR", "uploads"),
			SeedFile:   os.Getenv("SEED_FILE"),
			CORSOrigin: getenv("CORS_ORIGIN", "http://localhost:5173"),
		},
		Database: DatabaseConfig{
			URL: getenv("DATABASE_URL", "mallhub.sqlite"),
		},
		Redis: RedisConfig{
			Address: getenv("REDIS_ADDRESS", "localhost:6379"),
		},
		Logging: LoggingConfig{
			Level:  getenv("LOG_LEVEL", "info"),
			Format: getenv("LOG_FORMAT", "json"),
		},
	}, nil
}
