package config

import (
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	Redis   RedisConfig
	Library LibraryConfig
	Export  ExportConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LibraryConfig points at the rulebook data corpus
type LibraryConfig struct {
	DataDir string
}

// ExportConfig holds character sheet export settings
type ExportConfig struct {
	OutputDir   string
	PDFTemplate string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Redis: RedisConfig{
			Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
		},
		Library: LibraryConfig{
			DataDir: getEnvOrDefault("TOONFORGE_DATA_DIR", "data"),
		},
		Export: ExportConfig{
			OutputDir:   getEnvOrDefault("TOONFORGE_OUTPUT_DIR", "characters"),
			PDFTemplate: getEnvOrDefault("TOONFORGE_PDF_TEMPLATE", "templates/5E_CharacterSheet_Fillable.pdf"),
		},
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
