package bootstrap

import (
	"os"
	"strconv"
)

// Config carries everything the process reads from its environment.
type Config struct {
	ServerAddr string

	GeminiAPIKey string
	GeminiHost   string

	LogLevel string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func LoadConfig() *Config {
	return &Config{
		ServerAddr:    getEnv("SERVER_ADDR", ":8080"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiHost:    getEnv("GEMINI_HOST", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		DatabaseDSN:   getEnv("DATABASE_DSN", ""),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}
