package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	GinMode        string
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	JWTSecret      string
	TokenTTL       time.Duration
	RefreshWindow  time.Duration
	AllowedOrigins string
}

// Load reads configuration from the environment. A .env file is loaded
// first if present; real environment variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "tracker"),
		DBPassword:     getEnv("DB_PASSWORD", "tracker"),
		DBName:         getEnv("DB_NAME", "project_tracker"),
		JWTSecret:      getEnv("JWT_SECRET", "default-secret-key-change-me"),
		TokenTTL:       getDurationHours("TOKEN_TTL_HOURS", 168),
		RefreshWindow:  getDurationHours("TOKEN_REFRESH_WINDOW_HOURS", 24),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173"),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getDurationHours(key string, defaultHours int) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(defaultHours) * time.Hour
	}
	hours, err := strconv.Atoi(value)
	if err != nil || hours <= 0 {
		return time.Duration(defaultHours) * time.Hour
	}
	return time.Duration(hours) * time.Hour
}
