package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const defaultSessionSecret = "your-secret-key-change-in-production"

// Config holds process configuration loaded from the environment.
type Config struct {
	Port          string
	DBPath        string
	SessionSecret string
	LogLevel      string
	CORSOrigin    string
}

// Load reads configuration from .env (when present) and the environment.
func Load(logger *logrus.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.Debug(".env file not found, using environment variables")
	}

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DATABASE_PATH", "./data/league.db"),
		SessionSecret: getEnv("JWT_SECRET", defaultSessionSecret),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		CORSOrigin:    getEnv("CORS_ORIGIN", "*"),
	}

	if cfg.SessionSecret == defaultSessionSecret {
		logger.Warn("JWT_SECRET not set, using the insecure default")
	}

	logger.WithFields(logrus.Fields{
		"port":    cfg.Port,
		"db_path": cfg.DBPath,
	}).Info("configuration loaded")

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
