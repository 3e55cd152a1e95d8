package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Parse loads configuration from a .env file (when present) and the
// environment. Storage connections are established by the app wiring, not
// here; Parse only resolves the raw values.
func Parse(l *slog.Logger) {
	if err := godotenv.Load(); err == nil {
		l.Debug("Loaded configuration from .env file")
	}

	if envBT := os.Getenv(EnvBotToken); envBT != "" {
		l.Debug("Found bot token in environment", slog.String("key", EnvBotToken))
		BotToken = envBT
	}

	if envAppId := os.Getenv(EnvApplicationId); envAppId != "" {
		l.Debug("Found application ID in environment", slog.String("key", EnvApplicationId))
		ApplicationId = envAppId
	}

	if envMongoUri := os.Getenv(EnvMongoUri); envMongoUri != "" {
		l.Debug("Found MongoDB URI in environment", slog.String("key", EnvMongoUri))
		MongoUri = envMongoUri
	}

	if envMongoUriFile := os.Getenv(EnvMongoUriFile); envMongoUriFile != "" {
		l.Debug("Found MongoDB URI file in environment", slog.String("key", EnvMongoUriFile))
		MongoUriFile = envMongoUriFile
	}

	if envDBFile := os.Getenv(EnvDBFile); envDBFile != "" {
		l.Debug("Found database file in environment", slog.String("key", EnvDBFile))
		DBFile = envDBFile
	}

	if envMonitoringPort := os.Getenv(EnvMonitoringPort); envMonitoringPort != "" {
		l.Debug("Found monitoring port in environment", slog.String("key", EnvMonitoringPort))
		MonitoringPort = envMonitoringPort
	} else {
		// Default to 8080 if not provided.
		MonitoringPort = "8080"

		l.Info("No monitoring port provided in environment, defaulting to 8080", slog.String("key", EnvMonitoringPort))
	}
}
