package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Backend selects which storage adapter implementation the process uses.
type Backend string

const (
	BackendFile     Backend = "file"
	BackendDocstore Backend = "docstore"
)

type Config struct {
	Addr          string
	Backend       Backend
	DataDir       string
	DBPath        string
	LogLevel      slog.Level
	SessionCookie string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:          getString("PHOTOCAT_ADDR", ":8080"),
		Backend:       Backend(strings.ToLower(getString("PHOTOCAT_BACKEND", string(BackendFile)))),
		DataDir:       getString("PHOTOCAT_DATA_DIR", "data"),
		DBPath:        getString("PHOTOCAT_DB_PATH", "data/photocat.db"),
		LogLevel:      getLogLevel("PHOTOCAT_LOG_LEVEL", slog.LevelInfo),
		SessionCookie: getString("PHOTOCAT_SESSION_COOKIE", "photocat_session"),
	}

	switch cfg.Backend {
	case BackendFile, BackendDocstore:
	default:
		return nil, fmt.Errorf("PHOTOCAT_BACKEND must be %q or %q, got %q", BackendFile, BackendDocstore, cfg.Backend)
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getLogLevel(key string, fallback slog.Level) slog.Level {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	switch value {
	case "":
		return fallback
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}
