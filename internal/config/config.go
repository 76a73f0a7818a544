package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	DB struct {
		Driver string
		DSN    string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host   string
		Port   string
		Origin string
	}

	Snapshot struct {
		Dir string
	}
}

func New() *Config {
	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "development")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "skillswap")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Database. The embedded in-memory store is the default; durability comes
	// from the snapshot layer, not a SQLite file. Deployments that outgrow the
	// embedded store set DB_DRIVER=mysql and point DB_DSN at a server.
	cfg.DB.Driver = getEnvDefault("DB_DRIVER", "sqlite")
	switch cfg.DB.Driver {
	case "mysql":
		cfg.DB.DSN = getEnvDefault("DB_DSN", "root:root@tcp(localhost:3306)/skillswap?parseTime=true&charset=utf8mb4&loc=UTC")
	default:
		cfg.DB.DSN = getEnvDefault("DB_DSN", ":memory:")
	}

	// Redis (optional pending-request counter cache)
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	// HTTP API consumed by the SPA
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "127.0.0.1")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8080")
	cfg.HTTP.Origin = getEnvDefault("HTTP_ORIGIN", "*")

	// Snapshot storage
	cfg.Snapshot.Dir = getEnvDefault("SNAPSHOT_DIR", "data")

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
