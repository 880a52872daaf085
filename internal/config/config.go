package config

import (
	"os"
	"strconv"
	"strings"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds runtime configuration loaded from environment variables.
type Config struct {
	Port                 string
	StoreBackend         string
	DatabaseURL          string
	MigrationsDir        string
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	StudentsFile         string
	LocationsFile        string
	FlushIntervalSeconds int
	HealthDiskPath       string
	CorsOrigins          []string
	LogDir               string
	LogRetentionDays     int
}

func Load() Config {
	cfg := Config{
		Port:                 envOr("PORT", "8080"),
		StoreBackend:         strings.ToLower(envOr("STORE_BACKEND", BackendFile)),
		MigrationsDir:        envOr("MIGRATIONS_DIR", "migrations"),
		RedisAddr:            envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:        envOr("REDIS_PASSWORD", ""),
		RedisDB:              envOrInt("REDIS_DB", 0),
		StudentsFile:         envOr("STUDENTS_FILE", "students.json"),
		LocationsFile:        envOr("LOCATIONS_FILE", "locations.csv"),
		FlushIntervalSeconds: envOrInt("FLUSH_INTERVAL_SECONDS", 0),
		HealthDiskPath:       envOr("HEALTH_DISK_PATH", "."),
		CorsOrigins:          parseCSV(envOr("CORS_ORIGINS", "")),
		LogDir:               envOr("LOG_DIR", "storage/logs"),
		LogRetentionDays:     clamp(envOrInt("LOG_RETENTION_DAYS", 7), 1, 7),
	}
	if cfg.StoreBackend == BackendPostgres {
		cfg.DatabaseURL = mustEnv("DATABASE_URL")
	}
	if cfg.FlushIntervalSeconds < 0 {
		cfg.FlushIntervalSeconds = 0
	}
	return cfg
}

func mustEnv(key string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		panic("missing env var: " + key)
	}
	return value
}

func envOr(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func envOrInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func clamp(value, low, high int) int {
	if value < low {
		return low
	}
	if value > high {
		return high
	}
	return value
}

func parseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, part := range parts {
		value := strings.TrimSpace(part)
		if value != "" {
			items = append(items, value)
		}
	}
	return items
}
