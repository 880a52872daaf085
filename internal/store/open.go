package store

import (
	"context"
	"fmt"
	"time"

	"student-records/internal/config"
	"student-records/internal/db"
	"student-records/internal/migrations"
)

// Open builds the backend selected by cfg.StoreBackend.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMemory:
		return NewSeededMemory()
	case config.BackendFile:
		return OpenFile(cfg.StudentsFile, time.Duration(cfg.FlushIntervalSeconds)*time.Second)
	case config.BackendPostgres:
		database, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := migrations.Apply(ctx, database, cfg.MigrationsDir); err != nil {
			_ = database.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		return NewPostgres(database), nil
	case config.BackendRedis:
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
