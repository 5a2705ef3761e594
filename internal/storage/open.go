package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"clipmark/internal/config"
)

// Open builds the adapter selected by cfg.Storage.Backend.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (Adapter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage: config is required")
	}
	opts = append([]Option{WithMaxValueBytes(cfg.Storage.MaxValueBytes)}, opts...)

	switch cfg.Storage.Backend {
	case "memory":
		return NewMemory(opts...), nil
	case "file", "":
		return NewFile(filepath.Join(cfg.Paths.DataDir, "videos"), opts...)
	case "sqlite":
		return OpenSQLite(filepath.Join(cfg.Paths.DataDir, "clipmark.db"), opts...)
	case "redis":
		return OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Storage.RedisAddr,
			Password: cfg.Storage.RedisPassword,
			DB:       cfg.Storage.RedisDB,
		}, opts...)
	default:
		return nil, fmt.Errorf("storage: unsupported backend %q", cfg.Storage.Backend)
	}
}
