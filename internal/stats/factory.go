package stats

import (
	"context"
	"fmt"

	"catalog-go/internal/catalog"
	"catalog-go/internal/config"
	"catalog-go/internal/database"
)

// NewStatsStoreFromConfig creates a StatsStore based on the stats config type.
// The returned close function releases any connection the store holds.
func NewStatsStoreFromConfig(ctx context.Context, cfg config.StatsConfig) (catalog.StatsStore, func() error, error) {
	switch cfg.Type {
	case "memory", "":
		return NewMemoryStore(), func() error { return nil }, nil
	case "redis":
		s, err := NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "sqlite":
		s, err := database.OpenDataDir(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown stats type: %s", cfg.Type)
	}
}
