package stats

import (
	"context"
	"testing"

	"catalog-go/internal/config"
	"catalog-go/internal/database"
)

func TestNewStatsStoreFromConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, closeFn, err := NewStatsStoreFromConfig(ctx, config.StatsConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		defer closeFn()
		if _, ok := s.(*MemoryStore); !ok {
			t.Errorf("got %T, want *MemoryStore", s)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		s, closeFn, err := NewStatsStoreFromConfig(ctx, config.StatsConfig{Type: "sqlite", DataDir: t.TempDir()})
		if err != nil {
			t.Fatalf("error = %v", err)
		}
		defer closeFn()
		if _, ok := s.(*database.SQLiteStore); !ok {
			t.Errorf("got %T, want *database.SQLiteStore", s)
		}
	})

	t.Run("sqlite without data dir", func(t *testing.T) {
		if _, _, err := NewStatsStoreFromConfig(ctx, config.StatsConfig{Type: "sqlite"}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("redis without address", func(t *testing.T) {
		if _, _, err := NewStatsStoreFromConfig(ctx, config.StatsConfig{Type: "redis"}); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("redis unreachable", func(t *testing.T) {
		if _, _, err := NewStatsStoreFromConfig(ctx, config.StatsConfig{Type: "redis", RedisAddr: "127.0.0.1:1"}); err == nil {
			t.Fatal("expected ping error")
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, _, err := NewStatsStoreFromConfig(ctx, config.StatsConfig{Type: "kafka"}); err == nil {
			t.Fatal("expected error")
		}
	})
}
