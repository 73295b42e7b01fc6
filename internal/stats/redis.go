package stats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"catalog-go/internal/catalog"
)

// DefaultRedisPrefix namespaces every key the store touches.
const DefaultRedisPrefix = "catalog:"

// RedisStore keeps counters in Redis: two integer keys for visits and one
// hash per item class for clicks, so increments are atomic across replicas.
type RedisStore struct {
	rdb    *goredis.Client
	prefix string
}

var _ catalog.StatsStore = (*RedisStore)(nil)

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, addr string, db int, prefix string) (*RedisStore, error) {
	if addr == "" {
		return nil, fmt.Errorf("redis stats store requires redis_addr to be set")
	}
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DB:          db,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb, prefix: prefix}, nil
}

func (r *RedisStore) totalKey() string  { return r.prefix + "visits:total" }
func (r *RedisStore) uniqueKey() string { return r.prefix + "visits:unique" }
func (r *RedisStore) clicksKey(class catalog.ItemClass) string {
	return r.prefix + "clicks:" + string(class)
}

func (r *RedisStore) LoadStats(ctx context.Context) (catalog.Stats, error) {
	st := catalog.NewStats()

	vals, err := r.rdb.MGet(ctx, r.totalKey(), r.uniqueKey()).Result()
	if err != nil {
		return catalog.Stats{}, fmt.Errorf("reading visits: %w", err)
	}
	counts := make([]int64, len(vals))
	for i, v := range vals {
		if s, ok := v.(string); ok {
			if counts[i], err = strconv.ParseInt(s, 10, 64); err != nil {
				return catalog.Stats{}, fmt.Errorf("parsing visit counter: %w", err)
			}
		}
	}
	st.TotalVisits, st.UniqueVisitors = counts[0], counts[1]

	for _, class := range []catalog.ItemClass{catalog.ClassTopic, catalog.ClassLesson, catalog.ClassPart} {
		fields, err := r.rdb.HGetAll(ctx, r.clicksKey(class)).Result()
		if err != nil {
			return catalog.Stats{}, fmt.Errorf("reading %s clicks: %w", class, err)
		}
		for id, s := range fields {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return catalog.Stats{}, fmt.Errorf("parsing click counter %s/%s: %w", class, id, err)
			}
			st.Clicks[class][id] = n
		}
	}
	return st, nil
}

func (r *RedisStore) AddVisit(ctx context.Context, unique bool) error {
	_, err := r.rdb.TxPipelined(ctx, func(p goredis.Pipeliner) error {
		p.Incr(ctx, r.totalKey())
		if unique {
			p.Incr(ctx, r.uniqueKey())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

func (r *RedisStore) AddClick(ctx context.Context, class catalog.ItemClass, id string) error {
	if err := r.rdb.HIncrBy(ctx, r.clicksKey(class), id, 1).Err(); err != nil {
		return fmt.Errorf("recording click: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error { return r.rdb.Close() }
