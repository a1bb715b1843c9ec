package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/habiebr/fuel-score-backend/internal/platform/envutil"
	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
)

// NewClient connects to Redis from REDIS_ADDR. The widget cache falls back
// to its in-memory store when this returns an error.
func NewClient(log *logger.Logger) (*goredis.Client, error) {
	addr := envutil.String("REDIS_ADDR", "")
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    envutil.String("REDIS_PASSWORD", ""),
		DB:          envutil.Int("REDIS_DB", 0),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.With("service", "RedisClient").Info("redis connected", "addr", addr)
	return rdb, nil
}
