package cache

import (
	"context"
	"encoding/json"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
)

// Dashboard TTLs, matching how often each widget's upstream data changes.
const (
	TTLDashboard      = 2 * time.Minute
	TTLMealPlans      = 5 * time.Minute
	TTLWeeklyDistance = 10 * time.Minute
)

type envelope[T any] struct {
	Version  string    `json:"version"`
	StoredAt time.Time `json:"stored_at"`
	Data     T         `json:"data"`
}

// Cache is a TTL + version keyed read-through cache: compute once, reuse
// until stale. A hit requires an unexpired entry whose version matches;
// anything else invokes the producer (collapsed under singleflight) and
// overwrites. Store failures are best-effort: logged, then served from the
// producer.
type Cache[T any] struct {
	store Store
	log   *logger.Logger
	sf    singleflight.Group
	now   func() time.Time
}

func New[T any](store Store, log *logger.Logger) *Cache[T] {
	return &Cache[T]{
		store: store,
		log:   log.With("service", "WidgetCache"),
		now:   time.Now,
	}
}

// Fetch returns the cached value for key when fresh, otherwise produces and
// caches a new one. The second return reports whether the value came from
// cache.
func (c *Cache[T]) Fetch(ctx context.Context, key, version string, ttl time.Duration, producer func(context.Context) (T, error)) (T, bool, error) {
	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		c.log.Warn("cache read failed, falling through to producer", "key", key, "error", err)
	} else if ok {
		var env envelope[T]
		if jsonErr := json.Unmarshal(raw, &env); jsonErr != nil {
			c.log.Warn("cache entry corrupt, refetching", "key", key, "error", jsonErr)
		} else if env.Version == version && c.now().Before(env.StoredAt.Add(ttl)) {
			return env.Data, true, nil
		}
	}

	value, err, _ := c.sf.Do(key, func() (interface{}, error) {
		v, err := producer(ctx)
		if err != nil {
			return v, err
		}
		c.put(ctx, key, version, ttl, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return value.(T), false, nil
}

// Refresh bypasses any cached entry, reproduces the value and overwrites.
func (c *Cache[T]) Refresh(ctx context.Context, key, version string, ttl time.Duration, producer func(context.Context) (T, error)) (T, error) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.log.Warn("cache delete failed", "key", key, "error", err)
	}
	v, err := producer(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	c.put(ctx, key, version, ttl, v)
	return v, nil
}

// Invalidate drops the entry without producing a replacement.
func (c *Cache[T]) Invalidate(ctx context.Context, key string) {
	if err := c.store.Delete(ctx, key); err != nil {
		c.log.Warn("cache invalidate failed", "key", key, "error", err)
	}
}

func (c *Cache[T]) put(ctx context.Context, key, version string, ttl time.Duration, v T) {
	raw, err := json.Marshal(envelope[T]{Version: version, StoredAt: c.now(), Data: v})
	if err != nil {
		c.log.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, raw, ttl); err != nil {
		c.log.Warn("cache write failed", "key", key, "error", err)
	}
}
