package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
)

type bundle struct {
	Score int `json:"score"`
}

func newTestCache(t *testing.T) (*Cache[bundle], *MemoryStore, *time.Time) {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	store := NewMemoryStore()
	c := New[bundle](store, log)

	now := time.Now()
	clock := &now
	c.now = func() time.Time { return *clock }
	store.now = func() time.Time { return *clock }
	return c, store, clock
}

func TestFetchCachesWithinTTL(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	producer := func(context.Context) (bundle, error) {
		calls++
		return bundle{Score: 80 + calls}, nil
	}

	v, cached, err := c.Fetch(ctx, "dash:u1", "v1", TTLDashboard, producer)
	if err != nil || cached || v.Score != 81 {
		t.Fatalf("first fetch: v=%+v cached=%v err=%v", v, cached, err)
	}

	v, cached, err = c.Fetch(ctx, "dash:u1", "v1", TTLDashboard, producer)
	if err != nil || !cached || v.Score != 81 {
		t.Fatalf("second fetch: v=%+v cached=%v err=%v", v, cached, err)
	}
	if calls != 1 {
		t.Fatalf("producer called %d times, want 1", calls)
	}
}

func TestFetchExpiryTriggersProducer(t *testing.T) {
	c, _, clock := newTestCache(t)
	ctx := context.Background()

	calls := 0
	producer := func(context.Context) (bundle, error) {
		calls++
		return bundle{Score: calls}, nil
	}

	if _, _, err := c.Fetch(ctx, "k", "v1", 2*time.Minute, producer); err != nil {
		t.Fatal(err)
	}
	*clock = clock.Add(2*time.Minute + time.Second)

	v, cached, err := c.Fetch(ctx, "k", "v1", 2*time.Minute, producer)
	if err != nil || cached {
		t.Fatalf("expired fetch: cached=%v err=%v", cached, err)
	}
	if calls != 2 || v.Score != 2 {
		t.Fatalf("producer called %d times, v=%+v; want refetch", calls, v)
	}
}

func TestFetchVersionMismatchTriggersProducer(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	producer := func(context.Context) (bundle, error) {
		calls++
		return bundle{Score: calls}, nil
	}

	if _, _, err := c.Fetch(ctx, "k", "v1", time.Hour, producer); err != nil {
		t.Fatal(err)
	}
	v, cached, err := c.Fetch(ctx, "k", "v2", time.Hour, producer)
	if err != nil || cached {
		t.Fatalf("version mismatch: cached=%v err=%v", cached, err)
	}
	if calls != 2 {
		t.Fatalf("producer called %d times, want 2", calls)
	}

	// New version is now the cached one.
	if _, cached, _ := c.Fetch(ctx, "k", "v2", time.Hour, producer); !cached {
		t.Fatal("expected overwrite to be served from cache")
	}
	_ = v
}

func TestRefreshBypassesCache(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	calls := 0
	producer := func(context.Context) (bundle, error) {
		calls++
		return bundle{Score: calls}, nil
	}

	if _, _, err := c.Fetch(ctx, "k", "v1", time.Hour, producer); err != nil {
		t.Fatal(err)
	}
	v, err := c.Refresh(ctx, "k", "v1", time.Hour, producer)
	if err != nil || v.Score != 2 {
		t.Fatalf("refresh: v=%+v err=%v", v, err)
	}
	if calls != 2 {
		t.Fatalf("producer called %d times, want 2", calls)
	}
}

func TestFetchProducerErrorNotCached(t *testing.T) {
	c, _, _ := newTestCache(t)
	ctx := context.Background()

	boom := errors.New("upstream down")
	calls := 0
	producer := func(context.Context) (bundle, error) {
		calls++
		if calls == 1 {
			return bundle{}, boom
		}
		return bundle{Score: 42}, nil
	}

	if _, _, err := c.Fetch(ctx, "k", "v1", time.Hour, producer); !errors.Is(err, boom) {
		t.Fatalf("want producer error, got %v", err)
	}
	v, cached, err := c.Fetch(ctx, "k", "v1", time.Hour, producer)
	if err != nil || cached || v.Score != 42 {
		t.Fatalf("retry after error: v=%+v cached=%v err=%v", v, cached, err)
	}
}
