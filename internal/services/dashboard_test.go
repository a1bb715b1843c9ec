package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/habiebr/fuel-score-backend/internal/cache"
	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/repos/testutil"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

// countingScoreService wraps fixed results and counts invocations so cache
// behavior is observable.
type countingScoreService struct {
	dailyCalls  int
	weeklyCalls int
}

func (c *countingScoreService) GetDailyScore(ctx context.Context, userID uuid.UUID, date string) (*DailyScoreResult, error) {
	c.dailyCalls++
	return &DailyScoreResult{Date: date, Score: 85, Load: "easy"}, nil
}

func (c *countingScoreService) GetTodayScore(ctx context.Context, userID uuid.UUID) (*DailyScoreResult, error) {
	return c.GetDailyScore(ctx, userID, "2025-03-06")
}

func (c *countingScoreService) GetWeeklyScore(ctx context.Context, userID uuid.UUID) (*WeeklyScoreResult, error) {
	c.weeklyCalls++
	return &WeeklyScoreResult{WeekStart: "2025-03-03", Average: 85, DaysWithData: 4}, nil
}

func (c *countingScoreService) GetMealScores(ctx context.Context, userID uuid.UUID, date string) (*MealScoresResult, error) {
	return &MealScoresResult{Date: date}, nil
}

func TestDashboardServesFromCacheUntilInvalidated(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	scorer := &countingScoreService{}

	svc := NewDashboardService(
		log,
		cache.NewMemoryStore(),
		scorer,
		repos.NewMealPlanRepo(gdb, log),
		repos.NewGoogleFitRepo(gdb, log),
		testLoc,
	).(*dashboardService)
	svc.now = func() time.Time { return time.Date(2025, 3, 6, 12, 0, 0, 0, testLoc) }

	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, gdb, "runner@example.com")

	first, cached, err := svc.GetDashboard(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("first GetDashboard: %v", err)
	}
	if cached {
		t.Error("first call reported a cache hit")
	}
	if first.Today.Score != 85 {
		t.Errorf("score = %d, want 85", first.Today.Score)
	}

	_, cached, err = svc.GetDashboard(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("second GetDashboard: %v", err)
	}
	if !cached {
		t.Error("second call missed the cache")
	}
	if scorer.dailyCalls != 1 {
		t.Errorf("daily score computed %d times, want 1", scorer.dailyCalls)
	}

	svc.InvalidateUser(ctx, user.ID)
	_, cached, err = svc.GetDashboard(ctx, user.ID, false)
	if err != nil {
		t.Fatalf("post-invalidate GetDashboard: %v", err)
	}
	if cached {
		t.Error("expected a miss after invalidation")
	}
	if scorer.dailyCalls != 2 {
		t.Errorf("daily score computed %d times after invalidation, want 2", scorer.dailyCalls)
	}
}

func TestDashboardRefreshBypassesCache(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	scorer := &countingScoreService{}

	svc := NewDashboardService(
		log,
		cache.NewMemoryStore(),
		scorer,
		repos.NewMealPlanRepo(gdb, log),
		repos.NewGoogleFitRepo(gdb, log),
		testLoc,
	).(*dashboardService)
	svc.now = func() time.Time { return time.Date(2025, 3, 6, 12, 0, 0, 0, testLoc) }

	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, gdb, "runner@example.com")

	if _, _, err := svc.GetDashboard(ctx, user.ID, false); err != nil {
		t.Fatalf("warm cache: %v", err)
	}
	if _, _, err := svc.GetDashboard(ctx, user.ID, true); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if scorer.dailyCalls != 2 {
		t.Errorf("daily score computed %d times, want 2 (refresh must recompute)", scorer.dailyCalls)
	}
}

func TestWeeklyDistanceSumsSyncedDays(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)

	fitRepo := repos.NewGoogleFitRepo(gdb, log)
	svc := NewDashboardService(
		log,
		cache.NewMemoryStore(),
		&countingScoreService{},
		repos.NewMealPlanRepo(gdb, log),
		fitRepo,
		testLoc,
	).(*dashboardService)
	svc.now = func() time.Time { return time.Date(2025, 3, 6, 12, 0, 0, 0, testLoc) }

	ctx := context.Background()
	user := testutil.SeedUser(t, ctx, gdb, "runner@example.com")

	days := []struct {
		date   string
		meters float64
	}{
		{"2025-03-03", 8000},
		{"2025-03-05", 12000},
		{"2025-03-06", 0}, // rest day, excluded from Days
	}
	for _, d := range days {
		err := fitRepo.Upsert(ctx, nil, &types.GoogleFitData{
			UserID:         user.ID,
			Date:           d.date,
			DistanceMeters: d.meters,
		})
		if err != nil {
			t.Fatalf("seed fit day %s: %v", d.date, err)
		}
	}

	distance, _, err := svc.GetWeeklyDistance(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetWeeklyDistance: %v", err)
	}
	if distance.WeekStart != "2025-03-03" {
		t.Errorf("week start = %q, want 2025-03-03", distance.WeekStart)
	}
	if distance.DistanceKM != 20 {
		t.Errorf("distance = %v km, want 20", distance.DistanceKM)
	}
	if distance.Days != 2 {
		t.Errorf("active days = %d, want 2", distance.Days)
	}
}
