package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/habiebr/fuel-score-backend/internal/cache"
	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

// dashboardVersion invalidates every cached widget payload when the shape
// or semantics of the payload change. Bump on breaking changes.
const dashboardVersion = "v1"

// Dashboard is the single-call payload behind the app's home screen.
type Dashboard struct {
	Date     string             `json:"date"`
	Today    *DailyScoreResult  `json:"today"`
	Weekly   *WeeklyScoreResult `json:"weekly"`
	MealPlan []*types.MealPlan  `json:"meal_plan"`
}

// WeeklyDistance is the running-distance widget: synced wearable kilometers
// from Monday through today.
type WeeklyDistance struct {
	WeekStart  string  `json:"week_start"`
	DistanceKM float64 `json:"distance_km"`
	Days       int     `json:"days"`
}

type DashboardService interface {
	// GetDashboard returns the cached home payload. The bool reports a
	// cache hit. refresh forces recomputation.
	GetDashboard(ctx context.Context, userID uuid.UUID, refresh bool) (*Dashboard, bool, error)
	GetWeeklyDistance(ctx context.Context, userID uuid.UUID) (*WeeklyDistance, bool, error)
	// InvalidateUser drops a user's cached widgets, called after writes
	// that change what the widgets show (food logs, plan generation, sync).
	InvalidateUser(ctx context.Context, userID uuid.UUID)
}

type dashboardService struct {
	log           *logger.Logger
	scoreService  ScoreService
	mealPlanRepo  repos.MealPlanRepo
	fitRepo       repos.GoogleFitRepo
	dashCache     *cache.Cache[*Dashboard]
	distanceCache *cache.Cache[*WeeklyDistance]
	loc           *time.Location
	now           func() time.Time
}

func NewDashboardService(
	log *logger.Logger,
	store cache.Store,
	scoreService ScoreService,
	mealPlanRepo repos.MealPlanRepo,
	fitRepo repos.GoogleFitRepo,
	loc *time.Location,
) DashboardService {
	serviceLog := log.With("service", "DashboardService")
	return &dashboardService{
		log:           serviceLog,
		scoreService:  scoreService,
		mealPlanRepo:  mealPlanRepo,
		fitRepo:       fitRepo,
		dashCache:     cache.New[*Dashboard](store, serviceLog),
		distanceCache: cache.New[*WeeklyDistance](store, serviceLog),
		loc:           loc,
		now:           time.Now,
	}
}

func (ds *dashboardService) GetDashboard(ctx context.Context, userID uuid.UUID, refresh bool) (*Dashboard, bool, error) {
	date := ds.now().In(ds.loc).Format(dateLayout)
	key := dashboardKey(userID, date)
	producer := func(pctx context.Context) (*Dashboard, error) {
		return ds.buildDashboard(pctx, userID, date)
	}

	if refresh {
		d, err := ds.dashCache.Refresh(ctx, key, dashboardVersion, cache.TTLDashboard, producer)
		return d, false, err
	}
	return ds.dashCache.Fetch(ctx, key, dashboardVersion, cache.TTLDashboard, producer)
}

func (ds *dashboardService) buildDashboard(ctx context.Context, userID uuid.UUID, date string) (*Dashboard, error) {
	today, err := ds.scoreService.GetDailyScore(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	weekly, err := ds.scoreService.GetWeeklyScore(ctx, userID)
	if err != nil {
		return nil, err
	}
	plans, err := ds.mealPlanRepo.GetByUserDate(ctx, nil, userID, date)
	if err != nil {
		return nil, fmt.Errorf("load meal plan: %w", err)
	}
	return &Dashboard{
		Date:     date,
		Today:    today,
		Weekly:   weekly,
		MealPlan: plans,
	}, nil
}

func (ds *dashboardService) GetWeeklyDistance(ctx context.Context, userID uuid.UUID) (*WeeklyDistance, bool, error) {
	today := ds.now().In(ds.loc)
	weekStart := mondayOf(today)
	key := fmt.Sprintf("widget:distance:%s:%s", userID, weekStart.Format(dateLayout))

	return ds.distanceCache.Fetch(ctx, key, dashboardVersion, cache.TTLWeeklyDistance, func(pctx context.Context) (*WeeklyDistance, error) {
		rows, err := ds.fitRepo.GetByUserDateRange(pctx, nil, userID,
			weekStart.Format(dateLayout), today.Format(dateLayout))
		if err != nil {
			return nil, fmt.Errorf("load wearable days: %w", err)
		}
		out := &WeeklyDistance{WeekStart: weekStart.Format(dateLayout)}
		for _, r := range rows {
			if r.DistanceMeters <= 0 {
				continue
			}
			out.DistanceKM += r.DistanceMeters / 1000
			out.Days++
		}
		return out, nil
	})
}

func (ds *dashboardService) InvalidateUser(ctx context.Context, userID uuid.UUID) {
	today := ds.now().In(ds.loc)
	ds.dashCache.Invalidate(ctx, dashboardKey(userID, today.Format(dateLayout)))
	ds.distanceCache.Invalidate(ctx, fmt.Sprintf("widget:distance:%s:%s", userID, mondayOf(today).Format(dateLayout)))
}

func dashboardKey(userID uuid.UUID, date string) string {
	return fmt.Sprintf("widget:dashboard:%s:%s", userID, date)
}
