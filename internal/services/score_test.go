package services

import (
	"context"
	"testing"
	"time"

	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/repos/testutil"
	"github.com/habiebr/fuel-score-backend/internal/score"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

var testLoc = time.FixedZone("WIB", 7*3600)

func newTestScoreService(t *testing.T, now time.Time) (*scoreService, *types.User) {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)

	svc := NewScoreService(
		gdb,
		log,
		repos.NewProfileRepo(gdb, log),
		repos.NewMealPlanRepo(gdb, log),
		repos.NewFoodLogRepo(gdb, log),
		repos.NewTrainingActivityRepo(gdb, log),
		repos.NewGoogleFitRepo(gdb, log),
		repos.NewNutritionScoreRepo(gdb, log),
		score.DefaultWeights(),
		testLoc,
	).(*scoreService)
	svc.now = func() time.Time { return now }

	user := testutil.SeedUser(t, context.Background(), gdb, "runner@example.com")
	return svc, user
}

func TestDailyScoreNoDataIsCapped(t *testing.T) {
	now := time.Date(2025, 3, 6, 12, 0, 0, 0, testLoc)
	svc, user := newTestScoreService(t, now)
	ctx := context.Background()

	result, err := svc.GetDailyScore(ctx, user.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("GetDailyScore: %v", err)
	}
	if result.HasPlan {
		t.Error("expected HasPlan=false with no meal plan")
	}
	if result.Score > 20 {
		t.Errorf("no-data score = %d, want <= 20", result.Score)
	}
	if !result.Persisted {
		t.Error("expected score to be persisted")
	}

	row, err := svc.scoreRepo.GetByUserDate(ctx, nil, user.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("read persisted score: %v", err)
	}
	if row.DailyScore != result.Score {
		t.Errorf("persisted score = %d, want %d", row.DailyScore, result.Score)
	}
}

func TestDailyScoreFullAdherenceRestDay(t *testing.T) {
	now := time.Date(2025, 3, 6, 20, 0, 0, 0, testLoc)
	svc, user := newTestScoreService(t, now)
	ctx := context.Background()
	gdb := svc.db

	testutil.SeedMealPlan(t, ctx, gdb, user.ID, "2025-03-06", "breakfast", 500, 25, 60, 15)
	testutil.SeedMealPlan(t, ctx, gdb, user.ID, "2025-03-06", "dinner", 700, 35, 80, 20)
	loggedAt := time.Date(2025, 3, 6, 8, 0, 0, 0, testLoc)
	testutil.SeedFoodLog(t, ctx, gdb, user.ID, loggedAt, "breakfast", 500, 25, 60, 15)
	testutil.SeedFoodLog(t, ctx, gdb, user.ID, loggedAt.Add(11*time.Hour), "dinner", 700, 35, 80, 20)

	result, err := svc.GetDailyScore(ctx, user.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("GetDailyScore: %v", err)
	}
	if !result.HasPlan {
		t.Error("expected HasPlan=true")
	}
	if result.Load != "rest" {
		t.Errorf("load = %q, want rest", result.Load)
	}
	if result.Score < 95 {
		t.Errorf("full-adherence rest day score = %d, want >= 95", result.Score)
	}
	if result.MealsLogged != 2 {
		t.Errorf("meals logged = %d, want 2", result.MealsLogged)
	}
}

func TestDailyScoreUpsertIdempotent(t *testing.T) {
	now := time.Date(2025, 3, 6, 12, 0, 0, 0, testLoc)
	svc, user := newTestScoreService(t, now)
	ctx := context.Background()

	if _, err := svc.GetDailyScore(ctx, user.ID, "2025-03-06"); err != nil {
		t.Fatalf("first GetDailyScore: %v", err)
	}
	if _, err := svc.GetDailyScore(ctx, user.ID, "2025-03-06"); err != nil {
		t.Fatalf("second GetDailyScore: %v", err)
	}

	var count int64
	if err := svc.db.Model(&types.NutritionScore{}).
		Where("user_id = ? AND date = ?", user.ID, "2025-03-06").
		Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("score rows for (user, date) = %d, want 1", count)
	}
}

func TestDailyScoreClassifiesLongRun(t *testing.T) {
	now := time.Date(2025, 3, 8, 18, 0, 0, 0, testLoc)
	svc, user := newTestScoreService(t, now)
	ctx := context.Background()

	trainingRepo := repos.NewTrainingActivityRepo(svc.db, testutil.Logger(t))
	err := trainingRepo.Create(ctx, nil, []*types.TrainingActivity{{
		UserID:          user.ID,
		Date:            "2025-03-08",
		ActivityType:    "long_run",
		DurationMinutes: 110,
		DistanceKM:      22,
		Intensity:       "moderate",
	}})
	if err != nil {
		t.Fatalf("seed training activity: %v", err)
	}

	result, err := svc.GetDailyScore(ctx, user.ID, "2025-03-08")
	if err != nil {
		t.Fatalf("GetDailyScore: %v", err)
	}
	if result.Load != "long" {
		t.Errorf("load = %q, want long (22 km planned)", result.Load)
	}
}

func TestDuringWindowAppliesWhenSnackPlanned(t *testing.T) {
	now := time.Date(2025, 3, 6, 20, 0, 0, 0, testLoc)
	svc, user := newTestScoreService(t, now)
	ctx := context.Background()
	gdb := svc.db

	trainingRepo := repos.NewTrainingActivityRepo(gdb, testutil.Logger(t))
	err := trainingRepo.Create(ctx, nil, []*types.TrainingActivity{{
		UserID:          user.ID,
		Date:            "2025-03-06",
		ActivityType:    "run",
		DurationMinutes: 60,
		DistanceKM:      10,
		Intensity:       "moderate",
	}})
	if err != nil {
		t.Fatalf("seed training activity: %v", err)
	}
	testutil.SeedMealPlan(t, ctx, gdb, user.ID, "2025-03-06", "lunch", 700, 35, 85, 20)
	testutil.SeedMealPlan(t, ctx, gdb, user.ID, "2025-03-06", "snack", 200, 5, 35, 5)

	sctx, _, err := svc.buildContext(ctx, user.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("buildContext: %v", err)
	}
	if sctx.Load != score.LoadModerate {
		t.Fatalf("load = %q, want moderate", sctx.Load)
	}
	if !sctx.Windows.During.Applicable {
		t.Error("snack planned on a 60-min moderate day: during window should be applicable")
	}
	if sctx.Windows.During.Met {
		t.Error("during window met with no snack logged")
	}

	testutil.SeedFoodLog(t, ctx, gdb, user.ID, time.Date(2025, 3, 6, 10, 0, 0, 0, testLoc), "snack", 200, 5, 35, 5)
	sctx, _, err = svc.buildContext(ctx, user.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("buildContext after snack log: %v", err)
	}
	if !sctx.Windows.During.Met {
		t.Error("during window not met after the planned snack was logged")
	}
}

func TestDuringWindowInapplicableWithoutSnackOrLongLoad(t *testing.T) {
	now := time.Date(2025, 3, 6, 20, 0, 0, 0, testLoc)
	svc, user := newTestScoreService(t, now)
	ctx := context.Background()
	gdb := svc.db

	trainingRepo := repos.NewTrainingActivityRepo(gdb, testutil.Logger(t))
	err := trainingRepo.Create(ctx, nil, []*types.TrainingActivity{{
		UserID:          user.ID,
		Date:            "2025-03-06",
		ActivityType:    "run",
		DurationMinutes: 60,
		DistanceKM:      10,
		Intensity:       "moderate",
	}})
	if err != nil {
		t.Fatalf("seed training activity: %v", err)
	}
	testutil.SeedMealPlan(t, ctx, gdb, user.ID, "2025-03-06", "lunch", 700, 35, 85, 20)

	sctx, _, err := svc.buildContext(ctx, user.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("buildContext: %v", err)
	}
	if sctx.Windows.During.Applicable {
		t.Error("during window applicable on a moderate day with no snack planned")
	}
	if !sctx.Windows.Pre.Applicable || !sctx.Windows.Post.Applicable {
		t.Error("pre/post windows should still apply on a planned training day")
	}
}

func TestWeeklyScoreAveragesOnlyScoredDays(t *testing.T) {
	// Thursday; the week started Monday 2025-03-03.
	now := time.Date(2025, 3, 6, 20, 0, 0, 0, testLoc)
	svc, user := newTestScoreService(t, now)
	ctx := context.Background()
	gdb := svc.db

	testutil.SeedScore(t, ctx, gdb, user.ID, "2025-03-03", 80)
	testutil.SeedScore(t, ctx, gdb, user.ID, "2025-03-04", 0)
	testutil.SeedScore(t, ctx, gdb, user.ID, "2025-03-05", 90)

	// Today scores 100: rest day with a fully-followed plan.
	testutil.SeedMealPlan(t, ctx, gdb, user.ID, "2025-03-06", "lunch", 800, 40, 100, 25)
	testutil.SeedFoodLog(t, ctx, gdb, user.ID, time.Date(2025, 3, 6, 12, 30, 0, 0, testLoc), "lunch", 800, 40, 100, 25)

	result, err := svc.GetWeeklyScore(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetWeeklyScore: %v", err)
	}
	if result.WeekStart != "2025-03-03" {
		t.Errorf("week start = %q, want 2025-03-03", result.WeekStart)
	}
	if result.DaysWithData != 3 {
		t.Errorf("days with data = %d, want 3 (zero day excluded)", result.DaysWithData)
	}
	// (80 + 90 + 100) / 3
	if result.Average != 90 {
		t.Errorf("average = %d, want 90", result.Average)
	}
	if len(result.Daily) != 4 {
		t.Errorf("daily rows = %d, want 4", len(result.Daily))
	}
}

func TestMealScoresAveragesPlannedMeals(t *testing.T) {
	now := time.Date(2025, 3, 6, 20, 0, 0, 0, testLoc)
	svc, user := newTestScoreService(t, now)
	ctx := context.Background()
	gdb := svc.db

	testutil.SeedMealPlan(t, ctx, gdb, user.ID, "2025-03-06", "breakfast", 500, 25, 60, 15)
	testutil.SeedMealPlan(t, ctx, gdb, user.ID, "2025-03-06", "lunch", 700, 35, 85, 20)
	testutil.SeedFoodLog(t, ctx, gdb, user.ID, time.Date(2025, 3, 6, 7, 30, 0, 0, testLoc), "breakfast", 500, 25, 60, 15)

	result, err := svc.GetMealScores(ctx, user.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("GetMealScores: %v", err)
	}
	if len(result.Meals) != 2 {
		t.Fatalf("meal scores = %d, want 2", len(result.Meals))
	}

	byType := map[string]score.MealScore{}
	for _, m := range result.Meals {
		byType[m.MealType] = m
	}
	if s := byType["breakfast"].Score; s != 100 {
		t.Errorf("breakfast score = %d, want 100", s)
	}
	if byType["breakfast"].Rating != score.RatingExcellent {
		t.Errorf("breakfast rating = %q, want %q", byType["breakfast"].Rating, score.RatingExcellent)
	}
	if s := byType["lunch"].Score; s != 0 {
		t.Errorf("unlogged lunch score = %d, want 0", s)
	}
	if result.DayScore != 50 {
		t.Errorf("day score = %d, want 50", result.DayScore)
	}
}

func TestStreakDaysCountsConsecutiveScoredDays(t *testing.T) {
	dayStart := time.Date(2025, 3, 10, 0, 0, 0, 0, testLoc)
	rows := []*types.NutritionScore{
		{Date: "2025-03-09", DailyScore: 75},
		{Date: "2025-03-08", DailyScore: 62},
		{Date: "2025-03-07", DailyScore: 40}, // breaks the streak
		{Date: "2025-03-06", DailyScore: 90},
	}
	if got := streakDays(rows, dayStart); got != 2 {
		t.Errorf("streakDays = %d, want 2", got)
	}
	if got := streakDays(nil, dayStart); got != 0 {
		t.Errorf("streakDays with no history = %d, want 0", got)
	}
}
