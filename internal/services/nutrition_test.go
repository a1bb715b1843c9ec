package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/habiebr/fuel-score-backend/internal/platform/apierr"
	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/repos/testutil"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

func newTestNutritionService(t *testing.T) (NutritionService, *types.User) {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)

	svc := NewNutritionService(
		gdb,
		log,
		repos.NewFoodLogRepo(gdb, log),
		repos.NewProfileRepo(gdb, log),
		repos.NewTrainingActivityRepo(gdb, log),
		testLoc,
	)
	user := testutil.SeedUser(t, context.Background(), gdb, "runner@example.com")
	return svc, user
}

func TestLogFoodValidation(t *testing.T) {
	svc, user := newTestNutritionService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		items []FoodLogInput
	}{
		{"empty batch", nil},
		{"bad meal type", []FoodLogInput{{MealType: "brunch", FoodName: "toast"}}},
		{"missing food name", []FoodLogInput{{MealType: "breakfast"}}},
		{"negative macros", []FoodLogInput{{MealType: "lunch", FoodName: "rice", Calories: -100}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.LogFood(ctx, user.ID, tt.items)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ae *apierr.Error
			if !errors.As(err, &ae) || ae.Status != 400 {
				t.Errorf("expected 400 api error, got %v", err)
			}
		})
	}
}

func TestLogFoodAndReadBackByLocalDay(t *testing.T) {
	svc, user := newTestNutritionService(t)
	ctx := context.Background()

	// 23:30 local still belongs to March 6.
	lateNight := time.Date(2025, 3, 6, 23, 30, 0, 0, testLoc)
	_, err := svc.LogFood(ctx, user.ID, []FoodLogInput{{
		MealType: "snack",
		FoodName: "banana",
		Calories: 105,
		LoggedAt: lateNight,
	}})
	if err != nil {
		t.Fatalf("LogFood: %v", err)
	}

	logs, err := svc.GetFoodLogs(ctx, user.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("GetFoodLogs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("logs on 2025-03-06 = %d, want 1", len(logs))
	}

	next, err := svc.GetFoodLogs(ctx, user.ID, "2025-03-07")
	if err != nil {
		t.Fatalf("GetFoodLogs next day: %v", err)
	}
	if len(next) != 0 {
		t.Errorf("logs on 2025-03-07 = %d, want 0", len(next))
	}
}

func TestUpsertProfileValidatesAndReplaces(t *testing.T) {
	svc, user := newTestNutritionService(t)
	ctx := context.Background()

	if _, err := svc.UpsertProfile(ctx, user.ID, &types.UserProfile{Sex: "male", WeightKG: -1, HeightCM: 175}); err == nil {
		t.Error("expected error for negative weight")
	}
	if _, err := svc.UpsertProfile(ctx, user.ID, &types.UserProfile{Sex: "other", WeightKG: 70, HeightCM: 175}); err == nil {
		t.Error("expected error for unknown sex")
	}

	if _, err := svc.UpsertProfile(ctx, user.ID, &types.UserProfile{Age: 30, Sex: "Female", WeightKG: 60, HeightCM: 165}); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := svc.UpsertProfile(ctx, user.ID, &types.UserProfile{Age: 31, Sex: "female", WeightKG: 62, HeightCM: 165}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	profile, err := svc.GetProfile(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile.WeightKG != 62 {
		t.Errorf("weight after second upsert = %v, want 62", profile.WeightKG)
	}
}

func TestAddTrainingActivitiesValidatesDate(t *testing.T) {
	svc, user := newTestNutritionService(t)
	ctx := context.Background()

	_, err := svc.AddTrainingActivities(ctx, user.ID, []TrainingActivityInput{{
		Date:         "06-03-2025",
		ActivityType: "run",
	}})
	if err == nil {
		t.Fatal("expected error for malformed date")
	}

	activities, err := svc.AddTrainingActivities(ctx, user.ID, []TrainingActivityInput{{
		Date:            "2025-03-08",
		ActivityType:    "Long_Run",
		DurationMinutes: 120,
		DistanceKM:      24,
		Intensity:       "Moderate",
	}})
	if err != nil {
		t.Fatalf("AddTrainingActivities: %v", err)
	}
	if activities[0].ActivityType != "long_run" || activities[0].Intensity != "moderate" {
		t.Errorf("expected lowercased fields, got %q / %q", activities[0].ActivityType, activities[0].Intensity)
	}

	stored, err := svc.GetTrainingActivities(ctx, user.ID, "2025-03-08")
	if err != nil {
		t.Fatalf("GetTrainingActivities: %v", err)
	}
	if len(stored) != 1 {
		t.Errorf("stored activities = %d, want 1", len(stored))
	}
}
