package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/habiebr/fuel-score-backend/internal/types"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Email:    email,
		Password: "pw",
		FullName: "Test Runner",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, weightKG float64) *types.UserProfile {
	tb.Helper()
	p := &types.UserProfile{
		ID:       uuid.New(),
		UserID:   userID,
		Age:      32,
		Sex:      "male",
		WeightKG: weightKG,
		HeightCM: 175,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed profile: %v", err)
	}
	return p
}

func SeedMealPlan(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, date, mealType string, calories, protein, carbs, fat float64) *types.MealPlan {
	tb.Helper()
	mp := &types.MealPlan{
		ID:           uuid.New(),
		UserID:       userID,
		Date:         date,
		MealType:     mealType,
		Calories:     calories,
		ProteinGrams: protein,
		CarbsGrams:   carbs,
		FatGrams:     fat,
	}
	if err := tx.WithContext(ctx).Create(mp).Error; err != nil {
		tb.Fatalf("seed meal plan: %v", err)
	}
	return mp
}

func SeedFoodLog(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, loggedAt time.Time, mealType string, calories, protein, carbs, fat float64) *types.FoodLog {
	tb.Helper()
	fl := &types.FoodLog{
		ID:           uuid.New(),
		UserID:       userID,
		LoggedAt:     loggedAt,
		MealType:     mealType,
		FoodName:     "test food",
		Calories:     calories,
		ProteinGrams: protein,
		CarbsGrams:   carbs,
		FatGrams:     fat,
	}
	if err := tx.WithContext(ctx).Create(fl).Error; err != nil {
		tb.Fatalf("seed food log: %v", err)
	}
	return fl
}

func SeedScore(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, date string, score int) *types.NutritionScore {
	tb.Helper()
	ns := &types.NutritionScore{
		ID:         uuid.New(),
		UserID:     userID,
		Date:       date,
		DailyScore: score,
	}
	if err := tx.WithContext(ctx).Create(ns).Error; err != nil {
		tb.Fatalf("seed score: %v", err)
	}
	return ns
}
