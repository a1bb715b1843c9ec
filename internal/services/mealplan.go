package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/habiebr/fuel-score-backend/internal/clients/ai"
	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/score"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

// mealShare splits the daily target across the four meal slots.
var mealShare = []struct {
	MealType string
	Share    float64
}{
	{"breakfast", 0.25},
	{"lunch", 0.30},
	{"dinner", 0.30},
	{"snack", 0.15},
}

// MealSuggestion is one generated meal idea stored on a plan row.
type MealSuggestion struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Foods       []string `json:"foods,omitempty"`
}

type MealPlanService interface {
	GetMealPlan(ctx context.Context, userID uuid.UUID, date string) ([]*types.MealPlan, error)
	// GenerateMealPlan builds macro targets for the date from the user's
	// profile and training load, asks the model for meal ideas, and upserts
	// one plan row per meal slot. Model failures degrade to stock
	// suggestions rather than failing the request.
	GenerateMealPlan(ctx context.Context, userID uuid.UUID, date string) ([]*types.MealPlan, error)
}

type mealPlanService struct {
	db           *gorm.DB
	log          *logger.Logger
	mealPlanRepo repos.MealPlanRepo
	profileRepo  repos.ProfileRepo
	trainingRepo repos.TrainingActivityRepo
	aiClient     ai.Client
}

func NewMealPlanService(
	db *gorm.DB,
	log *logger.Logger,
	mealPlanRepo repos.MealPlanRepo,
	profileRepo repos.ProfileRepo,
	trainingRepo repos.TrainingActivityRepo,
	aiClient ai.Client,
) MealPlanService {
	return &mealPlanService{
		db:           db,
		log:          log.With("service", "MealPlanService"),
		mealPlanRepo: mealPlanRepo,
		profileRepo:  profileRepo,
		trainingRepo: trainingRepo,
		aiClient:     aiClient,
	}
}

func (ms *mealPlanService) GetMealPlan(ctx context.Context, userID uuid.UUID, date string) ([]*types.MealPlan, error) {
	return ms.mealPlanRepo.GetByUserDate(ctx, nil, userID, date)
}

func (ms *mealPlanService) GenerateMealPlan(ctx context.Context, userID uuid.UUID, date string) ([]*types.MealPlan, error) {
	profile, err := ms.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		profile = nil
	}
	activities, err := ms.trainingRepo.GetByUserDate(ctx, nil, userID, date)
	if err != nil {
		return nil, fmt.Errorf("load training activities: %w", err)
	}

	load := score.ClassifyLoad(plannedActivities(activities), 0)
	daily := synthesizeTargets(profile, load)

	suggestions := ms.generateSuggestions(ctx, profile, load, daily)

	now := time.Now()
	plans := make([]*types.MealPlan, 0, len(mealShare))
	for _, slot := range mealShare {
		var raw datatypes.JSON
		if s, ok := suggestions[slot.MealType]; ok {
			if b, mErr := json.Marshal(s); mErr == nil {
				raw = b
			}
		}
		plans = append(plans, &types.MealPlan{
			ID:           uuid.New(),
			UserID:       userID,
			Date:         date,
			MealType:     slot.MealType,
			Calories:     round5(daily.Calories * slot.Share),
			ProteinGrams: round5(daily.ProteinGrams * slot.Share),
			CarbsGrams:   round5(daily.CarbsGrams * slot.Share),
			FatGrams:     round5(daily.FatGrams * slot.Share),
			Suggestions:  raw,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	if err := ms.mealPlanRepo.UpsertMany(ctx, nil, plans); err != nil {
		return nil, fmt.Errorf("store meal plan: %w", err)
	}
	ms.log.Info("meal plan generated", "user_id", userID.String(), "date", date, "load", string(load))
	return plans, nil
}

// generateSuggestions asks the model for per-slot meal ideas. Any failure
// returns the stock runner suggestions.
func (ms *mealPlanService) generateSuggestions(ctx context.Context, profile *types.UserProfile, load score.TrainingLoad, daily score.Macros) map[string][]MealSuggestion {
	if ms.aiClient == nil {
		return stockSuggestions(load)
	}

	weight := defaultWeightKG
	if profile != nil && profile.WeightKG > 0 {
		weight = profile.WeightKG
	}
	system := "You are a sports nutritionist for distance runners. Respond with JSON only: " +
		`an object keyed by meal type ("breakfast","lunch","dinner","snack"), each an array of ` +
		`{"name","description","foods"} objects with 2 suggestions per meal.`
	user := fmt.Sprintf(
		"Runner, %.0f kg, training load %s. Daily targets: %.0f kcal, %.0f g carbs, %.0f g protein, %.0f g fat. Suggest Indonesian-friendly meals.",
		weight, load, daily.Calories, daily.CarbsGrams, daily.ProteinGrams, daily.FatGrams)

	raw, err := ms.aiClient.GenerateJSON(ctx, system, user)
	if err != nil {
		ms.log.Warn("meal suggestion generation failed, using stock suggestions", "error", err)
		return stockSuggestions(load)
	}

	var parsed map[string][]MealSuggestion
	if err := json.Unmarshal(raw, &parsed); err != nil || len(parsed) == 0 {
		ms.log.Warn("meal suggestion response unusable, using stock suggestions", "error", err)
		return stockSuggestions(load)
	}
	return parsed
}

func stockSuggestions(load score.TrainingLoad) map[string][]MealSuggestion {
	base := map[string][]MealSuggestion{
		"breakfast": {
			{Name: "Oatmeal with banana", Foods: []string{"rolled oats", "banana", "honey", "milk"}},
			{Name: "Nasi uduk with egg", Foods: []string{"coconut rice", "boiled egg", "fried shallots"}},
		},
		"lunch": {
			{Name: "Chicken rice bowl", Foods: []string{"steamed rice", "grilled chicken", "mixed vegetables"}},
			{Name: "Gado-gado", Foods: []string{"steamed vegetables", "tofu", "tempeh", "peanut sauce"}},
		},
		"dinner": {
			{Name: "Grilled fish with sweet potato", Foods: []string{"grilled fish", "sweet potato", "greens"}},
			{Name: "Soto ayam", Foods: []string{"chicken soup", "rice", "bean sprouts"}},
		},
		"snack": {
			{Name: "Fruit and yogurt", Foods: []string{"papaya", "yogurt"}},
			{Name: "Peanut butter toast", Foods: []string{"whole-grain bread", "peanut butter"}},
		},
	}
	if load.Hard() {
		base["snack"] = append(base["snack"],
			MealSuggestion{Name: "Rice cakes with jam", Description: "extra carbs for a hard day", Foods: []string{"rice cakes", "jam"}})
	}
	return base
}

func round5(v float64) float64 {
	return float64(int(v/5+0.5)) * 5
}
