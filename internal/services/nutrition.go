package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/habiebr/fuel-score-backend/internal/platform/apierr"
	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

var validMealTypes = map[string]bool{
	"breakfast": true,
	"lunch":     true,
	"dinner":    true,
	"snack":     true,
}

// FoodLogInput is one item to record.
type FoodLogInput struct {
	MealType     string    `json:"meal_type"`
	FoodName     string    `json:"food_name"`
	ServingSize  string    `json:"serving_size"`
	Calories     float64   `json:"calories"`
	ProteinGrams float64   `json:"protein_grams"`
	CarbsGrams   float64   `json:"carbs_grams"`
	FatGrams     float64   `json:"fat_grams"`
	LoggedAt     time.Time `json:"logged_at"`
}

// TrainingActivityInput is one planned session for the calendar.
type TrainingActivityInput struct {
	Date              string  `json:"date"`
	ActivityType      string  `json:"activity_type"`
	DurationMinutes   int     `json:"duration_minutes"`
	DistanceKM        float64 `json:"distance_km"`
	Intensity         string  `json:"intensity"`
	EstimatedCalories float64 `json:"estimated_calories"`
}

type NutritionService interface {
	LogFood(ctx context.Context, userID uuid.UUID, items []FoodLogInput) ([]*types.FoodLog, error)
	GetFoodLogs(ctx context.Context, userID uuid.UUID, date string) ([]*types.FoodLog, error)

	GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)
	UpsertProfile(ctx context.Context, userID uuid.UUID, profile *types.UserProfile) (*types.UserProfile, error)

	AddTrainingActivities(ctx context.Context, userID uuid.UUID, items []TrainingActivityInput) ([]*types.TrainingActivity, error)
	GetTrainingActivities(ctx context.Context, userID uuid.UUID, date string) ([]*types.TrainingActivity, error)
}

type nutritionService struct {
	db           *gorm.DB
	log          *logger.Logger
	foodLogRepo  repos.FoodLogRepo
	profileRepo  repos.ProfileRepo
	trainingRepo repos.TrainingActivityRepo
	loc          *time.Location
	now          func() time.Time
}

func NewNutritionService(
	db *gorm.DB,
	log *logger.Logger,
	foodLogRepo repos.FoodLogRepo,
	profileRepo repos.ProfileRepo,
	trainingRepo repos.TrainingActivityRepo,
	loc *time.Location,
) NutritionService {
	return &nutritionService{
		db:           db,
		log:          log.With("service", "NutritionService"),
		foodLogRepo:  foodLogRepo,
		profileRepo:  profileRepo,
		trainingRepo: trainingRepo,
		loc:          loc,
		now:          time.Now,
	}
}

func (ns *nutritionService) LogFood(ctx context.Context, userID uuid.UUID, items []FoodLogInput) ([]*types.FoodLog, error) {
	if len(items) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "empty_request", fmt.Errorf("no food items provided"))
	}

	logs := make([]*types.FoodLog, 0, len(items))
	for i, item := range items {
		mealType := strings.ToLower(strings.TrimSpace(item.MealType))
		if !validMealTypes[mealType] {
			return nil, apierr.New(http.StatusBadRequest, "invalid_meal_type",
				fmt.Errorf("item %d: meal_type must be breakfast, lunch, dinner or snack", i))
		}
		if strings.TrimSpace(item.FoodName) == "" {
			return nil, apierr.New(http.StatusBadRequest, "missing_food_name", fmt.Errorf("item %d: food_name is required", i))
		}
		if item.Calories < 0 || item.ProteinGrams < 0 || item.CarbsGrams < 0 || item.FatGrams < 0 {
			return nil, apierr.New(http.StatusBadRequest, "negative_macro", fmt.Errorf("item %d: macros must be non-negative", i))
		}

		loggedAt := item.LoggedAt
		if loggedAt.IsZero() {
			loggedAt = ns.now()
		}
		logs = append(logs, &types.FoodLog{
			ID:           uuid.New(),
			UserID:       userID,
			LoggedAt:     loggedAt.In(ns.loc),
			MealType:     mealType,
			FoodName:     strings.TrimSpace(item.FoodName),
			ServingSize:  strings.TrimSpace(item.ServingSize),
			Calories:     item.Calories,
			ProteinGrams: item.ProteinGrams,
			CarbsGrams:   item.CarbsGrams,
			FatGrams:     item.FatGrams,
		})
	}

	if err := ns.foodLogRepo.Create(ctx, nil, logs); err != nil {
		return nil, fmt.Errorf("store food logs: %w", err)
	}
	return logs, nil
}

func (ns *nutritionService) GetFoodLogs(ctx context.Context, userID uuid.UUID, date string) ([]*types.FoodLog, error) {
	dayStart, err := time.ParseInLocation(dateLayout, date, ns.loc)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_date", fmt.Errorf("invalid date %q: want YYYY-MM-DD", date))
	}
	return ns.foodLogRepo.GetByUserRange(ctx, nil, userID, dayStart, dayStart.AddDate(0, 0, 1))
}

func (ns *nutritionService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	profile, err := ns.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if profile == nil {
		return nil, apierr.New(http.StatusNotFound, "profile_not_found", fmt.Errorf("no profile for user"))
	}
	return profile, nil
}

func (ns *nutritionService) UpsertProfile(ctx context.Context, userID uuid.UUID, profile *types.UserProfile) (*types.UserProfile, error) {
	if profile.WeightKG <= 0 || profile.WeightKG > 300 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_weight", fmt.Errorf("weight_kg out of range"))
	}
	if profile.HeightCM <= 0 || profile.HeightCM > 250 {
		return nil, apierr.New(http.StatusBadRequest, "invalid_height", fmt.Errorf("height_cm out of range"))
	}
	sex := strings.ToLower(strings.TrimSpace(profile.Sex))
	if sex != "male" && sex != "female" {
		return nil, apierr.New(http.StatusBadRequest, "invalid_sex", fmt.Errorf("sex must be male or female"))
	}

	profile.ID = uuid.New()
	profile.UserID = userID
	profile.Sex = sex
	if err := ns.profileRepo.Upsert(ctx, nil, profile); err != nil {
		return nil, fmt.Errorf("store profile: %w", err)
	}
	return profile, nil
}

func (ns *nutritionService) AddTrainingActivities(ctx context.Context, userID uuid.UUID, items []TrainingActivityInput) ([]*types.TrainingActivity, error) {
	if len(items) == 0 {
		return nil, apierr.New(http.StatusBadRequest, "empty_request", fmt.Errorf("no activities provided"))
	}

	activities := make([]*types.TrainingActivity, 0, len(items))
	for i, item := range items {
		if _, err := time.ParseInLocation(dateLayout, item.Date, ns.loc); err != nil {
			return nil, apierr.New(http.StatusBadRequest, "invalid_date", fmt.Errorf("item %d: invalid date %q", i, item.Date))
		}
		if strings.TrimSpace(item.ActivityType) == "" {
			return nil, apierr.New(http.StatusBadRequest, "missing_activity_type", fmt.Errorf("item %d: activity_type is required", i))
		}
		activities = append(activities, &types.TrainingActivity{
			ID:                uuid.New(),
			UserID:            userID,
			Date:              item.Date,
			ActivityType:      strings.ToLower(strings.TrimSpace(item.ActivityType)),
			DurationMinutes:   item.DurationMinutes,
			DistanceKM:        item.DistanceKM,
			Intensity:         strings.ToLower(strings.TrimSpace(item.Intensity)),
			EstimatedCalories: item.EstimatedCalories,
		})
	}

	if err := ns.trainingRepo.Create(ctx, nil, activities); err != nil {
		return nil, fmt.Errorf("store training activities: %w", err)
	}
	return activities, nil
}

func (ns *nutritionService) GetTrainingActivities(ctx context.Context, userID uuid.UUID, date string) ([]*types.TrainingActivity, error) {
	return ns.trainingRepo.GetByUserDate(ctx, nil, userID, date)
}
