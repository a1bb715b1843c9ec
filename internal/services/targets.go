package services

import (
	"github.com/habiebr/fuel-score-backend/internal/score"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

// Fallback body metrics when no profile row exists yet. Typical recreational
// runner; close enough for a first score, replaced as soon as the profile is
// saved.
const (
	defaultWeightKG = 70.0
	defaultHeightCM = 170.0
	defaultAge      = 30
)

// energyFactor maps training load to a TDEE activity multiplier.
var energyFactor = map[score.TrainingLoad]float64{
	score.LoadRest:     1.4,
	score.LoadEasy:     1.6,
	score.LoadModerate: 1.8,
	score.LoadLong:     2.1,
	score.LoadQuality:  1.9,
}

// carbsPerKG follows sports-nutrition periodization: carbs scale with the
// day's demand, protein stays near-constant.
var carbsPerKG = map[score.TrainingLoad]float64{
	score.LoadRest:     3.5,
	score.LoadEasy:     5.0,
	score.LoadModerate: 6.0,
	score.LoadLong:     8.0,
	score.LoadQuality:  7.0,
}

var proteinPerKG = map[score.TrainingLoad]float64{
	score.LoadRest:     1.6,
	score.LoadEasy:     1.7,
	score.LoadModerate: 1.8,
	score.LoadLong:     1.9,
	score.LoadQuality:  1.9,
}

// synthesizeTargets builds daily macro targets from body metrics and the
// day's training load. Used whenever no meal plan exists for the date.
func synthesizeTargets(profile *types.UserProfile, load score.TrainingLoad) score.Macros {
	weight, height, age := defaultWeightKG, defaultHeightCM, defaultAge
	sex := "male"
	if profile != nil {
		if profile.WeightKG > 0 {
			weight = profile.WeightKG
		}
		if profile.HeightCM > 0 {
			height = profile.HeightCM
		}
		if profile.Age > 0 {
			age = profile.Age
		}
		if profile.Sex != "" {
			sex = profile.Sex
		}
	}

	// Mifflin-St Jeor resting rate, scaled by the load's activity factor.
	bmr := 10*weight + 6.25*height - 5*float64(age) + 5
	if sex == "female" {
		bmr = 10*weight + 6.25*height - 5*float64(age) - 161
	}
	calories := bmr * energyFactor[load]

	carbs := carbsPerKG[load] * weight
	protein := proteinPerKG[load] * weight

	// Fat takes the remaining energy, floored at 0.8 g/kg.
	fatCalories := calories - carbs*4 - protein*4
	fat := fatCalories / 9
	if minFat := 0.8 * weight; fat < minFat {
		fat = minFat
	}

	return score.Macros{
		Calories:     calories,
		ProteinGrams: protein,
		CarbsGrams:   carbs,
		FatGrams:     fat,
	}
}

// fuelingWindows scales the exercise-adjacent sub-targets from body weight.
// During-exercise carbs only matter past 75 minutes of work.
func fuelingWindows(profile *types.UserProfile, load score.TrainingLoad) score.FuelingWindows {
	weight := defaultWeightKG
	if profile != nil && profile.WeightKG > 0 {
		weight = profile.WeightKG
	}
	fw := score.FuelingWindows{
		PreCarbsGrams:    1.0 * weight,
		PostCarbsGrams:   1.0 * weight,
		PostProteinGrams: 0.3 * weight,
		MinFatGrams:      0.5 * weight,
	}
	if load == score.LoadLong {
		fw.DuringCarbsPerHour = 45
	}
	return fw
}
