package score

import "math"

// MealTarget is a planned meal's macro targets.
type MealTarget struct {
	MealType string
	Targets  Macros
}

// MealActual is the summed logged macros for one meal type.
type MealActual struct {
	MealType string
	Actuals  Macros
	Items    int
}

// MealScore is the per-meal result surfaced to the UI. Not persisted and
// not folded into the daily total.
type MealScore struct {
	MealType string  `json:"meal_type"`
	Score    int     `json:"score"`
	Rating   string  `json:"rating"`
	Items    int     `json:"items"`
	Percents struct {
		Calories float64 `json:"calories"`
		Protein  float64 `json:"protein"`
		Carbs    float64 `json:"carbs"`
		Fat      float64 `json:"fat"`
	} `json:"percents"`
}

const (
	RatingExcellent        = "Excellent"
	RatingGood             = "Good"
	RatingFair             = "Fair"
	RatingNeedsImprovement = "Needs Improvement"
)

// ScoreMeals scores each planned meal against what was logged for that meal
// type and returns the per-meal list plus the same-day average. Meal types
// logged without a plan row are ignored.
func ScoreMeals(targets []MealTarget, actuals []MealActual) ([]MealScore, float64) {
	byType := make(map[string]MealActual, len(actuals))
	for _, a := range actuals {
		byType[a.MealType] = a
	}

	scores := make([]MealScore, 0, len(targets))
	var sum float64
	for _, t := range targets {
		a := byType[t.MealType]

		ms := MealScore{MealType: t.MealType, Items: a.Items}
		ms.Percents.Calories = percentOfTarget(a.Actuals.Calories, t.Targets.Calories)
		ms.Percents.Protein = percentOfTarget(a.Actuals.ProteinGrams, t.Targets.ProteinGrams)
		ms.Percents.Carbs = percentOfTarget(a.Actuals.CarbsGrams, t.Targets.CarbsGrams)
		ms.Percents.Fat = percentOfTarget(a.Actuals.FatGrams, t.Targets.FatGrams)

		avg := (ms.Percents.Calories + ms.Percents.Protein + ms.Percents.Carbs + ms.Percents.Fat) / 4
		ms.Score = int(math.Round(avg))
		ms.Rating = rating(avg)

		scores = append(scores, ms)
		sum += avg
	}

	if len(scores) == 0 {
		return scores, 0
	}
	return scores, sum / float64(len(scores))
}

// percentOfTarget caps at 100 and treats a non-positive target or a
// non-finite ratio as 0 rather than letting NaN/Inf escape.
func percentOfTarget(actual, target float64) float64 {
	if target <= 0 {
		return 0
	}
	pct := actual / target * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) || pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func rating(score float64) string {
	switch {
	case score >= 80:
		return RatingExcellent
	case score >= 65:
		return RatingGood
	case score >= 50:
		return RatingFair
	default:
		return RatingNeedsImprovement
	}
}
