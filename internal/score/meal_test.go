package score

import "testing"

func TestScoreMealsCapsAndZeroTargets(t *testing.T) {
	targets := []MealTarget{
		{MealType: "breakfast", Targets: Macros{Calories: 500, ProteinGrams: 30, CarbsGrams: 60, FatGrams: 0}},
	}
	actuals := []MealActual{
		{MealType: "breakfast", Actuals: Macros{Calories: 500, ProteinGrams: 90, CarbsGrams: 60, FatGrams: 20}, Items: 2},
	}

	scores, _ := ScoreMeals(targets, actuals)
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1", len(scores))
	}
	ms := scores[0]
	if ms.Percents.Protein != 100 {
		t.Fatalf("protein at 300%% of target contributed %v, want capped 100", ms.Percents.Protein)
	}
	if ms.Percents.Fat != 0 {
		t.Fatalf("zero fat target contributed %v, want 0", ms.Percents.Fat)
	}
	// (100+100+100+0)/4 = 75
	if ms.Score != 75 {
		t.Fatalf("meal score %d, want 75", ms.Score)
	}
	if ms.Rating != RatingGood {
		t.Fatalf("rating %q, want %q", ms.Rating, RatingGood)
	}
}

func TestScoreMealsDayAverage(t *testing.T) {
	targets := []MealTarget{
		{MealType: "breakfast", Targets: Macros{Calories: 400, ProteinGrams: 20, CarbsGrams: 50, FatGrams: 15}},
		{MealType: "lunch", Targets: Macros{Calories: 700, ProteinGrams: 40, CarbsGrams: 90, FatGrams: 25}},
	}
	actuals := []MealActual{
		{MealType: "breakfast", Actuals: Macros{Calories: 400, ProteinGrams: 20, CarbsGrams: 50, FatGrams: 15}, Items: 1},
		// lunch never logged
	}

	scores, avg := ScoreMeals(targets, actuals)
	if len(scores) != 2 {
		t.Fatalf("got %d scores, want 2", len(scores))
	}
	if scores[0].Score != 100 || scores[0].Rating != RatingExcellent {
		t.Fatalf("exact breakfast scored %d (%s), want 100 Excellent", scores[0].Score, scores[0].Rating)
	}
	if scores[1].Score != 0 || scores[1].Rating != RatingNeedsImprovement {
		t.Fatalf("unlogged lunch scored %d (%s), want 0 Needs Improvement", scores[1].Score, scores[1].Rating)
	}
	if avg != 50 {
		t.Fatalf("day average %v, want 50", avg)
	}
}

func TestScoreMealsIgnoresUnplannedTypes(t *testing.T) {
	targets := []MealTarget{
		{MealType: "dinner", Targets: Macros{Calories: 800, ProteinGrams: 40, CarbsGrams: 100, FatGrams: 30}},
	}
	actuals := []MealActual{
		{MealType: "dinner", Actuals: Macros{Calories: 800, ProteinGrams: 40, CarbsGrams: 100, FatGrams: 30}, Items: 1},
		{MealType: "snack", Actuals: Macros{Calories: 300}, Items: 1},
	}

	scores, avg := ScoreMeals(targets, actuals)
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1 (snack has no plan row)", len(scores))
	}
	if avg != 100 {
		t.Fatalf("day average %v, want 100", avg)
	}
}

func TestScoreMealsEmptyPlan(t *testing.T) {
	scores, avg := ScoreMeals(nil, []MealActual{{MealType: "lunch", Actuals: Macros{Calories: 600}}})
	if len(scores) != 0 || avg != 0 {
		t.Fatalf("no plan: got %d scores avg %v, want 0 and 0", len(scores), avg)
	}
}
