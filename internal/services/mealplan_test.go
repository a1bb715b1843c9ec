package services

import (
	"context"
	"testing"

	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/repos/testutil"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

func newTestMealPlanService(t *testing.T) (MealPlanService, *types.User) {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)

	svc := NewMealPlanService(
		gdb,
		log,
		repos.NewMealPlanRepo(gdb, log),
		repos.NewProfileRepo(gdb, log),
		repos.NewTrainingActivityRepo(gdb, log),
		nil, // no model: stock suggestions
	)
	user := testutil.SeedUser(t, context.Background(), gdb, "runner@example.com")
	return svc, user
}

func TestGenerateMealPlanWithoutModelUsesStockSuggestions(t *testing.T) {
	svc, user := newTestMealPlanService(t)
	ctx := context.Background()

	plans, err := svc.GenerateMealPlan(ctx, user.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("GenerateMealPlan: %v", err)
	}
	if len(plans) != 4 {
		t.Fatalf("generated %d plan rows, want 4", len(plans))
	}

	var totalCalories float64
	seen := map[string]bool{}
	for _, p := range plans {
		seen[p.MealType] = true
		totalCalories += p.Calories
		if len(p.Suggestions) == 0 {
			t.Errorf("%s: expected stock suggestions, got none", p.MealType)
		}
		if p.Calories <= 0 {
			t.Errorf("%s: calories = %v, want > 0", p.MealType, p.Calories)
		}
	}
	for _, mt := range []string{"breakfast", "lunch", "dinner", "snack"} {
		if !seen[mt] {
			t.Errorf("missing meal slot %q", mt)
		}
	}
	if totalCalories < 1500 || totalCalories > 4500 {
		t.Errorf("daily calories = %v, outside plausible range", totalCalories)
	}
}

func TestGenerateMealPlanIsIdempotentPerDate(t *testing.T) {
	svc, user := newTestMealPlanService(t)
	ctx := context.Background()

	if _, err := svc.GenerateMealPlan(ctx, user.ID, "2025-03-06"); err != nil {
		t.Fatalf("first generate: %v", err)
	}
	if _, err := svc.GenerateMealPlan(ctx, user.ID, "2025-03-06"); err != nil {
		t.Fatalf("second generate: %v", err)
	}

	plans, err := svc.GetMealPlan(ctx, user.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("GetMealPlan: %v", err)
	}
	if len(plans) != 4 {
		t.Errorf("plan rows after regenerate = %d, want 4", len(plans))
	}
}

func TestGenerateMealPlanScalesWithProfile(t *testing.T) {
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	svc := NewMealPlanService(
		gdb,
		log,
		repos.NewMealPlanRepo(gdb, log),
		repos.NewProfileRepo(gdb, log),
		repos.NewTrainingActivityRepo(gdb, log),
		nil,
	)
	ctx := context.Background()

	light := testutil.SeedUser(t, ctx, gdb, "light@example.com")
	heavy := testutil.SeedUser(t, ctx, gdb, "heavy@example.com")
	testutil.SeedProfile(t, ctx, gdb, light.ID, 55)
	testutil.SeedProfile(t, ctx, gdb, heavy.ID, 90)

	lightPlans, err := svc.GenerateMealPlan(ctx, light.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("generate for light runner: %v", err)
	}
	heavyPlans, err := svc.GenerateMealPlan(ctx, heavy.ID, "2025-03-06")
	if err != nil {
		t.Fatalf("generate for heavy runner: %v", err)
	}

	sum := func(plans []*types.MealPlan) (c float64) {
		for _, p := range plans {
			c += p.Calories
		}
		return c
	}
	if sum(heavyPlans) <= sum(lightPlans) {
		t.Errorf("heavier runner got %v kcal, lighter got %v; want more for heavier",
			sum(heavyPlans), sum(lightPlans))
	}
}
