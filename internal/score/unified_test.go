package score

import "testing"

func baseTargets() Macros {
	return Macros{Calories: 2400, ProteinGrams: 120, CarbsGrams: 330, FatGrams: 70}
}

func TestCalculateTotalBounds(t *testing.T) {
	w := DefaultWeights()
	loads := []TrainingLoad{LoadRest, LoadEasy, LoadModerate, LoadLong, LoadQuality}
	multipliers := []float64{0, 0.25, 0.5, 0.9, 1, 1.1, 1.5, 3}

	for _, load := range loads {
		for _, m := range multipliers {
			targets := baseTargets()
			ctx := Context{
				Targets: targets,
				Actuals: Macros{
					Calories:     targets.Calories * m,
					ProteinGrams: targets.ProteinGrams * m,
					CarbsGrams:   targets.CarbsGrams * m,
					FatGrams:     targets.FatGrams * m,
				},
				HasPlan:     true,
				MealsLogged: 3,
				Load:        load,
				Flags:       Flags{BigDeficit: m < 0.5, MissedPostWindow: m == 0},
			}
			b := Calculate(ctx, w)
			if b.Total < 0 || b.Total > 100 {
				t.Fatalf("load=%s mult=%v: total %d out of [0,100]", load, m, b.Total)
			}
		}
	}
}

// Regression: a date with no meal plan and nothing logged once scored ~92.
func TestCalculateNoDataStaysLow(t *testing.T) {
	w := DefaultWeights()
	ctx := Context{
		Targets: baseTargets(), // synthesized defaults, HasPlan false
		HasPlan: false,
		Load:    LoadRest,
		Flags:   Flags{HydrationOK: true, StreakDays: 30},
	}
	b := Calculate(ctx, w)
	if float64(b.Total) > w.NoDataCap {
		t.Fatalf("no plan + no food scored %d, want <= %v", b.Total, w.NoDataCap)
	}
}

func TestCalculateFullAdherenceNearCeiling(t *testing.T) {
	w := DefaultWeights()
	targets := baseTargets()
	ctx := Context{
		Targets:     targets,
		Actuals:     targets,
		HasPlan:     true,
		MealsLogged: 4,
		Windows: Windows{
			Pre:  WindowStatus{Applicable: true, Met: true},
			Post: WindowStatus{Applicable: true, Met: true},
		},
		Plan:   &PlannedActivity{ActivityType: "run", DurationMinutes: 60, DistanceKM: 12, Intensity: "moderate"},
		Actual: &ActualTraining{DurationMinutes: 62, Calories: 700},
		Load:   LoadModerate,
		Flags:  Flags{HydrationOK: true, StreakDays: 10},
	}
	b := Calculate(ctx, w)
	if b.Total < 95 {
		t.Fatalf("full adherence scored %d, want >= 95", b.Total)
	}
}

func TestCalculateRestDayTrainingAxis(t *testing.T) {
	w := DefaultWeights()
	ctx := Context{
		Targets:     baseTargets(),
		Actuals:     baseTargets(),
		HasPlan:     true,
		MealsLogged: 3,
		Load:        LoadRest,
	}
	b := Calculate(ctx, w)
	if b.Training != 100 {
		t.Fatalf("rest day with no training: training=%v, want 100", b.Training)
	}
}

func TestCalculateMissedHardSessionScoresPoorly(t *testing.T) {
	w := DefaultWeights()
	ctx := Context{
		Targets:     baseTargets(),
		Actuals:     baseTargets(),
		HasPlan:     true,
		MealsLogged: 3,
		Plan:        &PlannedActivity{ActivityType: "run", DurationMinutes: 120, DistanceKM: 24, Intensity: "moderate"},
		Load:        LoadLong,
	}
	b := Calculate(ctx, w)
	if b.Training > w.MissedHardSessionScore {
		t.Fatalf("quality day without training: training=%v, want <= %v", b.Training, w.MissedHardSessionScore)
	}

	rested := ctx
	rested.Plan = nil
	rested.Load = LoadRest
	if r := Calculate(rested, w); r.Total <= b.Total {
		t.Fatalf("missed hard session (%d) should score below honored rest day (%d)", b.Total, r.Total)
	}
}

func TestCalculatePenalties(t *testing.T) {
	w := DefaultWeights()
	base := Context{
		Targets:     baseTargets(),
		Actuals:     baseTargets(),
		HasPlan:     true,
		MealsLogged: 3,
		Plan:        &PlannedActivity{ActivityType: "run", DurationMinutes: 60, Intensity: "moderate"},
		Actual:      &ActualTraining{DurationMinutes: 60},
		Load:        LoadModerate,
	}

	clean := Calculate(base, w)

	missed := base
	missed.Flags.MissedPostWindow = true
	if got := Calculate(missed, w); clean.Total-got.Total != int(w.Penalty.MissedPostWindow) {
		t.Fatalf("missed post window: %d -> %d, want drop of %v", clean.Total, got.Total, w.Penalty.MissedPostWindow)
	}

	// Big deficit only bites on hard days.
	deficit := base
	deficit.Flags.BigDeficit = true
	if got := Calculate(deficit, w); got.Penalty != 0 {
		t.Fatalf("big deficit on moderate day penalized %v, want 0", got.Penalty)
	}
	deficit.Load = LoadLong
	if got := Calculate(deficit, w); got.Penalty != w.Penalty.BigDeficitHardDay {
		t.Fatalf("big deficit on long day penalized %v, want %v", got.Penalty, w.Penalty.BigDeficitHardDay)
	}
}

func TestAdherenceCredit(t *testing.T) {
	cases := []struct {
		name  string
		ratio float64
		want  float64
	}{
		{name: "exact", ratio: 1, want: 100},
		{name: "inside_band", ratio: 1.04, want: 100},
		{name: "zero_at_max_deviation", ratio: 1.5, want: 0},
		{name: "negative_ratio", ratio: -1, want: 0},
		{name: "nothing_logged", ratio: 0, want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := adherenceCredit(tc.ratio, 0.05, 0.5)
			if got != tc.want {
				t.Fatalf("adherenceCredit(%v)=%v, want %v", tc.ratio, got, tc.want)
			}
		})
	}

	mid := adherenceCredit(1.275, 0.05, 0.5)
	if mid <= 0 || mid >= 100 {
		t.Fatalf("mid-band credit %v, want strictly between 0 and 100", mid)
	}
}
