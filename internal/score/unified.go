package score

import "math"

// Calculate maps a fully-built Context to a Breakdown. Deterministic, no
// I/O; every constant comes from w.
func Calculate(ctx Context, w Weights) Breakdown {
	noData := !ctx.HasPlan && ctx.MealsLogged == 0 && ctx.Actuals.IsZero()

	nutrition := nutritionScore(ctx, w)
	training := trainingScore(ctx, w)

	split, ok := w.Split[ctx.Load]
	if !ok {
		split = Split{Nutrition: 0.6, Training: 0.4}
	}

	var bonus, penalty float64
	if !noData {
		bonus = bonusPoints(ctx, w)
		penalty = penaltyPoints(ctx, w)
	}

	total := split.Nutrition*nutrition + split.Training*training + bonus - penalty
	if noData && total > w.NoDataCap {
		// A date with no plan and nothing logged must never report success;
		// the original product shipped a ~92 here once.
		total = w.NoDataCap
	}

	return Breakdown{
		Nutrition: round1(nutrition),
		Training:  round1(training),
		Bonus:     bonus,
		Penalty:   penalty,
		Total:     clampTotal(total),
	}
}

func nutritionScore(ctx Context, w Weights) float64 {
	macro := macroAdherence(ctx.Targets, ctx.Actuals, w)

	applicable := ctx.Windows.Pre.Applicable || ctx.Windows.During.Applicable || ctx.Windows.Post.Applicable
	if !applicable || w.WindowShare <= 0 {
		return macro
	}
	return (1-w.WindowShare)*macro + w.WindowShare*windowAdherence(ctx.Windows)
}

func macroAdherence(targets, actuals Macros, w Weights) float64 {
	type pair struct {
		weight, target, actual float64
	}
	pairs := []pair{
		{w.Macro.Calories, targets.Calories, actuals.Calories},
		{w.Macro.Protein, targets.ProteinGrams, actuals.ProteinGrams},
		{w.Macro.Carbs, targets.CarbsGrams, actuals.CarbsGrams},
		{w.Macro.Fat, targets.FatGrams, actuals.FatGrams},
	}

	var sum, weightSum float64
	for _, p := range pairs {
		if p.target <= 0 || p.weight <= 0 {
			continue
		}
		sum += p.weight * adherenceCredit(p.actual/p.target, w.Tolerance, w.MaxDeviation)
		weightSum += p.weight
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

func windowAdherence(ws Windows) float64 {
	var sum, n float64
	for _, s := range []WindowStatus{ws.Pre, ws.During, ws.Post} {
		if !s.Applicable {
			continue
		}
		n++
		if s.Met {
			sum += 100
		}
	}
	if n == 0 {
		return 0
	}
	return sum / n
}

func trainingScore(ctx Context, w Weights) float64 {
	hasActual := ctx.Actual != nil && ctx.Actual.DurationMinutes > 0

	if ctx.Load == LoadRest {
		// Rest observed as planned is full marks on this axis.
		if !hasActual {
			return 100
		}
		return w.RestDayTrainingScore
	}

	if ctx.Plan == nil || ctx.Plan.DurationMinutes <= 0 {
		if hasActual {
			return w.UnplannedTrainingScore
		}
		if ctx.Load.Hard() {
			return w.MissedHardSessionScore
		}
		return w.MissedEasySessionScore
	}

	if !hasActual {
		if ctx.Load.Hard() {
			return w.MissedHardSessionScore
		}
		return w.MissedEasySessionScore
	}

	ratio := float64(ctx.Actual.DurationMinutes) / float64(ctx.Plan.DurationMinutes)
	return adherenceCredit(ratio, w.TrainingTolerance, w.TrainingMaxDeviation)
}

// adherenceCredit scores a realized/target ratio: full credit inside the
// tolerance band, zero at maxDeviation, linear between. Non-finite ratios
// score zero.
func adherenceCredit(ratio, tolerance, maxDeviation float64) float64 {
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) || ratio < 0 {
		return 0
	}
	dev := math.Abs(ratio - 1)
	switch {
	case dev <= tolerance:
		return 100
	case dev >= maxDeviation:
		return 0
	default:
		return 100 * (1 - (dev-tolerance)/(maxDeviation-tolerance))
	}
}

func bonusPoints(ctx Context, w Weights) float64 {
	var b float64
	if ctx.Windows.AllMet() {
		b += w.Bonus.AllWindows
	}
	if w.Bonus.StreakMinDays > 0 && ctx.Flags.StreakDays >= w.Bonus.StreakMinDays {
		b += w.Bonus.Streak
	}
	if ctx.Flags.HydrationOK {
		b += w.Bonus.Hydration
	}
	return b
}

func penaltyPoints(ctx Context, w Weights) float64 {
	var p float64
	if ctx.Flags.MissedPostWindow {
		p += w.Penalty.MissedPostWindow
	}
	if ctx.Flags.BigDeficit && (ctx.Flags.HardDay || ctx.Load.Hard()) {
		p += w.Penalty.BigDeficitHardDay
	}
	return p
}

func clampTotal(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
