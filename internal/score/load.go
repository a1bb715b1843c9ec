package score

import "strings"

// Planned-activity thresholds.
const (
	longDistanceKM      = 20.0
	longDurationMinutes = 120
	moderateDurationMin = 60
)

// ClassifyLoad maps the day's schedule to a training load. Planned
// activities win; with no plan the realized active minutes drive a coarser
// rule. The no-plan fallback ignores intensity entirely (kept from the
// original product behavior, see DESIGN.md).
func ClassifyLoad(planned []PlannedActivity, actualActiveMinutes int) TrainingLoad {
	if len(planned) == 0 {
		switch {
		case actualActiveMinutes > 60:
			return LoadQuality
		case actualActiveMinutes > 30:
			return LoadEasy
		default:
			return LoadRest
		}
	}

	allRest := true
	totalMinutes := 0
	maxDistance := 0.0
	highIntensity := false
	for _, a := range planned {
		if !isRestActivity(a.ActivityType) {
			allRest = false
		}
		totalMinutes += a.DurationMinutes
		if a.DistanceKM > maxDistance {
			maxDistance = a.DistanceKM
		}
		if strings.EqualFold(strings.TrimSpace(a.Intensity), "high") {
			highIntensity = true
		}
	}
	if allRest {
		return LoadRest
	}

	switch {
	case maxDistance >= longDistanceKM || totalMinutes >= longDurationMinutes:
		return LoadLong
	case highIntensity:
		return LoadQuality
	case totalMinutes >= moderateDurationMin:
		return LoadModerate
	default:
		return LoadEasy
	}
}

func isRestActivity(activityType string) bool {
	return strings.EqualFold(strings.TrimSpace(activityType), "rest")
}
