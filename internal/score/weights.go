package score

// Weights holds every tunable constant in the scoring curve. Loaded from
// YAML by internal/config so the formula can be retuned without a deploy.
type Weights struct {
	// Per-macro shares of the macro-adherence score. Should sum to 1;
	// Calculate renormalizes over the macros that have targets.
	Macro MacroWeights `yaml:"macro"`

	// Tolerance is the +/- fraction around target with full credit;
	// MaxDeviation is where credit reaches zero. Linear in between.
	Tolerance    float64 `yaml:"tolerance"`
	MaxDeviation float64 `yaml:"max_deviation"`

	// WindowShare is the fueling-window share of the nutrition sub-score
	// when at least one window applies.
	WindowShare float64 `yaml:"window_share"`

	// TrainingTolerance/TrainingMaxDeviation shape the planned-vs-actual
	// duration adherence curve.
	TrainingTolerance    float64 `yaml:"training_tolerance"`
	TrainingMaxDeviation float64 `yaml:"training_max_deviation"`

	// Split is the nutrition/training blend per load level.
	Split map[TrainingLoad]Split `yaml:"split"`

	Bonus   BonusWeights   `yaml:"bonus"`
	Penalty PenaltyWeights `yaml:"penalty"`

	// NoDataCap bounds the total when neither a meal plan nor any food log
	// exists for the date.
	NoDataCap float64 `yaml:"no_data_cap"`

	// MissedHardSessionScore is the training sub-score for a long/quality
	// day with no realized training.
	MissedHardSessionScore float64 `yaml:"missed_hard_session_score"`
	// MissedEasySessionScore likewise for easy/moderate days.
	MissedEasySessionScore float64 `yaml:"missed_easy_session_score"`
	// UnplannedTrainingScore is the neutral training sub-score when a
	// workout happened with nothing on the calendar.
	UnplannedTrainingScore float64 `yaml:"unplanned_training_score"`
	// RestDayTrainingScore applies when training happened on a planned
	// rest day.
	RestDayTrainingScore float64 `yaml:"rest_day_training_score"`
}

type MacroWeights struct {
	Calories float64 `yaml:"calories"`
	Protein  float64 `yaml:"protein"`
	Carbs    float64 `yaml:"carbs"`
	Fat      float64 `yaml:"fat"`
}

type Split struct {
	Nutrition float64 `yaml:"nutrition"`
	Training  float64 `yaml:"training"`
}

type BonusWeights struct {
	AllWindows    float64 `yaml:"all_windows"`
	Streak        float64 `yaml:"streak"`
	StreakMinDays int     `yaml:"streak_min_days"`
	Hydration     float64 `yaml:"hydration"`
}

type PenaltyWeights struct {
	MissedPostWindow  float64 `yaml:"missed_post_window"`
	BigDeficitHardDay float64 `yaml:"big_deficit_hard_day"`
}

// DefaultWeights mirrors the shipped weights.yaml. Carb-forward macro
// weighting reflects the runner focus of the product.
func DefaultWeights() Weights {
	return Weights{
		Macro: MacroWeights{
			Calories: 0.35,
			Protein:  0.25,
			Carbs:    0.25,
			Fat:      0.15,
		},
		Tolerance:            0.05,
		MaxDeviation:         0.50,
		WindowShare:          0.30,
		TrainingTolerance:    0.10,
		TrainingMaxDeviation: 0.60,
		Split: map[TrainingLoad]Split{
			LoadRest:     {Nutrition: 0.80, Training: 0.20},
			LoadEasy:     {Nutrition: 0.65, Training: 0.35},
			LoadModerate: {Nutrition: 0.60, Training: 0.40},
			LoadLong:     {Nutrition: 0.50, Training: 0.50},
			LoadQuality:  {Nutrition: 0.50, Training: 0.50},
		},
		Bonus: BonusWeights{
			AllWindows:    5,
			Streak:        3,
			StreakMinDays: 7,
			Hydration:     2,
		},
		Penalty: PenaltyWeights{
			MissedPostWindow:  10,
			BigDeficitHardDay: 15,
		},
		NoDataCap:              20,
		MissedHardSessionScore: 20,
		MissedEasySessionScore: 40,
		UnplannedTrainingScore: 70,
		RestDayTrainingScore:   80,
	}
}
