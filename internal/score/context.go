package score

// TrainingLoad is the ordinal classification of a day's exercise volume.
type TrainingLoad string

const (
	LoadRest     TrainingLoad = "rest"
	LoadEasy     TrainingLoad = "easy"
	LoadModerate TrainingLoad = "moderate"
	LoadLong     TrainingLoad = "long"
	LoadQuality  TrainingLoad = "quality"
)

// Hard reports whether the load demands deliberate fueling.
func (l TrainingLoad) Hard() bool { return l == LoadLong || l == LoadQuality }

// Macros is the daily macro shape shared by targets and actuals.
type Macros struct {
	Calories     float64 `json:"calories"`
	ProteinGrams float64 `json:"protein_grams"`
	CarbsGrams   float64 `json:"carbs_grams"`
	FatGrams     float64 `json:"fat_grams"`
}

func (m Macros) IsZero() bool {
	return m.Calories == 0 && m.ProteinGrams == 0 && m.CarbsGrams == 0 && m.FatGrams == 0
}

// FuelingWindows are the exercise-adjacent carb/protein sub-targets,
// scaled from body weight when no plan specifies them.
type FuelingWindows struct {
	PreCarbsGrams      float64 `json:"pre_carbs_grams"`
	DuringCarbsPerHour float64 `json:"during_carbs_per_hour"`
	PostCarbsGrams     float64 `json:"post_carbs_grams"`
	PostProteinGrams   float64 `json:"post_protein_grams"`
	MinFatGrams        float64 `json:"min_fat_grams"`
}

// WindowStatus marks one fueling window for the day. Met assumes the intake
// was in-window; logged-meal timestamps are not checked against workout
// time (see DESIGN.md, open question).
type WindowStatus struct {
	Applicable bool `json:"applicable"`
	Met        bool `json:"met"`
}

type Windows struct {
	Pre    WindowStatus `json:"pre"`
	During WindowStatus `json:"during"`
	Post   WindowStatus `json:"post"`
}

// AllMet reports whether every applicable window was satisfied. False when
// no window applies.
func (w Windows) AllMet() bool {
	any := false
	for _, ws := range []WindowStatus{w.Pre, w.During, w.Post} {
		if !ws.Applicable {
			continue
		}
		any = true
		if !ws.Met {
			return false
		}
	}
	return any
}

// PlannedActivity is one scheduled session from the training calendar.
type PlannedActivity struct {
	ActivityType    string  `json:"activity_type"`
	DurationMinutes int     `json:"duration_minutes"`
	DistanceKM      float64 `json:"distance_km"`
	Intensity       string  `json:"intensity"` // low|moderate|high
}

// ActualTraining is the realized session total from wearable sync. Only
// rows carrying session data count; ambient step counting is excluded
// upstream.
type ActualTraining struct {
	DurationMinutes int     `json:"duration_minutes"`
	Calories        float64 `json:"calories"`
	DistanceMeters  float64 `json:"distance_meters"`
	AvgHeartRate    float64 `json:"avg_heart_rate"`
}

// Flags is the situational bag feeding bonuses and penalties.
type Flags struct {
	StreakDays       int  `json:"streak_days"`
	HydrationOK      bool `json:"hydration_ok"`
	BigDeficit       bool `json:"big_deficit"`
	HardDay          bool `json:"hard_day"`
	MissedPostWindow bool `json:"missed_post_window"`
}

// Context is the full bundle the calculator scores. Assembled by the score
// service; the calculator itself performs no I/O.
type Context struct {
	Targets Macros `json:"targets"`
	Actuals Macros `json:"actuals"`

	// HasPlan is true when at least one meal-plan row existed for the date
	// (targets were not synthesized from defaults).
	HasPlan     bool     `json:"has_plan"`
	MealsLogged int      `json:"meals_logged"`
	MealTypes   []string `json:"meal_types,omitempty"`

	Fueling FuelingWindows `json:"fueling"`
	Windows Windows        `json:"windows"`

	Plan   *PlannedActivity `json:"plan,omitempty"`
	Actual *ActualTraining  `json:"actual,omitempty"`
	Load   TrainingLoad     `json:"load"`

	Strategy string `json:"strategy,omitempty"`
	Flags    Flags  `json:"flags"`
}

// Breakdown is the calculator's output. Total is clamped to [0,100].
type Breakdown struct {
	Nutrition float64 `json:"nutrition"`
	Training  float64 `json:"training"`
	Bonus     float64 `json:"bonus"`
	Penalty   float64 `json:"penalty"`
	Total     int     `json:"total"`
}
