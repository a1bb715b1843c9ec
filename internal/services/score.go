package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/habiebr/fuel-score-backend/internal/observability"
	"github.com/habiebr/fuel-score-backend/internal/platform/apierr"
	"github.com/habiebr/fuel-score-backend/internal/platform/logger"
	"github.com/habiebr/fuel-score-backend/internal/repos"
	"github.com/habiebr/fuel-score-backend/internal/score"
	"github.com/habiebr/fuel-score-backend/internal/types"
)

const dateLayout = "2006-01-02"

// streakLookbackDays bounds the consecutive-day scan behind the streak bonus.
const streakLookbackDays = 30

// streakMinScore is the persisted daily score a day needs to extend a streak.
const streakMinScore = 60

// DailyScoreResult is the per-day scoring payload returned to clients.
type DailyScoreResult struct {
	Date        string          `json:"date"`
	Score       int             `json:"score"`
	Breakdown   score.Breakdown `json:"breakdown"`
	Load        string          `json:"training_load"`
	Targets     score.Macros    `json:"targets"`
	Actuals     score.Macros    `json:"actuals"`
	MealsLogged int             `json:"meals_logged"`
	HasPlan     bool            `json:"has_plan"`
	Persisted   bool            `json:"persisted"`
}

type DayScore struct {
	Date  string `json:"date"`
	Score int    `json:"score"`
}

// WeeklyScoreResult averages persisted daily scores from Monday through
// today. Days without data are excluded rather than counted as zero.
type WeeklyScoreResult struct {
	WeekStart    string     `json:"week_start"`
	Average      int        `json:"average"`
	DaysWithData int        `json:"days_with_data"`
	Daily        []DayScore `json:"daily"`
}

type MealScoresResult struct {
	Date     string            `json:"date"`
	Meals    []score.MealScore `json:"meals"`
	DayScore int               `json:"day_score"`
}

type ScoreService interface {
	GetDailyScore(ctx context.Context, userID uuid.UUID, date string) (*DailyScoreResult, error)
	GetTodayScore(ctx context.Context, userID uuid.UUID) (*DailyScoreResult, error)
	GetWeeklyScore(ctx context.Context, userID uuid.UUID) (*WeeklyScoreResult, error)
	GetMealScores(ctx context.Context, userID uuid.UUID, date string) (*MealScoresResult, error)
}

type scoreService struct {
	db           *gorm.DB
	log          *logger.Logger
	profileRepo  repos.ProfileRepo
	mealPlanRepo repos.MealPlanRepo
	foodLogRepo  repos.FoodLogRepo
	trainingRepo repos.TrainingActivityRepo
	fitRepo      repos.GoogleFitRepo
	scoreRepo    repos.NutritionScoreRepo
	weights      score.Weights
	loc          *time.Location
	now          func() time.Time
}

func NewScoreService(
	db *gorm.DB,
	log *logger.Logger,
	profileRepo repos.ProfileRepo,
	mealPlanRepo repos.MealPlanRepo,
	foodLogRepo repos.FoodLogRepo,
	trainingRepo repos.TrainingActivityRepo,
	fitRepo repos.GoogleFitRepo,
	scoreRepo repos.NutritionScoreRepo,
	weights score.Weights,
	loc *time.Location,
) ScoreService {
	return &scoreService{
		db:           db,
		log:          log.With("service", "ScoreService"),
		profileRepo:  profileRepo,
		mealPlanRepo: mealPlanRepo,
		foodLogRepo:  foodLogRepo,
		trainingRepo: trainingRepo,
		fitRepo:      fitRepo,
		scoreRepo:    scoreRepo,
		weights:      weights,
		loc:          loc,
		now:          time.Now,
	}
}

// dayInputs is everything buildContext fetches for one user/date.
type dayInputs struct {
	profile    *types.UserProfile
	plans      []*types.MealPlan
	logs       []*types.FoodLog
	activities []*types.TrainingActivity
	fit        *types.GoogleFitData
	scores     []*types.NutritionScore // lookback window for the streak
}

func (ss *scoreService) fetchDayInputs(ctx context.Context, userID uuid.UUID, date string) (*dayInputs, time.Time, error) {
	dayStart, err := time.ParseInLocation(dateLayout, date, ss.loc)
	if err != nil {
		return nil, time.Time{}, apierr.New(http.StatusBadRequest, "invalid_date", fmt.Errorf("invalid date %q: want YYYY-MM-DD", date))
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	in := &dayInputs{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, pErr := ss.profileRepo.GetByUserID(gctx, nil, userID)
		if pErr != nil {
			// Missing profile is normal for fresh accounts; targets fall
			// back to defaults.
			return nil
		}
		in.profile = p
		return nil
	})
	g.Go(func() error {
		plans, pErr := ss.mealPlanRepo.GetByUserDate(gctx, nil, userID, date)
		if pErr != nil {
			return fmt.Errorf("load meal plans: %w", pErr)
		}
		in.plans = plans
		return nil
	})
	g.Go(func() error {
		logs, lErr := ss.foodLogRepo.GetByUserRange(gctx, nil, userID, dayStart, dayEnd)
		if lErr != nil {
			return fmt.Errorf("load food logs: %w", lErr)
		}
		in.logs = logs
		return nil
	})
	g.Go(func() error {
		acts, aErr := ss.trainingRepo.GetByUserDate(gctx, nil, userID, date)
		if aErr != nil {
			return fmt.Errorf("load training activities: %w", aErr)
		}
		in.activities = acts
		return nil
	})
	g.Go(func() error {
		fit, fErr := ss.fitRepo.GetByUserDate(gctx, nil, userID, date)
		if fErr == nil {
			in.fit = fit
		}
		return nil
	})
	g.Go(func() error {
		from := dayStart.AddDate(0, 0, -streakLookbackDays).Format(dateLayout)
		to := dayStart.AddDate(0, 0, -1).Format(dateLayout)
		rows, sErr := ss.scoreRepo.GetByUserDateRange(gctx, nil, userID, from, to)
		if sErr != nil {
			// The streak is a bonus input, not worth failing the score.
			ss.log.Warn("streak lookback failed", "user_id", userID.String(), "error", sErr)
			return nil
		}
		in.scores = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, time.Time{}, err
	}
	return in, dayStart, nil
}

// buildContext assembles the scoring context for one user/date. All reads,
// no writes; the pure calculator does the rest.
func (ss *scoreService) buildContext(ctx context.Context, userID uuid.UUID, date string) (*score.Context, *dayInputs, error) {
	in, dayStart, err := ss.fetchDayInputs(ctx, userID, date)
	if err != nil {
		return nil, nil, err
	}

	planned := plannedActivities(in.activities)
	actual := actualFromFit(in.fit)
	activeMinutes := 0
	if actual != nil {
		activeMinutes = actual.DurationMinutes
	}
	load := score.ClassifyLoad(planned, activeMinutes)

	var plan *score.PlannedActivity
	if p := primaryPlanned(planned); p != nil {
		plan = p
	}

	targets, hasPlan := planTargets(in.plans)
	if !hasPlan {
		targets = synthesizeTargets(in.profile, load)
	}

	actuals, mealTypes := sumFoodLogs(in.logs)

	fueling := fuelingWindows(in.profile, load)
	windows := evaluateWindows(load, plan, fueling, actuals, len(in.logs),
		planHasMealType(in.plans, "snack"), containsMealType(mealTypes, "snack"))

	sctx := &score.Context{
		Targets:     targets,
		Actuals:     actuals,
		HasPlan:     hasPlan,
		MealsLogged: len(in.logs),
		MealTypes:   mealTypes,
		Fueling:     fueling,
		Windows:     windows,
		Plan:        plan,
		Actual:      actual,
		Load:        load,
		Flags: score.Flags{
			StreakDays:       streakDays(in.scores, dayStart),
			HardDay:          load.Hard(),
			BigDeficit:       load.Hard() && len(in.logs) > 0 && actuals.Calories < 0.7*targets.Calories,
			MissedPostWindow: windows.Post.Applicable && !windows.Post.Met,
		},
	}
	return sctx, in, nil
}

func (ss *scoreService) GetDailyScore(ctx context.Context, userID uuid.UUID, date string) (*DailyScoreResult, error) {
	sctx, _, err := ss.buildContext(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	breakdown := score.Calculate(*sctx, ss.weights)

	persisted := ss.persistScore(ctx, userID, date, sctx, breakdown)

	return &DailyScoreResult{
		Date:        date,
		Score:       breakdown.Total,
		Breakdown:   breakdown,
		Load:        string(sctx.Load),
		Targets:     sctx.Targets,
		Actuals:     sctx.Actuals,
		MealsLogged: sctx.MealsLogged,
		HasPlan:     sctx.HasPlan,
		Persisted:   persisted,
	}, nil
}

// persistScore upserts the (user, date) row. Best effort: a storage failure
// is reported but never blocks returning the computed score.
func (ss *scoreService) persistScore(ctx context.Context, userID uuid.UUID, date string, sctx *score.Context, breakdown score.Breakdown) bool {
	raw, err := json.Marshal(breakdown)
	if err != nil {
		raw = nil
	}
	row := &types.NutritionScore{
		ID:     uuid.New(),
		UserID: userID,
		Date:   date,

		DailyScore: breakdown.Total,

		CaloriesConsumed: sctx.Actuals.Calories,
		ProteinGrams:     sctx.Actuals.ProteinGrams,
		CarbsGrams:       sctx.Actuals.CarbsGrams,
		FatGrams:         sctx.Actuals.FatGrams,
		MealsLogged:      sctx.MealsLogged,

		PlannedCalories:     sctx.Targets.Calories,
		PlannedProteinGrams: sctx.Targets.ProteinGrams,
		PlannedCarbsGrams:   sctx.Targets.CarbsGrams,
		PlannedFatGrams:     sctx.Targets.FatGrams,

		TrainingLoad: string(sctx.Load),
		Breakdown:    raw,
	}
	if err := ss.scoreRepo.Upsert(ctx, nil, row); err != nil {
		observability.ReportPersistenceFailure(ctx, ss.log, "nutrition_scores", err,
			"user_id", userID.String(), "date", date)
		return false
	}
	return true
}

func (ss *scoreService) GetTodayScore(ctx context.Context, userID uuid.UUID) (*DailyScoreResult, error) {
	return ss.GetDailyScore(ctx, userID, ss.now().In(ss.loc).Format(dateLayout))
}

func (ss *scoreService) GetWeeklyScore(ctx context.Context, userID uuid.UUID) (*WeeklyScoreResult, error) {
	today := ss.now().In(ss.loc)
	weekStart := mondayOf(today)

	// Refresh today before aggregating so the widget never lags a day.
	if _, err := ss.GetDailyScore(ctx, userID, today.Format(dateLayout)); err != nil {
		return nil, err
	}

	rows, err := ss.scoreRepo.GetByUserDateRange(ctx, nil, userID,
		weekStart.Format(dateLayout), today.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("load weekly scores: %w", err)
	}

	result := &WeeklyScoreResult{WeekStart: weekStart.Format(dateLayout)}
	var sum int
	for _, r := range rows {
		result.Daily = append(result.Daily, DayScore{Date: r.Date, Score: r.DailyScore})
		// Zero rows are placeholder days with nothing logged; counting them
		// would drag a good week toward zero.
		if r.DailyScore > 0 {
			sum += r.DailyScore
			result.DaysWithData++
		}
	}
	if result.DaysWithData > 0 {
		result.Average = int(float64(sum)/float64(result.DaysWithData) + 0.5)
	}
	return result, nil
}

func (ss *scoreService) GetMealScores(ctx context.Context, userID uuid.UUID, date string) (*MealScoresResult, error) {
	dayStart, err := time.ParseInLocation(dateLayout, date, ss.loc)
	if err != nil {
		return nil, apierr.New(http.StatusBadRequest, "invalid_date", fmt.Errorf("invalid date %q: want YYYY-MM-DD", date))
	}

	var (
		plans []*types.MealPlan
		logs  []*types.FoodLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var pErr error
		plans, pErr = ss.mealPlanRepo.GetByUserDate(gctx, nil, userID, date)
		return pErr
	})
	g.Go(func() error {
		var lErr error
		logs, lErr = ss.foodLogRepo.GetByUserRange(gctx, nil, userID, dayStart, dayStart.AddDate(0, 0, 1))
		return lErr
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load meal inputs: %w", err)
	}

	targets := make([]score.MealTarget, 0, len(plans))
	for _, p := range plans {
		targets = append(targets, score.MealTarget{
			MealType: p.MealType,
			Targets: score.Macros{
				Calories:     p.Calories,
				ProteinGrams: p.ProteinGrams,
				CarbsGrams:   p.CarbsGrams,
				FatGrams:     p.FatGrams,
			},
		})
	}

	byType := map[string]*score.MealActual{}
	for _, l := range logs {
		mt := strings.ToLower(l.MealType)
		a, ok := byType[mt]
		if !ok {
			a = &score.MealActual{MealType: mt}
			byType[mt] = a
		}
		a.Actuals.Calories += l.Calories
		a.Actuals.ProteinGrams += l.ProteinGrams
		a.Actuals.CarbsGrams += l.CarbsGrams
		a.Actuals.FatGrams += l.FatGrams
		a.Items++
	}
	actuals := make([]score.MealActual, 0, len(byType))
	for _, a := range byType {
		actuals = append(actuals, *a)
	}

	meals, avg := score.ScoreMeals(targets, actuals)
	return &MealScoresResult{
		Date:     date,
		Meals:    meals,
		DayScore: int(avg + 0.5),
	}, nil
}

// mondayOf truncates to the Monday 00:00 of t's week in t's location.
func mondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

func plannedActivities(rows []*types.TrainingActivity) []score.PlannedActivity {
	out := make([]score.PlannedActivity, 0, len(rows))
	for _, a := range rows {
		out = append(out, score.PlannedActivity{
			ActivityType:    a.ActivityType,
			DurationMinutes: a.DurationMinutes,
			DistanceKM:      a.DistanceKM,
			Intensity:       a.Intensity,
		})
	}
	return out
}

// primaryPlanned picks the longest non-rest session as the day's anchor
// workout for duration adherence.
func primaryPlanned(planned []score.PlannedActivity) *score.PlannedActivity {
	var best *score.PlannedActivity
	for i := range planned {
		p := &planned[i]
		if strings.EqualFold(p.ActivityType, "rest") {
			continue
		}
		if best == nil || p.DurationMinutes > best.DurationMinutes {
			best = p
		}
	}
	if best == nil {
		return nil
	}
	cp := *best
	return &cp
}

// actualFromFit converts a synced wearable day into realized training. Rows
// without sessions are ambient movement and produce nil.
func actualFromFit(fit *types.GoogleFitData) *score.ActualTraining {
	if fit == nil || len(fit.Sessions) == 0 {
		return nil
	}
	var sessions []types.FitSession
	if err := json.Unmarshal(fit.Sessions, &sessions); err != nil || len(sessions) == 0 {
		return nil
	}
	actual := &score.ActualTraining{
		Calories:       fit.CaloriesBurned,
		DistanceMeters: fit.DistanceMeters,
		AvgHeartRate:   fit.AvgHeartRate,
	}
	for _, s := range sessions {
		actual.DurationMinutes += s.DurationMinutes
	}
	if actual.DurationMinutes <= 0 {
		return nil
	}
	return actual
}

func planTargets(plans []*types.MealPlan) (score.Macros, bool) {
	if len(plans) == 0 {
		return score.Macros{}, false
	}
	var m score.Macros
	for _, p := range plans {
		m.Calories += p.Calories
		m.ProteinGrams += p.ProteinGrams
		m.CarbsGrams += p.CarbsGrams
		m.FatGrams += p.FatGrams
	}
	return m, true
}

func planHasMealType(plans []*types.MealPlan, mealType string) bool {
	for _, p := range plans {
		if strings.EqualFold(p.MealType, mealType) {
			return true
		}
	}
	return false
}

func containsMealType(mealTypes []string, mealType string) bool {
	for _, mt := range mealTypes {
		if mt == mealType {
			return true
		}
	}
	return false
}

func sumFoodLogs(logs []*types.FoodLog) (score.Macros, []string) {
	var m score.Macros
	seen := map[string]bool{}
	var mealTypes []string
	for _, l := range logs {
		m.Calories += l.Calories
		m.ProteinGrams += l.ProteinGrams
		m.CarbsGrams += l.CarbsGrams
		m.FatGrams += l.FatGrams
		mt := strings.ToLower(l.MealType)
		if mt != "" && !seen[mt] {
			seen[mt] = true
			mealTypes = append(mealTypes, mt)
		}
	}
	return m, mealTypes
}

// evaluateWindows marks each fueling window. Met is judged on day totals;
// logged-meal timestamps are not matched against workout time. The during
// window applies on long days, or whenever a snack is on the plan.
func evaluateWindows(load score.TrainingLoad, plan *score.PlannedActivity, fw score.FuelingWindows, actuals score.Macros, mealsLogged int, snackPlanned, snackLogged bool) score.Windows {
	var ws score.Windows
	if load == score.LoadRest || plan == nil || plan.DurationMinutes <= 0 {
		return ws
	}

	ws.Pre.Applicable = true
	ws.Pre.Met = mealsLogged > 0 && actuals.CarbsGrams >= fw.PreCarbsGrams

	longDuring := fw.DuringCarbsPerHour > 0 && plan.DurationMinutes > 75
	switch {
	case longDuring:
		hours := float64(plan.DurationMinutes) / 60
		need := fw.PreCarbsGrams + fw.DuringCarbsPerHour*hours
		ws.During.Applicable = true
		ws.During.Met = actuals.CarbsGrams >= need
	case snackPlanned:
		ws.During.Applicable = true
		ws.During.Met = snackLogged
	}

	ws.Post.Applicable = true
	ws.Post.Met = mealsLogged > 0 &&
		actuals.ProteinGrams >= fw.PostProteinGrams &&
		actuals.CarbsGrams >= fw.PostCarbsGrams

	return ws
}

// streakDays counts consecutive scored days ending yesterday, relative to
// dayStart, with a persisted score at or above streakMinScore.
func streakDays(rows []*types.NutritionScore, dayStart time.Time) int {
	byDate := make(map[string]int, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r.DailyScore
	}
	streak := 0
	for i := 1; i <= streakLookbackDays; i++ {
		d := dayStart.AddDate(0, 0, -i).Format(dateLayout)
		s, ok := byDate[d]
		if !ok || s < streakMinScore {
			break
		}
		streak++
	}
	return streak
}
