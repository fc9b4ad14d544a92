package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/types"
)

// Report periods and their window lengths in days, ending today.
var reportPeriods = map[string]int{
	"week":  7,
	"month": 30,
}

const (
	adviceWindowDays = 7
	// targetTolerance is the kcal band around the target counted as on target.
	targetTolerance = 100
)

var goalTips = map[string]string{
	models.GoalLoseWeight:       "To lose weight, favor low-calorie, high-fiber foods and keep up regular exercise.",
	models.GoalGainMuscle:       "To gain muscle, eat enough protein such as eggs, lean meat and beans alongside strength training.",
	models.GoalImproveNutrition: "To improve nutrition, eat a varied diet with plenty of vegetables, fruit and whole grains.",
}

// Macros is a calorie and macronutrient total.
type Macros struct {
	Calories     float64 `json:"calories"`
	Protein      float64 `json:"protein"`
	Fat          float64 `json:"fat"`
	Carbohydrate float64 `json:"carbohydrate"`
}

func (m *Macros) add(o Macros) {
	m.Calories += o.Calories
	m.Protein += o.Protein
	m.Fat += o.Fat
	m.Carbohydrate += o.Carbohydrate
}

func (m Macros) rounded(places int) Macros {
	return Macros{
		Calories:     roundTo(m.Calories, places),
		Protein:      roundTo(m.Protein, places),
		Fat:          roundTo(m.Fat, places),
		Carbohydrate: roundTo(m.Carbohydrate, places),
	}
}

// DailySummary is one day of a user's diary.
type DailySummary struct {
	Date        string
	Logs        []models.DietaryLog
	MealGroups  map[string][]models.DietaryLog
	Summary     Macros
	DailyTarget *int
}

// DailyPoint is one entry in a report series.
type DailyPoint struct {
	Date string `json:"date"`
	Macros
}

// Report is a gap-filled daily series with averages over logged days.
type Report struct {
	Period    string       `json:"period"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Daily     []DailyPoint `json:"daily"`
	Average   Macros       `json:"average"`
}

// Comparison is the average intake measured against the target.
type Comparison struct {
	Difference float64 `json:"difference"`
	Status     string  `json:"status"`
}

// Advice is the 7-day intake assessment.
type Advice struct {
	DaysLogged     int         `json:"days_logged"`
	AvgCalories    float64     `json:"avg_calories"`
	TargetCalories *int        `json:"target_calories"`
	HealthGoal     string      `json:"health_goal"`
	Comparison     *Comparison `json:"comparison,omitempty"`
	Advice         []string    `json:"advice"`
}

// IngredientNutrition is one line of a recipe's nutrition breakdown. Values
// are per 100g.
type IngredientNutrition struct {
	IngredientID uuid.UUID `json:"ingredient_id"`
	Name         string    `json:"name"`
	Quantity     float64   `json:"quantity"`
	Unit         string    `json:"unit"`
	Calories     float64   `json:"calories"`
	Protein      float64   `json:"protein"`
	Fat          float64   `json:"fat"`
	Carbohydrate float64   `json:"carbohydrate"`
}

// RecipeNutrition is the calorie breakdown of a published recipe.
type RecipeNutrition struct {
	RecipeID           uuid.UUID             `json:"recipe_id"`
	RecipeName         string                `json:"recipe_name"`
	Servings           int                   `json:"servings"`
	TotalCalories      float64               `json:"total_calories"`
	PerServingCalories float64               `json:"per_serving_calories"`
	Ingredients        []IngredientNutrition `json:"ingredients"`
}

// NutritionService keeps the dietary diary and derives reports from it. All
// calendar days are taken in the configured location.
type NutritionService struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

var _ INutritionService = (*NutritionService)(nil)

// NutritionOption configures a NutritionService.
type NutritionOption func(*NutritionService)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) NutritionOption {
	return func(s *NutritionService) { s.now = now }
}

func NewNutritionService(db *gorm.DB, loc *time.Location, opts ...NutritionOption) *NutritionService {
	if loc == nil {
		loc = time.UTC
	}
	s := &NutritionService{db: db, loc: loc, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *NutritionService) today() time.Time {
	t := s.now().In(s.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.loc)
}

// Today is the current calendar date in the service's location.
func (s *NutritionService) Today() string {
	return s.today().Format(models.DateLayout)
}

func (s *NutritionService) parseDate(date string) (string, error) {
	if date == "" {
		return s.Today(), nil
	}
	t, err := time.ParseInLocation(models.DateLayout, date, s.loc)
	if err != nil {
		return "", FieldError("date", "date must be in YYYY-MM-DD format")
	}
	return t.Format(models.DateLayout), nil
}

// Daily returns the caller's logs for one date with totals. An empty date
// means today. Totals are zero when nothing was logged.
func (s *NutritionService) Daily(ctx context.Context, p *types.Principal, date string) (*DailySummary, error) {
	day, err := s.parseDate(date)
	if err != nil {
		return nil, err
	}

	var logs []models.DietaryLog
	err = s.db.WithContext(ctx).
		Preload("Recipe").
		Where("user_id = ? AND date = ?", p.UserID, day).
		Order("created_at").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load diary: %w", err)
	}

	out := &DailySummary{
		Date:       day,
		Logs:       logs,
		MealGroups: map[string][]models.DietaryLog{},
	}
	for _, l := range logs {
		out.Summary.add(Macros{Calories: l.Calories, Protein: l.Protein, Fat: l.Fat, Carbohydrate: l.Carbohydrate})
		out.MealGroups[l.MealType] = append(out.MealGroups[l.MealType], l)
	}
	out.Summary = out.Summary.rounded(2)

	target, _, err := s.profileTarget(ctx, p)
	if err != nil {
		return nil, err
	}
	out.DailyTarget = target
	return out, nil
}

// CreateLog writes a diary entry. With a recipe, missing calories come from
// the recipe total and missing macros from its ingredient lines; the values
// are copied so later recipe edits do not change the diary.
func (s *NutritionService) CreateLog(ctx context.Context, p *types.Principal, req *types.CreateDietaryLogRequest) (*models.DietaryLog, error) {
	name := strings.TrimSpace(req.CustomName)
	if req.Recipe == nil && name == "" {
		return nil, Invalid("either recipe or custom_name is required")
	}
	day, err := s.parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	log := &models.DietaryLog{
		UserID:     p.UserID,
		RecipeID:   req.Recipe,
		CustomName: name,
		MealType:   orDefault(req.MealType, "lunch"),
		Date:       day,
	}
	macros := Macros{
		Calories:     deref(req.Calories),
		Protein:      deref(req.Protein),
		Fat:          deref(req.Fat),
		Carbohydrate: deref(req.Carbohydrate),
	}

	if req.Recipe != nil {
		var recipe models.Recipe
		err := s.db.WithContext(ctx).
			Preload("Ingredients.Ingredient").
			Where("id = ? AND (is_published = ? OR author_id = ?)", *req.Recipe, true, p.UserID).
			First(&recipe).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, FieldError("recipe", "recipe does not exist")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load recipe: %w", err)
		}

		if macros.Calories == 0 {
			macros.Calories = recipe.TotalCalories
		}
		fromLines := recipeMacros(&recipe)
		if req.Protein == nil {
			macros.Protein = fromLines.Protein
		}
		if req.Fat == nil {
			macros.Fat = fromLines.Fat
		}
		if req.Carbohydrate == nil {
			macros.Carbohydrate = fromLines.Carbohydrate
		}
		log.Recipe = &recipe
	}

	macros = macros.rounded(2)
	log.Calories = macros.Calories
	log.Protein = macros.Protein
	log.Fat = macros.Fat
	log.Carbohydrate = macros.Carbohydrate

	if err := s.db.WithContext(ctx).Omit("Recipe").Create(log).Error; err != nil {
		return nil, fmt.Errorf("failed to create diary entry: %w", err)
	}
	return log, nil
}

// recipeMacros sums the ingredient lines of a recipe. Gram quantities are
// scaled from the per-100g values; any other unit counts as one 100g portion.
func recipeMacros(r *models.Recipe) Macros {
	var m Macros
	for _, ri := range r.Ingredients {
		if ri.Ingredient == nil {
			continue
		}
		factor := 1.0
		if isGrams(ri.Unit) {
			factor = ri.Quantity / 100
		}
		m.add(Macros{
			Protein:      ri.Ingredient.Protein * factor,
			Fat:          ri.Ingredient.Fat * factor,
			Carbohydrate: ri.Ingredient.Carbohydrate * factor,
		})
	}
	return m
}

func isGrams(unit string) bool {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case models.DefaultUnit, "g", "gram", "grams":
		return true
	}
	return false
}

// DeleteLog removes one of the caller's diary entries.
func (s *NutritionService) DeleteLog(ctx context.Context, p *types.Principal, id uuid.UUID) error {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, p.UserID).Delete(&models.DietaryLog{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete diary entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("diary entry")
	}
	return nil
}

type dayTotals struct {
	Date         string
	Calories     float64
	Protein      float64
	Fat          float64
	Carbohydrate float64
}

// Report aggregates the caller's diary over the week or month ending today.
// Every day of the window appears in Daily. Averages only count days with
// calories logged and are zero when there are none.
func (s *NutritionService) Report(ctx context.Context, p *types.Principal, period string) (*Report, error) {
	if period == "" {
		period = "week"
	}
	days, ok := reportPeriods[period]
	if !ok {
		return nil, FieldError("period", "period must be week or month")
	}

	end := s.today()
	start := end.AddDate(0, 0, -(days - 1))
	startDate, endDate := start.Format(models.DateLayout), end.Format(models.DateLayout)

	var rows []dayTotals
	err := s.db.WithContext(ctx).Model(&models.DietaryLog{}).
		Select("date, SUM(calories) AS calories, SUM(protein) AS protein, SUM(fat) AS fat, SUM(carbohydrate) AS carbohydrate").
		Where("user_id = ? AND date >= ? AND date <= ?", p.UserID, startDate, endDate).
		Group("date").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate diary: %w", err)
	}
	byDate := make(map[string]dayTotals, len(rows))
	for _, r := range rows {
		byDate[r.Date] = r
	}

	report := &Report{
		Period:    period,
		StartDate: startDate,
		EndDate:   endDate,
		Daily:     make([]DailyPoint, 0, days),
	}
	var sum Macros
	logged := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(models.DateLayout)
		t := byDate[key]
		m := Macros{Calories: t.Calories, Protein: t.Protein, Fat: t.Fat, Carbohydrate: t.Carbohydrate}.rounded(2)
		report.Daily = append(report.Daily, DailyPoint{Date: key, Macros: m})
		if m.Calories > 0 {
			sum.add(m)
			logged++
		}
	}
	if logged > 0 {
		n := float64(logged)
		report.Average = Macros{
			Calories:     sum.Calories / n,
			Protein:      sum.Protein / n,
			Fat:          sum.Fat / n,
			Carbohydrate: sum.Carbohydrate / n,
		}.rounded(1)
	}
	return report, nil
}

// Advice compares the caller's average intake over the last seven days with
// their calorie target and adds a tip for their health goal.
func (s *NutritionService) Advice(ctx context.Context, p *types.Principal) (*Advice, error) {
	end := s.today()
	start := end.AddDate(0, 0, -(adviceWindowDays - 1))

	var agg struct {
		Days  int64
		Total float64
	}
	err := s.db.WithContext(ctx).Model(&models.DietaryLog{}).
		Select("COUNT(DISTINCT date) AS days, COALESCE(SUM(calories), 0) AS total").
		Where("user_id = ? AND date >= ? AND date <= ?", p.UserID, start.Format(models.DateLayout), end.Format(models.DateLayout)).
		Scan(&agg).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate diary: %w", err)
	}

	target, goal, err := s.profileTarget(ctx, p)
	if err != nil {
		return nil, err
	}
	out := &Advice{
		DaysLogged:     int(agg.Days),
		TargetCalories: target,
		HealthGoal:     goal,
	}
	if agg.Days == 0 {
		out.Advice = []string{"You have not logged any meals in the last 7 days. Start recording what you eat to get personalized advice."}
		return out, nil
	}

	out.AvgCalories = roundTo(agg.Total/float64(agg.Days), 1)
	if target == nil {
		out.Advice = append(out.Advice, fmt.Sprintf(
			"Your average daily intake over the last 7 days is %.1f kcal. Set a daily calorie target in your profile to compare against it.",
			out.AvgCalories))
	} else {
		diff := out.AvgCalories - float64(*target)
		out.Comparison = &Comparison{Difference: roundTo(diff, 1)}
		switch {
		case math.Abs(diff) <= targetTolerance:
			out.Comparison.Status = "on_target"
			out.Advice = append(out.Advice, fmt.Sprintf(
				"Your average daily intake of %.1f kcal is close to your target of %d kcal. Keep it up!",
				out.AvgCalories, *target))
		case diff > 0:
			out.Comparison.Status = "above"
			out.Advice = append(out.Advice, fmt.Sprintf(
				"Your average daily intake is %.1f kcal, above your target of %d kcal. Try to cut about %.0f kcal per day.",
				out.AvgCalories, *target, math.Round(diff)))
		default:
			out.Comparison.Status = "below"
			out.Advice = append(out.Advice, fmt.Sprintf(
				"Your average daily intake is %.1f kcal, below your target of %d kcal. Try to add about %.0f kcal per day.",
				out.AvgCalories, *target, math.Round(-diff)))
		}
	}
	if tip, ok := goalTips[goal]; ok {
		out.Advice = append(out.Advice, tip)
	}
	return out, nil
}

func (s *NutritionService) profileTarget(ctx context.Context, p *types.Principal) (*int, string, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Select("daily_calories_target", "health_goal").
		Where("user_id = ?", p.UserID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to load profile: %w", err)
	}
	return profile.DailyCaloriesTarget, profile.HealthGoal, nil
}

// RecipeNutrition breaks down a published recipe's calories per serving.
func (s *NutritionService) RecipeNutrition(ctx context.Context, id uuid.UUID) (*RecipeNutrition, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Ingredients.Ingredient").
		Where("id = ? AND is_published = ?", id, true).
		First(&recipe).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("recipe")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load recipe: %w", err)
	}

	servings := recipe.Servings
	if servings < 1 {
		servings = 1
	}
	out := &RecipeNutrition{
		RecipeID:           recipe.ID,
		RecipeName:         recipe.Name,
		Servings:           servings,
		TotalCalories:      recipe.TotalCalories,
		PerServingCalories: roundTo(recipe.TotalCalories/float64(servings), 1),
		Ingredients:        make([]IngredientNutrition, 0, len(recipe.Ingredients)),
	}
	for _, ri := range recipe.Ingredients {
		if ri.Ingredient == nil {
			continue
		}
		out.Ingredients = append(out.Ingredients, IngredientNutrition{
			IngredientID: ri.IngredientID,
			Name:         ri.Ingredient.Name,
			Quantity:     ri.Quantity,
			Unit:         ri.Unit,
			Calories:     ri.Ingredient.Calories,
			Protein:      ri.Ingredient.Protein,
			Fat:          ri.Ingredient.Fat,
			Carbohydrate: ri.Ingredient.Carbohydrate,
		})
	}
	return out, nil
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
