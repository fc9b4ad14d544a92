package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrecipe/backend/internal/testhelpers"
)

func TestDiaryEntriesAndDailySummary(t *testing.T) {
	env := newTestEnv(t)
	user := testhelpers.CreateUser(t, env.db, "alice")
	token := env.login(user)
	recipe := testhelpers.CreateRecipe(t, env.db, user, "燕麦粥", testhelpers.WithCalories(320))

	var entry map[string]interface{}
	decode(t, env.do("POST", "/api/nutrition/diary", token, map[string]interface{}{
		"recipe":    recipe.ID,
		"meal_type": "breakfast",
		"date":      "2024-03-01",
	}), http.StatusCreated, &entry)
	assert.Equal(t, float64(320), entry["calories"])
	assert.Equal(t, "燕麦粥", entry["food_name"])
	assert.Equal(t, "早餐", entry["meal_type_display"])

	decode(t, env.do("POST", "/api/nutrition/diary", token, map[string]interface{}{
		"custom_name": "苹果",
		"calories":    80,
		"meal_type":   "snack",
		"date":        "2024-03-01",
	}), http.StatusCreated, nil)

	var day map[string]interface{}
	decode(t, env.do("GET", "/api/nutrition/diary?date=2024-03-01", token, nil), http.StatusOK, &day)
	assert.Equal(t, "2024-03-01", day["date"])
	assert.Len(t, day["logs"], 2)
	summary := day["summary"].(map[string]interface{})
	assert.Equal(t, float64(400), summary["calories"])
	groups := day["meal_groups"].(map[string]interface{})
	assert.Len(t, groups["breakfast"], 1)
	assert.Len(t, groups["snack"], 1)
	assert.Equal(t, []interface{}{}, groups["dinner"])

	var fields map[string][]string
	decode(t, env.do("GET", "/api/nutrition/diary?date=03-01-2024", token, nil), http.StatusBadRequest, &fields)
	assert.Contains(t, fields, "date")

	res := decode(t, env.do("POST", "/api/nutrition/diary", token, map[string]interface{}{"calories": 100}), http.StatusBadRequest, nil)
	assert.Equal(t, "either recipe or custom_name is required", res.Message)

	id := entry["id"].(string)
	other := env.login(testhelpers.CreateUser(t, env.db, "bob"))
	decode(t, env.do("DELETE", "/api/nutrition/diary/"+id, other, nil), http.StatusNotFound, nil)
	decode(t, env.do("DELETE", "/api/nutrition/diary/"+id, token, nil), http.StatusOK, nil)
}

func TestNutritionReportPeriods(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(testhelpers.CreateUser(t, env.db, "alice"))

	decode(t, env.do("POST", "/api/nutrition/diary", token, map[string]interface{}{
		"custom_name": "米饭",
		"calories":    500,
	}), http.StatusCreated, nil)

	var week struct {
		Period  string                   `json:"period"`
		Daily   []map[string]interface{} `json:"daily"`
		Average map[string]float64       `json:"average"`
	}
	decode(t, env.do("GET", "/api/nutrition/report", token, nil), http.StatusOK, &week)
	assert.Equal(t, "week", week.Period)
	require.Len(t, week.Daily, 7)
	assert.Equal(t, float64(500), week.Daily[6]["calories"])
	assert.Equal(t, 500.0, week.Average["calories"])

	decode(t, env.do("GET", "/api/nutrition/report?period=month", token, nil), http.StatusOK, &week)
	assert.Len(t, week.Daily, 30)

	var fields map[string][]string
	decode(t, env.do("GET", "/api/nutrition/report?period=year", token, nil), http.StatusBadRequest, &fields)
	assert.Contains(t, fields, "period")
}

func TestNutritionAdvice(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(testhelpers.CreateUser(t, env.db, "alice"))

	var advice map[string]interface{}
	decode(t, env.do("GET", "/api/nutrition/advice", token, nil), http.StatusOK, &advice)
	assert.Equal(t, float64(0), advice["days_logged"])
	assert.NotContains(t, advice, "comparison")

	decode(t, env.do("PATCH", "/api/user/profile", token, map[string]interface{}{"daily_calories_target": 2000}), http.StatusOK, nil)
	decode(t, env.do("POST", "/api/nutrition/diary", token, map[string]interface{}{
		"custom_name": "大餐",
		"calories":    2600,
	}), http.StatusCreated, nil)

	decode(t, env.do("GET", "/api/nutrition/advice", token, nil), http.StatusOK, &advice)
	comparison := advice["comparison"].(map[string]interface{})
	assert.Equal(t, "above", comparison["status"])
	assert.Equal(t, float64(600), comparison["difference"])
}

func TestClearingCalorieTargetDropsComparison(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(testhelpers.CreateUser(t, env.db, "alice"))

	decode(t, env.do("PATCH", "/api/user/profile", token, map[string]interface{}{
		"daily_calories_target": 1800,
		"health_goal":           "lose_weight",
	}), http.StatusOK, nil)
	decode(t, env.do("POST", "/api/nutrition/diary", token, map[string]interface{}{
		"custom_name": "火锅",
		"calories":    2500,
	}), http.StatusCreated, nil)

	var before map[string]interface{}
	decode(t, env.do("GET", "/api/nutrition/advice", token, nil), http.StatusOK, &before)
	require.Contains(t, before, "comparison")

	var profile map[string]interface{}
	decode(t, env.do("PATCH", "/api/user/profile", token, map[string]interface{}{
		"daily_calories_target": nil,
		"health_goal":           nil,
	}), http.StatusOK, &profile)
	assert.Nil(t, profile["daily_calories_target"])
	assert.Equal(t, "", profile["health_goal"])

	var after map[string]interface{}
	decode(t, env.do("GET", "/api/nutrition/advice", token, nil), http.StatusOK, &after)
	assert.NotContains(t, after, "comparison")
}

func TestProfileTargetStillValidated(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(testhelpers.CreateUser(t, env.db, "alice"))

	var fields map[string][]string
	decode(t, env.do("PATCH", "/api/user/profile", token, map[string]interface{}{"daily_calories_target": 100}), http.StatusBadRequest, &fields)
	assert.Contains(t, fields, "daily_calories_target")

	fields = nil
	decode(t, env.do("PATCH", "/api/user/profile", token, map[string]interface{}{"health_goal": "bulk"}), http.StatusBadRequest, &fields)
	assert.Contains(t, fields, "health_goal")
}

func TestRecipeNutritionIsPublic(t *testing.T) {
	env := newTestEnv(t)
	author := testhelpers.CreateUser(t, env.db, "chef")
	tomato := testhelpers.CreateIngredient(t, env.db, "西红柿", 18, 0.9, 0.2, 3.9)
	recipe := testhelpers.CreateRecipe(t, env.db, author, "番茄汤", testhelpers.WithCalories(90), testhelpers.WithIngredient(tomato, 300))

	var res map[string]interface{}
	decode(t, env.do("GET", "/api/nutrition/recipe/"+recipe.ID.String(), "", nil), http.StatusOK, &res)
	assert.Equal(t, float64(45), res["per_serving_calories"])
	assert.Len(t, res["ingredients"], 1)
}
