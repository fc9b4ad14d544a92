package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalDistinguishesNullFromAbsent(t *testing.T) {
	var req UpdateProfileRequest

	require.NoError(t, json.Unmarshal([]byte(`{"daily_calories_target": null}`), &req))
	assert.True(t, req.DailyCaloriesTarget.Set)
	assert.Nil(t, req.DailyCaloriesTarget.Value)
	assert.False(t, req.HealthGoal.Set)

	req = UpdateProfileRequest{}
	require.NoError(t, json.Unmarshal([]byte(`{"daily_calories_target": 1800, "health_goal": "maintain"}`), &req))
	assert.True(t, req.DailyCaloriesTarget.Set)
	assert.Equal(t, 1800, *req.DailyCaloriesTarget.Value)
	assert.Equal(t, "maintain", *req.HealthGoal.Value)
	assert.Equal(t, 1800, req.DailyCaloriesTarget.Validatable())
}

func TestOptionalRejectsWrongType(t *testing.T) {
	var req UpdateProfileRequest
	assert.Error(t, json.Unmarshal([]byte(`{"daily_calories_target": "lots"}`), &req))
}
