package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrecipe/backend/internal/testhelpers"
)

func TestRegisterLoginAndProfile(t *testing.T) {
	env := newTestEnv(t)

	var registered map[string]interface{}
	w := env.do("POST", "/api/user/register", "", map[string]interface{}{
		"username":         "alice",
		"password":         "secret123",
		"password_confirm": "secret123",
		"email":            "alice@example.com",
		"nickname":         "Alice",
	})
	decode(t, w, http.StatusCreated, &registered)
	assert.Equal(t, "alice", registered["username"])
	assert.Equal(t, "Alice", registered["nickname"])
	require.NotEmpty(t, registered["user_id"])

	var login struct {
		Access  string                 `json:"access"`
		Refresh string                 `json:"refresh"`
		User    map[string]interface{} `json:"user"`
		Profile map[string]interface{} `json:"profile"`
	}
	w = env.do("POST", "/api/user/login", "", map[string]string{"username": "alice", "password": "secret123"})
	decode(t, w, http.StatusOK, &login)
	require.NotEmpty(t, login.Access)
	require.NotEmpty(t, login.Refresh)
	assert.Equal(t, registered["user_id"], login.User["id"])
	assert.Equal(t, registered["user_id"], login.Profile["user"])
	assert.Equal(t, "未知", login.Profile["age_group"])

	var profile map[string]interface{}
	w = env.do("PATCH", "/api/user/profile", login.Access, map[string]interface{}{
		"age":         28,
		"gender":      "female",
		"health_goal": "lose_weight",
		"allergies":   []string{"花生"},
	})
	decode(t, w, http.StatusOK, &profile)
	assert.Equal(t, "青年", profile["age_group"])
	assert.Equal(t, "女", profile["gender_display"])
	assert.Equal(t, "减肥", profile["health_goal_display"])
	assert.Equal(t, []interface{}{"花生"}, profile["allergies"])

	var refreshed map[string]string
	w = env.do("POST", "/api/token/refresh", "", map[string]string{"refresh": login.Refresh})
	decode(t, w, http.StatusOK, &refreshed)
	assert.NotEmpty(t, refreshed["access"])

	w = env.do("POST", "/api/user/logout", login.Access, map[string]string{"refresh": login.Refresh})
	decode(t, w, http.StatusOK, nil)

	w = env.do("POST", "/api/user/token/refresh", "", map[string]string{"refresh": login.Refresh})
	decode(t, w, http.StatusUnauthorized, nil)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	var fields map[string][]string
	w := env.do("POST", "/api/user/register", "", map[string]interface{}{
		"username":         "bob",
		"password":         "secret123",
		"password_confirm": "different",
		"email":            "not-an-email",
	})
	decode(t, w, http.StatusBadRequest, &fields)
	assert.Contains(t, fields, "password_confirm")
	assert.Contains(t, fields, "email")

	testhelpers.CreateUser(t, env.db, "carol")
	w = env.do("POST", "/api/user/register", "", map[string]interface{}{
		"username":         "carol",
		"password":         "secret123",
		"password_confirm": "secret123",
	})
	decode(t, w, http.StatusBadRequest, &fields)
	assert.Contains(t, fields, "username")

	w = env.do("POST", "/api/user/login", "", map[string]string{"username": "carol", "password": "wrong-password"})
	decode(t, w, http.StatusUnauthorized, nil)
}

func TestProfileRequiresToken(t *testing.T) {
	env := newTestEnv(t)

	decode(t, env.do("GET", "/api/user/profile", "", nil), http.StatusUnauthorized, nil)
	decode(t, env.do("GET", "/api/user/profile", "garbage", nil), http.StatusUnauthorized, nil)
}

func TestFollowEndpoints(t *testing.T) {
	env := newTestEnv(t)
	alice := testhelpers.CreateUser(t, env.db, "alice")
	bob := testhelpers.CreateUser(t, env.db, "bob")
	token := env.login(alice)

	var state map[string]bool
	decode(t, env.do("POST", "/api/user/"+bob.ID.String()+"/follow", token, nil), http.StatusOK, &state)
	assert.True(t, state["is_following"])

	var public map[string]interface{}
	decode(t, env.do("GET", "/api/user/"+bob.ID.String(), token, nil), http.StatusOK, &public)
	assert.Equal(t, "bob", public["username"])
	assert.Equal(t, float64(1), public["follower_count"])
	assert.Equal(t, true, public["is_following"])

	var following pageBody
	decode(t, env.do("GET", "/api/user/following", token, nil), http.StatusOK, &following)
	require.Len(t, following.Results, 1)
	user := following.Results[0]["user"].(map[string]interface{})
	assert.Equal(t, "bob", user["username"])

	decode(t, env.do("DELETE", "/api/user/"+bob.ID.String()+"/follow", token, nil), http.StatusOK, &state)
	assert.False(t, state["is_following"])
	decode(t, env.do("DELETE", "/api/user/"+bob.ID.String()+"/follow", token, nil), http.StatusOK, nil)

	decode(t, env.do("GET", "/api/user/not-a-uuid", token, nil), http.StatusNotFound, nil)
}
