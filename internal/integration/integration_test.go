package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smartrecipe/backend/internal/api"
	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/router"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/testhelpers"
)

type stack struct {
	t      *testing.T
	db     *gorm.DB
	engine *gin.Engine
}

// newStack wires the whole application against postgres and redis
// containers. Post creation is limited to two per hour.
func newStack(t *testing.T) *stack {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupPostgres(t)
	client := testhelpers.SetupRedis(t)
	log := zap.NewNop()

	auth := service.NewAuthService(db, "integration-secret", 15*time.Minute, 24*time.Hour, service.NewRedisTokenStore(client))
	community := service.NewCommunityService(db)
	postLimit := middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Window:    time.Hour,
		Limit:     2,
		KeyPrefix: "rate_limit:it_posts",
	}, log)
	registry := prometheus.NewRegistry()

	engine := router.SetupRouter(router.Options{
		Logger:      log,
		Metrics:     middleware.NewMetrics(registry),
		CORSOrigins: []string{"*"},
	},
		api.NewSystemHandler(db, registry, log),
		api.NewUserHandler(auth, service.NewProfileService(db)),
		api.NewIngredientHandler(service.NewIngredientService(db, nil), auth),
		api.NewRecipeHandler(service.NewRecipeService(db), community, auth, middleware.NewRecipeCreationRateLimiter(client, log)),
		api.NewCommunityHandler(community, auth, postLimit),
		api.NewShoppingHandler(service.NewShoppingService(db), auth),
		api.NewNutritionHandler(service.NewNutritionService(db, time.UTC), auth),
	)
	return &stack{t: t, db: db, engine: engine}
}

func (s *stack) call(method, path, token string, body interface{}, out interface{}) int {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env api.Response
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	require.Equal(s.t, w.Code, env.Code)
	if out != nil && env.Data != nil {
		raw, err := json.Marshal(env.Data)
		require.NoError(s.t, err)
		require.NoError(s.t, json.Unmarshal(raw, out))
	}
	return w.Code
}

func (s *stack) signUp(username string) (access, refresh string) {
	s.t.Helper()
	require.Equal(s.t, http.StatusCreated, s.call("POST", "/api/user/register", "", map[string]string{
		"username":         username,
		"password":         "secret123",
		"password_confirm": "secret123",
	}, nil))
	var tokens struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	require.Equal(s.t, http.StatusOK, s.call("POST", "/api/user/login", "", map[string]string{
		"username": username,
		"password": "secret123",
	}, &tokens))
	return tokens.Access, tokens.Refresh
}

func TestFullStackOnPostgres(t *testing.T) {
	s := newStack(t)
	access, refresh := s.signUp("chef")

	tomato := testhelpers.CreateIngredient(t, s.db, "西红柿", 18, 0.9, 0.2, 3.9, 6, 7, 8)
	egg := testhelpers.CreateIngredient(t, s.db, "鸡蛋", 143, 12.6, 9.5, 0.7)

	t.Run("seasonal uses jsonb containment", func(t *testing.T) {
		var out struct {
			Ingredients []map[string]interface{} `json:"ingredients"`
		}
		require.Equal(t, http.StatusOK, s.call("GET", "/api/ingredient/seasonal?month=7", "", nil, &out))
		require.Len(t, out.Ingredients, 1)
		assert.Equal(t, "西红柿", out.Ingredients[0]["name"])
	})

	var recipeID string
	t.Run("create and search recipe", func(t *testing.T) {
		var created map[string]interface{}
		require.Equal(t, http.StatusCreated, s.call("POST", "/api/recipe/create", access, map[string]interface{}{
			"name": "番茄炒蛋",
			"tags": []string{"Quick"},
			"ingredients": []map[string]interface{}{
				{"ingredient_id": tomato.ID, "quantity": 200},
				{"ingredient_id": egg.ID, "quantity": 100},
			},
			"steps": []map[string]interface{}{{"step_number": 1, "description": "炒"}},
		}, &created))
		recipeID = created["id"].(string)

		var page struct {
			Count int64 `json:"count"`
		}
		require.Equal(t, http.StatusOK, s.call("GET", "/api/recipe/?search=quick", "", nil, &page))
		assert.Equal(t, int64(1), page.Count)
	})

	t.Run("shopping list merges under row locks", func(t *testing.T) {
		var res map[string]int
		require.Equal(t, http.StatusOK, s.call("POST", "/api/shopping-list/generate", access, map[string]string{"recipe_id": recipeID}, &res))
		assert.Equal(t, 2, res["added_count"])
		require.Equal(t, http.StatusOK, s.call("POST", "/api/shopping-list/generate", access, map[string]string{"recipe_id": recipeID}, &res))
		assert.Equal(t, 2, res["merged_count"])
	})

	t.Run("post creation is rate limited", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			require.Equal(t, http.StatusCreated, s.call("POST", "/api/community/posts", access, map[string]string{
				"content": fmt.Sprintf("post %d", i),
			}, nil))
		}
		var data map[string]int
		assert.Equal(t, http.StatusTooManyRequests, s.call("POST", "/api/community/posts", access, map[string]string{"content": "one too many"}, &data))
		assert.Greater(t, data["retry_after"], 0)
	})

	t.Run("logout revokes the refresh token in redis", func(t *testing.T) {
		require.Equal(t, http.StatusOK, s.call("POST", "/api/token/refresh", "", map[string]string{"refresh": refresh}, nil))
		require.Equal(t, http.StatusOK, s.call("POST", "/api/user/logout", access, map[string]string{"refresh": refresh}, nil))
		assert.Equal(t, http.StatusUnauthorized, s.call("POST", "/api/token/refresh", "", map[string]string{"refresh": refresh}, nil))
	})
}
