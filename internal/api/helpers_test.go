package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/testhelpers"
)

type testEnv struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
}

// newTestEnv mounts every handler over a fresh sqlite database.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.NewTestDB(t)
	auth := service.NewAuthService(db, "test-secret", 15*time.Minute, 24*time.Hour, service.NewDBTokenStore(db))
	community := service.NewCommunityService(db)
	storage := service.NewLocalStorage(t.TempDir(), "/media")

	router := gin.New()
	NewSystemHandler(db, nil, zap.NewNop()).RegisterRoutes(&router.RouterGroup)
	v := router.Group("/api")
	NewUserHandler(auth, service.NewProfileService(db)).RegisterRoutes(v)
	NewIngredientHandler(service.NewIngredientService(db, nil), auth).RegisterRoutes(v)
	NewRecipeHandler(service.NewRecipeService(db), community, auth, nil).RegisterRoutes(v)
	NewCommunityHandler(community, auth, nil).RegisterRoutes(v)
	NewShoppingHandler(service.NewShoppingService(db), auth).RegisterRoutes(v)
	NewNutritionHandler(service.NewNutritionService(db, time.UTC), auth).RegisterRoutes(v)
	NewUploadHandler(service.NewUploadService(storage), auth).RegisterRoutes(v)

	return &testEnv{t: t, db: db, router: router, auth: auth}
}

// login returns an access token for user.
func (e *testEnv) login(user *models.User) string {
	e.t.Helper()
	pair, err := e.auth.IssueTokens(user)
	require.NoError(e.t, err)
	return pair.Access
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decode checks the status, that code mirrors it, and unmarshals data into
// out when out is not nil.
func decode(t *testing.T, w *httptest.ResponseRecorder, status int, out interface{}) envelope {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, status, env.Code)
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

type pageBody struct {
	Count    int64                    `json:"count"`
	Next     *string                  `json:"next"`
	Previous *string                  `json:"previous"`
	Results  []map[string]interface{} `json:"results"`
}
