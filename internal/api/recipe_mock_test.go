package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/smartrecipe/backend/internal/mocks"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/types"
)

func setupMockedRecipes(t *testing.T) (*gin.Engine, *mocks.MockRecipeService, *mocks.MockAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	recipes := new(mocks.MockRecipeService)
	auth := new(mocks.MockAuthService)
	t.Cleanup(func() {
		recipes.AssertExpectations(t)
		auth.AssertExpectations(t)
	})

	router := gin.New()
	NewRecipeHandler(recipes, service.NewCommunityService(nil), auth, nil).RegisterRoutes(router.Group("/api"))
	return router, recipes, auth
}

func serveMocked(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRecipeHandlerHidesInternalErrors(t *testing.T) {
	router, recipes, _ := setupMockedRecipes(t)
	recipes.On("Recommend", mock.Anything).Return(nil, errors.New("connection reset by peer")).Once()

	w := serveMocked(router, "GET", "/api/recipe/recommend", "")
	env := decode(t, w, http.StatusInternalServerError, nil)
	assert.Equal(t, "internal server error", env.Message)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestRecipeHandlerPassesPrincipalFromToken(t *testing.T) {
	router, recipes, auth := setupMockedRecipes(t)
	userID := uuid.New()
	recipeID := uuid.New()

	auth.On("ValidateAccessToken", "good-token").
		Return(&types.TokenClaims{UserID: userID, Username: "chef", TokenType: types.AccessToken}, nil)
	recipes.On("Delete", mock.Anything, mock.MatchedBy(func(p *types.Principal) bool {
		return p.UserID == userID && p.Username == "chef"
	}), recipeID).Return(nil).Once()

	decode(t, serveMocked(router, "DELETE", "/api/recipe/"+recipeID.String(), "good-token"), http.StatusOK, nil)
}

func TestRecipeHandlerRejectsInvalidToken(t *testing.T) {
	router, _, auth := setupMockedRecipes(t)
	auth.On("ValidateAccessToken", "stale").Return(nil, service.ErrInvalidToken).Once()

	decode(t, serveMocked(router, "POST", "/api/recipe/"+uuid.NewString()+"/like", "stale"), http.StatusUnauthorized, nil)
}

func TestRecipeHandlerRendersEmptyResults(t *testing.T) {
	router, recipes, _ := setupMockedRecipes(t)
	recipes.On("Search", mock.Anything, "鱼").Return(nil, nil).Once()

	var found []interface{}
	decode(t, serveMocked(router, "GET", "/api/recipe/search?q=%E9%B1%BC", ""), http.StatusOK, &found)
	assert.NotNil(t, found)
	assert.Empty(t, found)
}
