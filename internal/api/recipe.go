package api

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/types"
)

type RecipeHandler struct {
	recipes     service.IRecipeService
	community   service.ICommunityService
	auth        middleware.TokenValidator
	createLimit *middleware.RateLimiter
}

// NewRecipeHandler wires the recipe routes. createLimit may be nil.
func NewRecipeHandler(recipes service.IRecipeService, community service.ICommunityService, auth middleware.TokenValidator, createLimit *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipes:     recipes,
		community:   community,
		auth:        auth,
		createLimit: createLimit,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)
	optionalAuth := middleware.OptionalAuth(h.auth)

	recipes := router.Group("/recipe")
	{
		recipes.GET("/", h.ListRecipes)
		recipes.POST("/create", requireAuth, h.createLimit.Middleware(), h.CreateRecipe)
		recipes.GET("/search", h.SearchRecipes)
		recipes.GET("/recommend", h.RecommendRecipes)
		recipes.GET("/favorites", requireAuth, h.Favorites)
		recipes.GET("/my-recipes", requireAuth, h.MyRecipes)
		recipes.GET("/history", requireAuth, h.History)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.PUT("/:id", requireAuth, h.UpdateRecipe)
		recipes.PATCH("/:id", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id", requireAuth, h.DeleteRecipe)
		recipes.PUT("/:id/update", requireAuth, h.UpdateRecipe)
		recipes.PATCH("/:id/update", requireAuth, h.UpdateRecipe)
		recipes.DELETE("/:id/delete", requireAuth, h.DeleteRecipe)
		recipes.POST("/:id/like", requireAuth, h.LikeRecipe)
		recipes.POST("/:id/favorite", requireAuth, h.FavoriteRecipe)
		recipes.POST("/:id/cook", requireAuth, h.CookRecipe)
		recipes.GET("/:id/comments", h.ListComments)
		recipes.POST("/:id/comments", requireAuth, h.CreateComment)
	}
}

// ListRecipes pages through published recipes. Supports category,
// difficulty, cuisine_type, search and ordering query parameters.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	page, valid := StandardPagination.Page(c)
	if !valid {
		return
	}
	filter := types.RecipeFilter{
		Category:    c.Query("category"),
		Difficulty:  c.Query("difficulty"),
		CuisineType: c.Query("cuisine_type"),
		Search:      c.Query("search"),
		Ordering:    c.Query("ordering"),
	}
	recipes, total, err := h.recipes.List(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, page, total, newRecipeDTOs(recipes))
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	detail, err := h.recipes.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", newRecipeDetailDTO(detail))
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.CreateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipes.Create(c.Request.Context(), principal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, "recipe created", newRecipeDetailDTO(&service.RecipeDetail{Recipe: recipe}))
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req types.UpdateRecipeRequest
	if !bindJSON(c, &req) {
		return
	}
	recipe, err := h.recipes.Update(c.Request.Context(), principal(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "recipe updated", newRecipeDetailDTO(&service.RecipeDetail{Recipe: recipe}))
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.recipes.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "recipe deleted", nil)
}

func (h *RecipeHandler) LikeRecipe(c *gin.Context) {
	h.toggle(c, h.recipes.ToggleLike, "is_liked", "likes")
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	h.toggle(c, h.recipes.ToggleFavorite, "is_favorited", "favorites")
}

func (h *RecipeHandler) toggle(c *gin.Context, fn func(context.Context, *types.Principal, uuid.UUID) (*service.ToggleResult, error), stateKey, countKey string) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	res, err := fn(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", gin.H{stateKey: res.Active, countKey: res.Count})
}

func (h *RecipeHandler) CookRecipe(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.recipes.Cook(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "cooking recorded", nil)
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	recipes, err := h.recipes.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", newRecipeDTOs(recipes))
}

func (h *RecipeHandler) RecommendRecipes(c *gin.Context) {
	recipes, err := h.recipes.Recommend(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", newRecipeDTOs(recipes))
}

func (h *RecipeHandler) Favorites(c *gin.Context) {
	h.listOwn(c, h.recipes.Favorites)
}

func (h *RecipeHandler) MyRecipes(c *gin.Context) {
	h.listOwn(c, h.recipes.MyRecipes)
}

func (h *RecipeHandler) listOwn(c *gin.Context, list func(context.Context, *types.Principal, types.Page) ([]models.Recipe, int64, error)) {
	page, valid := StandardPagination.Page(c)
	if !valid {
		return
	}
	recipes, total, err := list(c.Request.Context(), principal(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, page, total, newRecipeDTOs(recipes))
}

func (h *RecipeHandler) History(c *gin.Context) {
	page, valid := StandardPagination.Page(c)
	if !valid {
		return
	}
	rows, total, err := h.recipes.History(c.Request.Context(), principal(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, page, total, newBehaviorDTOs(rows))
}

func (h *RecipeHandler) ListComments(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	listComments(c, h.community, models.TargetRecipe, id)
}

func (h *RecipeHandler) CreateComment(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	createComment(c, h.community, models.TargetRecipe, id)
}
