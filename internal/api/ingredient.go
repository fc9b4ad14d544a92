package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/types"
)

// IngredientHandler serves the ingredient catalog. Reads are public; writes
// are staff only.
type IngredientHandler struct {
	ingredients service.IIngredientService
	auth        middleware.TokenValidator
	now         func() time.Time
}

func NewIngredientHandler(ingredients service.IIngredientService, auth middleware.TokenValidator) *IngredientHandler {
	return &IngredientHandler{ingredients: ingredients, auth: auth, now: time.Now}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)
	verifier, _ := h.auth.(middleware.StaffVerifier)
	staffOnly := []gin.HandlerFunc{requireAuth, middleware.RequireStaff(verifier)}

	ing := router.Group("/ingredient")
	{
		ing.GET("/", h.List)
		ing.POST("/", append(staffOnly, h.Create)...)
		ing.GET("/search", h.Search)
		ing.GET("/seasonal", h.Seasonal)
		ing.POST("/recognize", requireAuth, h.Recognize)
		ing.GET("/history", requireAuth, h.History)
		ing.POST("/nutrition-calculate", h.CalculateNutrition)
		ing.POST("/recommend", h.RecommendRecipes)
		ing.GET("/:id", h.Get)
		ing.PUT("/:id", append(staffOnly, h.Update)...)
		ing.PATCH("/:id", append(staffOnly, h.Update)...)
	}
}

func (h *IngredientHandler) List(c *gin.Context) {
	page, valid := StandardPagination.Page(c)
	if !valid {
		return
	}
	filter := service.IngredientFilter{Category: c.Query("category"), Search: c.Query("search")}
	items, total, err := h.ingredients.List(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, page, total, newIngredientDTOs(items))
}

func (h *IngredientHandler) Get(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	ing, err := h.ingredients.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", newIngredientDTO(ing))
}

func (h *IngredientHandler) Search(c *gin.Context) {
	items, err := h.ingredients.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", newIngredientDTOs(items))
}

// Seasonal lists ingredients in season for ?month=, defaulting to the
// current month.
func (h *IngredientHandler) Seasonal(c *gin.Context) {
	month := int(h.now().Month())
	if raw := c.Query("month"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, service.FieldError("month", "a valid integer is required"))
			return
		}
		month = m
	}
	items, err := h.ingredients.Seasonal(c.Request.Context(), month)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", gin.H{"month": month, "ingredients": newIngredientDTOs(items)})
}

func (h *IngredientHandler) Create(c *gin.Context) {
	var req types.IngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ing, err := h.ingredients.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, "ingredient created", newIngredientDTO(ing))
}

func (h *IngredientHandler) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req types.IngredientRequest
	if !bindJSON(c, &req) {
		return
	}
	ing, err := h.ingredients.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "ingredient updated", newIngredientDTO(ing))
}

func (h *IngredientHandler) Recognize(c *gin.Context) {
	var req types.RecognizeRequest
	if !bindJSON(c, &req) {
		return
	}
	rec, err := h.ingredients.Recognize(c.Request.Context(), principal(c), req.ImageURL)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "recognition complete", recognitionDTO{ID: rec.ID, Ingredients: rec.Ingredients})
}

func (h *IngredientHandler) History(c *gin.Context) {
	page, valid := SmallPagination.Page(c)
	if !valid {
		return
	}
	rows, total, err := h.ingredients.RecognitionHistory(c.Request.Context(), principal(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	if rows == nil {
		rows = []models.IngredientRecognition{}
	}
	paginated(c, page, total, rows)
}

func (h *IngredientHandler) CalculateNutrition(c *gin.Context) {
	var req types.NutritionCalculateRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.ingredients.CalculateNutrition(c.Request.Context(), req.IngredientID, req.QuantityGrams)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", nutritionResultDTO{
		Ingredient:    newIngredientDTO(res.Ingredient),
		QuantityGrams: res.QuantityGrams,
		Nutrition:     res.Nutrition,
	})
}

func (h *IngredientHandler) RecommendRecipes(c *gin.Context) {
	var req types.RecommendByIngredientsRequest
	if !bindJSON(c, &req) {
		return
	}
	recipes, err := h.ingredients.RecommendRecipes(c.Request.Context(), req.Ingredients)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", newRecipeDTOs(recipes))
}
