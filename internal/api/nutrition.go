package api

import (
	"github.com/gin-gonic/gin"

	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/types"
)

type NutritionHandler struct {
	nutrition service.INutritionService
	auth      middleware.TokenValidator
}

func NewNutritionHandler(nutrition service.INutritionService, auth middleware.TokenValidator) *NutritionHandler {
	return &NutritionHandler{nutrition: nutrition, auth: auth}
}

func (h *NutritionHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)

	nutrition := router.Group("/nutrition")
	{
		nutrition.GET("/diary", requireAuth, h.Diary)
		nutrition.POST("/diary", requireAuth, h.CreateLog)
		nutrition.DELETE("/diary/:id", requireAuth, h.DeleteLog)
		nutrition.GET("/report", requireAuth, h.Report)
		nutrition.GET("/advice", requireAuth, h.Advice)
		nutrition.GET("/recipe/:id", h.RecipeNutrition)
	}
}

// Diary returns one day of the caller's diary, ?date=YYYY-MM-DD or today.
func (h *NutritionHandler) Diary(c *gin.Context) {
	day, err := h.nutrition.Daily(c.Request.Context(), principal(c), c.Query("date"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", newDailySummaryDTO(day))
}

func (h *NutritionHandler) CreateLog(c *gin.Context) {
	var req types.CreateDietaryLogRequest
	if !bindJSON(c, &req) {
		return
	}
	entry, err := h.nutrition.CreateLog(c.Request.Context(), principal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, "diary entry added", newDietaryLogDTO(entry))
}

func (h *NutritionHandler) DeleteLog(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.nutrition.DeleteLog(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "diary entry deleted", nil)
}

// Report returns the gap-filled series for ?period=week|month.
func (h *NutritionHandler) Report(c *gin.Context) {
	report, err := h.nutrition.Report(c.Request.Context(), principal(c), c.Query("period"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", report)
}

func (h *NutritionHandler) Advice(c *gin.Context) {
	advice, err := h.nutrition.Advice(c.Request.Context(), principal(c))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", advice)
}

func (h *NutritionHandler) RecipeNutrition(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	res, err := h.nutrition.RecipeNutrition(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", res)
}
