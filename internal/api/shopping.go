package api

import (
	"github.com/gin-gonic/gin"

	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/types"
)

type ShoppingHandler struct {
	shopping service.IShoppingService
	auth     middleware.TokenValidator
}

func NewShoppingHandler(shopping service.IShoppingService, auth middleware.TokenValidator) *ShoppingHandler {
	return &ShoppingHandler{shopping: shopping, auth: auth}
}

func (h *ShoppingHandler) RegisterRoutes(router *gin.RouterGroup) {
	list := router.Group("/shopping-list", middleware.AuthMiddleware(h.auth))
	{
		list.GET("/", h.List)
		list.POST("/", h.Add)
		list.POST("/generate", h.Generate)
		list.PUT("/:id", h.Update)
		list.PATCH("/:id", h.Update)
		list.DELETE("/:id", h.Delete)
	}
}

// List pages through the caller's list. only_unpurchased=true hides bought
// items.
func (h *ShoppingHandler) List(c *gin.Context) {
	page, valid := StandardPagination.Page(c)
	if !valid {
		return
	}
	onlyUnpurchased := c.Query("only_unpurchased") == "true"
	items, total, err := h.shopping.List(c.Request.Context(), principal(c), onlyUnpurchased, page)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, page, total, newShoppingItemDTOs(items))
}

// Add merges into an existing unpurchased row when there is one, answering
// 200 instead of 201.
func (h *ShoppingHandler) Add(c *gin.Context) {
	var req types.AddShoppingItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, merged, err := h.shopping.Add(c.Request.Context(), principal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	if merged {
		ok(c, "quantity added to existing item", newShoppingItemDTO(item))
		return
	}
	created(c, "item added", newShoppingItemDTO(item))
}

func (h *ShoppingHandler) Update(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var req types.UpdateShoppingItemRequest
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.shopping.Update(c.Request.Context(), principal(c), id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "item updated", newShoppingItemDTO(item))
}

func (h *ShoppingHandler) Delete(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.shopping.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "item deleted", nil)
}

func (h *ShoppingHandler) Generate(c *gin.Context) {
	var req types.GenerateShoppingListRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.shopping.GenerateFromRecipe(c.Request.Context(), principal(c), req.RecipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "shopping list generated", res)
}
