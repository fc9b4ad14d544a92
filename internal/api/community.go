package api

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/models"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/types"
)

type CommunityHandler struct {
	community   service.ICommunityService
	auth        middleware.TokenValidator
	createLimit *middleware.RateLimiter
}

// NewCommunityHandler wires the post and comment routes. createLimit may be
// nil.
func NewCommunityHandler(community service.ICommunityService, auth middleware.TokenValidator, createLimit *middleware.RateLimiter) *CommunityHandler {
	return &CommunityHandler{community: community, auth: auth, createLimit: createLimit}
}

func (h *CommunityHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)
	optionalAuth := middleware.OptionalAuth(h.auth)

	community := router.Group("/community")
	{
		community.GET("/posts", optionalAuth, h.ListPosts)
		community.POST("/posts", requireAuth, h.createLimit.Middleware(), h.CreatePost)
		community.GET("/posts/:id", optionalAuth, h.GetPost)
		community.DELETE("/posts/:id", requireAuth, h.DeletePost)
		community.POST("/posts/:id/like", requireAuth, h.LikePost)
		community.GET("/posts/:id/comments", h.ListPostComments)
		community.POST("/posts/:id/comments", requireAuth, h.CreatePostComment)
		community.GET("/comment", h.ListComments)
		community.POST("/comment/create", requireAuth, h.CreateComment)
		community.DELETE("/comment/:id", requireAuth, h.DeleteComment)
	}
}

func (h *CommunityHandler) ListPosts(c *gin.Context) {
	page, valid := StandardPagination.Page(c)
	if !valid {
		return
	}
	posts, total, err := h.community.ListPosts(c.Request.Context(), principal(c), page)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, page, total, newPostDTOs(posts))
}

func (h *CommunityHandler) GetPost(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	post, err := h.community.GetPost(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", newPostDTO(post))
}

func (h *CommunityHandler) CreatePost(c *gin.Context) {
	var req types.CreatePostRequest
	if !bindJSON(c, &req) {
		return
	}
	post, err := h.community.CreatePost(c.Request.Context(), principal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, "post published", newPostDTO(post))
}

func (h *CommunityHandler) DeletePost(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.community.DeletePost(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "post deleted", nil)
}

func (h *CommunityHandler) LikePost(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	res, err := h.community.TogglePostLike(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", gin.H{"is_liked": res.Active, "likes": res.Count})
}

func (h *CommunityHandler) ListPostComments(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	listComments(c, h.community, models.TargetPost, id)
}

func (h *CommunityHandler) CreatePostComment(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	createComment(c, h.community, models.TargetPost, id)
}

// ListComments lists comments for ?target_type=&target_id=.
func (h *CommunityHandler) ListComments(c *gin.Context) {
	targetType := c.Query("target_type")
	if targetType == "" {
		respondError(c, service.FieldError("target_type", "this field is required"))
		return
	}
	targetID, err := uuid.Parse(c.Query("target_id"))
	if err != nil {
		respondError(c, service.FieldError("target_id", "must be a valid UUID"))
		return
	}
	listComments(c, h.community, targetType, targetID)
}

func (h *CommunityHandler) CreateComment(c *gin.Context) {
	var req types.CreateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.community.CreateComment(c.Request.Context(), principal(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, "comment posted", newCommentDTO(comment))
}

func (h *CommunityHandler) DeleteComment(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.community.DeleteComment(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "comment deleted", nil)
}

// commentBody is a comment posted under a target's own route.
type commentBody struct {
	Content string     `json:"content" binding:"required"`
	Parent  *uuid.UUID `json:"parent"`
}

func listComments(c *gin.Context, community service.ICommunityService, targetType string, targetID uuid.UUID) {
	comments, err := community.ListComments(c.Request.Context(), targetType, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", newCommentDTOs(comments))
}

func createComment(c *gin.Context, community service.ICommunityService, targetType string, targetID uuid.UUID) {
	var body commentBody
	if !bindJSON(c, &body) {
		return
	}
	comment, err := community.CreateComment(c.Request.Context(), principal(c), &types.CreateCommentRequest{
		TargetType: targetType,
		TargetID:   targetID,
		Content:    body.Content,
		Parent:     body.Parent,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	created(c, "comment posted", newCommentDTO(comment))
}
