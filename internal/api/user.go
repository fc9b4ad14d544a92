package api

import (
	"github.com/gin-gonic/gin"

	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/service"
	"github.com/smartrecipe/backend/internal/types"
)

// UserHandler serves accounts, profiles and the follow graph.
type UserHandler struct {
	auth     service.IAuthService
	profiles service.IProfileService
}

func NewUserHandler(auth service.IAuthService, profiles service.IProfileService) *UserHandler {
	return &UserHandler{auth: auth, profiles: profiles}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireAuth := middleware.AuthMiddleware(h.auth)

	user := router.Group("/user")
	{
		user.POST("/register", h.Register)
		user.POST("/login", h.Login)
		user.POST("/logout", requireAuth, h.Logout)
		user.POST("/change-password", requireAuth, h.ChangePassword)
		user.POST("/token/refresh", h.Refresh)
		user.GET("/profile", requireAuth, h.GetProfile)
		user.PUT("/profile", requireAuth, h.UpdateProfile)
		user.PATCH("/profile", requireAuth, h.UpdateProfile)
		user.GET("/following", requireAuth, h.Following)
		user.GET("/followers", requireAuth, h.Followers)
		user.GET("/:id", middleware.OptionalAuth(h.auth), h.PublicProfile)
		user.POST("/:id/follow", requireAuth, h.Follow)
		user.DELETE("/:id/follow", requireAuth, h.Unfollow)
	}
	router.POST("/token/refresh", h.Refresh)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	nickname := user.Username
	if user.Profile != nil && user.Profile.Nickname != "" {
		nickname = user.Profile.Nickname
	}
	created(c, "registered successfully", gin.H{
		"user_id":  user.ID,
		"username": user.Username,
		"nickname": nickname,
	})
}

func (h *UserHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	user, tokens, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "login successful", gin.H{
		"access":  tokens.Access,
		"refresh": tokens.Refresh,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		},
		"profile": newProfileDTO(user),
	})
}

func (h *UserHandler) Logout(c *gin.Context) {
	var req types.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.auth.Logout(c.Request.Context(), principal(c), req.Refresh); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "logged out", nil)
}

func (h *UserHandler) Refresh(c *gin.Context) {
	var req types.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	access, err := h.auth.Refresh(c.Request.Context(), req.Refresh)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", gin.H{"access": access})
}

func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req types.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), principal(c), &req); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "password changed", nil)
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	user, err := h.profiles.GetProfile(c.Request.Context(), principal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", newProfileDTO(user))
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.profiles.UpdateProfile(c.Request.Context(), principal(c).UserID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "profile updated", newProfileDTO(user))
}

func (h *UserHandler) PublicProfile(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	profile, err := h.profiles.GetPublicProfile(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, "success", newPublicProfileDTO(profile))
}

func (h *UserHandler) Follow(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	following, err := h.profiles.ToggleFollow(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	message := "unfollowed"
	if following {
		message = "followed"
	}
	ok(c, message, gin.H{"is_following": following})
}

func (h *UserHandler) Unfollow(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	if err := h.profiles.Unfollow(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	ok(c, "unfollowed", gin.H{"is_following": false})
}

func (h *UserHandler) Following(c *gin.Context) {
	h.listFollows(c, true)
}

func (h *UserHandler) Followers(c *gin.Context) {
	h.listFollows(c, false)
}

func (h *UserHandler) listFollows(c *gin.Context, following bool) {
	page, valid := StandardPagination.Page(c)
	if !valid {
		return
	}
	list := h.profiles.ListFollowers
	if following {
		list = h.profiles.ListFollowing
	}
	follows, total, err := list(c.Request.Context(), principal(c).UserID, page)
	if err != nil {
		respondError(c, err)
		return
	}
	paginated(c, page, total, newFollowDTOs(follows, following))
}
