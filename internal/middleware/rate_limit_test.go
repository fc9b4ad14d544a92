package middleware_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartrecipe/backend/internal/middleware"
	"github.com/smartrecipe/backend/internal/testhelpers"
	"github.com/smartrecipe/backend/internal/types"
)

func TestRateLimiterIsAllowed(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Window:    time.Hour,
		Limit:     2,
		KeyPrefix: "rate_limit:test",
	}, zap.NewNop())
	ctx := context.Background()

	allowed, remaining, _, err := rl.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)

	allowed, _, _, err = rl.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, remaining, reset, err := rl.IsAllowed(ctx, "u1")
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.Zero(t, remaining)
	assert.True(t, reset.After(time.Now()))

	allowed, _, _, err = rl.IsAllowed(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := middleware.NewRateLimiter(client, middleware.RateLimitConfig{
		Window:    time.Hour,
		Limit:     1,
		KeyPrefix: "rate_limit:test",
	}, zap.NewNop())

	validator := new(MockTokenValidator)
	validator.On("ValidateAccessToken", "good").Return(&types.TokenClaims{UserID: uuid.New()}, nil)

	r := gin.New()
	r.GET("/", middleware.AuthMiddleware(validator), rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := serve(r, "Bearer good")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = serve(r, "Bearer good")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, float64(429), decode(t, w)["code"])
}

func TestNilRateLimiterPassesThrough(t *testing.T) {
	var rl *middleware.RateLimiter
	r := gin.New()
	r.GET("/", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, "").Code)
}
