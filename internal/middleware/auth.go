package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/smartrecipe/backend/internal/types"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID    = "user_id"
	ContextPrincipal = "principal"
)

var (
	errMissingHeader = errors.New("authentication credentials were not provided")
	errHeaderFormat  = errors.New("invalid authorization header format")
	errNotStaff      = errors.New("you do not have permission to perform this action")
)

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*types.TokenClaims, error)
}

// StaffVerifier re-reads an account's staff and active flags from the user
// store.
type StaffVerifier interface {
	IsActiveStaff(ctx context.Context, userID uuid.UUID) (bool, error)
}

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := bearerToken(c)
		if err != nil {
			abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		claims, err := validator.ValidateAccessToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, err.Error())
			return
		}
		setPrincipal(c, claims)
		c.Next()
	}
}

// OptionalAuth identifies the caller when an Authorization header is sent
// and lets anonymous requests through. A bad token is still rejected.
func OptionalAuth(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		AuthMiddleware(validator)(c)
	}
}

// RequireStaff must run after AuthMiddleware. When verifier is non-nil the
// token's staff claim must also hold for the stored account, so a deactivated
// or demoted user is refused before the access token expires.
func RequireStaff(verifier StaffVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		if p == nil {
			abort(c, http.StatusUnauthorized, errMissingHeader.Error())
			return
		}
		if !p.IsStaff {
			abort(c, http.StatusForbidden, errNotStaff.Error())
			return
		}
		if verifier != nil {
			ok, err := verifier.IsActiveStaff(c.Request.Context(), p.UserID)
			if err != nil {
				_ = c.Error(err)
				abort(c, http.StatusInternalServerError, "internal server error")
				return
			}
			if !ok {
				abort(c, http.StatusForbidden, errNotStaff.Error())
				return
			}
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil for anonymous requests.
func GetPrincipal(c *gin.Context) *types.Principal {
	v, ok := c.Get(ContextPrincipal)
	if !ok {
		return nil
	}
	p, _ := v.(*types.Principal)
	return p
}

func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errMissingHeader
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", errHeaderFormat
	}
	return parts[1], nil
}

func setPrincipal(c *gin.Context, claims *types.TokenClaims) {
	c.Set(ContextUserID, claims.UserID)
	c.Set(ContextPrincipal, claims.Principal())
}

// userKey identifies the caller for per-user limits and log lines.
func userKey(c *gin.Context) string {
	if v, ok := c.Get(ContextUserID); ok {
		if id, ok := v.(uuid.UUID); ok {
			return id.String()
		}
	}
	return ""
}

// abort ends the request with the API's {code, message, data} envelope.
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": status, "message": message, "data": nil})
}
