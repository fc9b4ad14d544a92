package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token types carried in TokenClaims.TokenType.
const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

// TokenClaims represents the claims in a JWT token
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	IsStaff   bool      `json:"is_staff"`
	TokenType string    `json:"token_type"`
}

// Principal is the authenticated caller, passed explicitly to services.
type Principal struct {
	UserID   uuid.UUID
	Username string
	IsStaff  bool
}

// Principal extracts the caller identity from the claims.
func (c *TokenClaims) Principal() *Principal {
	return &Principal{UserID: c.UserID, Username: c.Username, IsStaff: c.IsStaff}
}

// TokenPair is returned on login and refresh.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Page selects a window of a list.
type Page struct {
	Number int
	Size   int
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}
