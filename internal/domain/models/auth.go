package models

import (
	"github.com/golang-jwt/jwt/v5"

	"famtree/internal/rbac"
)

// AuthUser is the authenticated principal attached to every request.
type AuthUser struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Role     rbac.Role `json:"role"`
	TenantID *string   `json:"tenantId"`
}

// TokenClaims is the JWT payload carried by bearer tokens. The custom fields
// mirror AuthUser so a verified token reconstructs the principal without a
// database round trip.
type TokenClaims struct {
	UserID   string    `json:"id"`
	Email    string    `json:"email"`
	Role     rbac.Role `json:"role"`
	TenantID *string   `json:"tenantId"`
	jwt.RegisteredClaims
}

// User returns the principal encoded in the claims.
func (c *TokenClaims) User() *AuthUser {
	return &AuthUser{
		ID:       c.UserID,
		Email:    c.Email,
		Role:     c.Role,
		TenantID: c.TenantID,
	}
}
