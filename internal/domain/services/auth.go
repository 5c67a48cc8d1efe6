package services

import (
	"context"

	"famtree/internal/domain/models"
	"famtree/internal/rbac"
)

// RegisterRequest represents a request to create an account
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TenantName string `json:"tenantName"`
}

// LoginRequest represents a credential check
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult carries a signed token plus the principal's tenancy context.
type AuthResult struct {
	Token    string    `json:"token"`
	Role     rbac.Role `json:"role"`
	TenantID *string   `json:"tenantId"`
}

// AuthService defines account registration and login.
//
// The first account ever registered creates a tenant and becomes its Admin;
// every later account starts as a tenantless Visitor until invited.
type AuthService interface {
	Register(ctx context.Context, req *RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *LoginRequest) (*AuthResult, error)

	// CreateTenant provisions an additional tenant. Admin only.
	CreateTenant(ctx context.Context, actor *models.AuthUser, name string) (*models.Tenant, error)
}
