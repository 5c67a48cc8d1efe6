package models

import (
	"time"

	"famtree/internal/rbac"
)

// Forest is a named collection of trees owned by one tenant.
type Forest struct {
	ID          string    `json:"id" db:"id"`
	TenantID    string    `json:"tenant_id" db:"tenant_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// ForestMember grants a user a role inside one forest.
type ForestMember struct {
	ID        string    `json:"id" db:"id"`
	ForestID  string    `json:"forest_id" db:"forest_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Role      rbac.Role `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
