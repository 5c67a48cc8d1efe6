package models

import (
	"time"

	"famtree/internal/rbac"
)

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         rbac.Role `json:"role" db:"role"`
	TenantID     *string   `json:"tenant_id" db:"tenant_id"`
	DisplayName  *string   `json:"display_name,omitempty" db:"display_name"`
	AvatarURL    *string   `json:"avatar_url,omitempty" db:"avatar_url"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
