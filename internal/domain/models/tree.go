package models

import (
	"time"

	"famtree/internal/rbac"
)

// Tree is one genealogical graph: people plus the relationships between them.
type Tree struct {
	ID          string    `json:"id" db:"id"`
	ForestID    string    `json:"forest_id" db:"forest_id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Theme       string    `json:"theme" db:"theme"`
	Layout      string    `json:"layout" db:"layout"`
	CreatedBy   string    `json:"created_by" db:"created_by"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// TreeMember grants a user a role inside one tree.
type TreeMember struct {
	ID        string    `json:"id" db:"id"`
	TreeID    string    `json:"tree_id" db:"tree_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Role      rbac.Role `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
