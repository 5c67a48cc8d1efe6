package models

import (
	"time"

	"famtree/internal/rbac"
)

const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
)

// Invitation offers membership in a forest and/or tree to an email address,
// redeemable by token.
type Invitation struct {
	ID           string    `json:"id" db:"id"`
	ForestID     *string   `json:"forest_id" db:"forest_id"`
	TreeID       *string   `json:"tree_id" db:"tree_id"`
	InviterID    string    `json:"inviter_id" db:"inviter_id"`
	InviteeEmail string    `json:"invitee_email" db:"invitee_email"`
	Role         rbac.Role `json:"role" db:"role"`
	Status       string    `json:"status" db:"status"`
	Token        string    `json:"token" db:"token"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
