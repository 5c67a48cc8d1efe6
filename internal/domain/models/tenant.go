package models

import "time"

// Tenant is the top-level ownership and isolation boundary. The first
// registered user creates one and becomes its Admin.
type Tenant struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Settings  *string   `json:"settings,omitempty" db:"settings"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
