package models

import "time"

// LifeEvent is a dated milestone attached to a person (birth, marriage,
// migration, and so on - the type is free-form).
type LifeEvent struct {
	ID          string    `json:"id" db:"id"`
	PersonID    string    `json:"person_id" db:"person_id"`
	Type        string    `json:"type" db:"type"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	EventDate   *string   `json:"event_date" db:"event_date"`
	Location    *string   `json:"location" db:"location"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
