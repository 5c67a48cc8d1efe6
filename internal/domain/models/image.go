package models

import "time"

// PersonImage is one stored photo of a person. At most one row per person is
// primary; the person's denormalized photo_url mirrors the current primary.
type PersonImage struct {
	ID         string    `json:"id" db:"id"`
	PersonID   string    `json:"person_id" db:"person_id"`
	ImageURL   string    `json:"image_url" db:"image_url"`
	IsPrimary  bool      `json:"is_primary" db:"is_primary"`
	UploadedAt time.Time `json:"uploaded_at" db:"uploaded_at"`
}
