package models

import "time"

// Person is one node in a tree. Name parts other than the first name are
// optional; birth and death dates are free-form strings so partial precision
// (year-only, year-month) survives storage untouched. Position is canvas
// layout only.
type Person struct {
	ID         string    `json:"id" yaml:"id" db:"id"`
	TreeID     string    `json:"tree_id" yaml:"tree_id" db:"tree_id"`
	FirstName  string    `json:"first_name" yaml:"first_name" db:"first_name"`
	MiddleName *string   `json:"middle_name" yaml:"middle_name" db:"middle_name"`
	LastName   *string   `json:"last_name" yaml:"last_name" db:"last_name"`
	MaidenName *string   `json:"maiden_name" yaml:"maiden_name" db:"maiden_name"`
	Gender     *string   `json:"gender" yaml:"gender" db:"gender"`
	BirthDate  *string   `json:"birth_date" yaml:"birth_date" db:"birth_date"`
	BirthPlace *string   `json:"birth_place" yaml:"birth_place" db:"birth_place"`
	DeathDate  *string   `json:"death_date" yaml:"death_date" db:"death_date"`
	DeathPlace *string   `json:"death_place" yaml:"death_place" db:"death_place"`
	Biography  *string   `json:"biography" yaml:"biography" db:"biography"`
	PhotoURL   *string   `json:"photo_url" yaml:"photo_url" db:"photo_url"`
	PositionX  float64   `json:"position_x" yaml:"position_x" db:"position_x"`
	PositionY  float64   `json:"position_y" yaml:"position_y" db:"position_y"`
	CreatedAt  time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
}

// PersonUpdate carries a partial update; nil fields are left untouched.
type PersonUpdate struct {
	FirstName  *string
	MiddleName *string
	LastName   *string
	MaidenName *string
	Gender     *string
	BirthDate  *string
	BirthPlace *string
	DeathDate  *string
	DeathPlace *string
	Biography  *string
	PhotoURL   *string
	PositionX  *float64
	PositionY  *float64
}

// Empty reports whether the update changes nothing.
func (u *PersonUpdate) Empty() bool {
	return u.FirstName == nil && u.MiddleName == nil && u.LastName == nil &&
		u.MaidenName == nil && u.Gender == nil && u.BirthDate == nil &&
		u.BirthPlace == nil && u.DeathDate == nil && u.DeathPlace == nil &&
		u.Biography == nil && u.PhotoURL == nil && u.PositionX == nil &&
		u.PositionY == nil
}
