package models

import "time"

// Story is a free-text narrative about a person, written by a user.
type Story struct {
	ID        string    `json:"id" db:"id"`
	PersonID  string    `json:"person_id" db:"person_id"`
	TreeID    string    `json:"tree_id" db:"tree_id"`
	Title     string    `json:"title" db:"title"`
	Content   string    `json:"content" db:"content"`
	AuthorID  string    `json:"author_id" db:"author_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
