package models

import "time"

// Known relationship types presented by the UI. Storage accepts any string
// so values written by older clients keep round-tripping.
const (
	RelationshipParentChild = "parent-child"
	RelationshipSpouse      = "spouse"
	RelationshipExSpouse    = "ex-spouse"
	RelationshipSibling     = "sibling"
	RelationshipOther       = "other"
)

// Relationship is a typed, optionally dated edge between two people. The
// person order is semantically meaningful only for directional types such as
// parent-child.
type Relationship struct {
	ID        string    `json:"id" yaml:"id" db:"id"`
	TreeID    string    `json:"tree_id" yaml:"tree_id" db:"tree_id"`
	Person1ID string    `json:"person1_id" yaml:"person1_id" db:"person1_id"`
	Person2ID string    `json:"person2_id" yaml:"person2_id" db:"person2_id"`
	Type      string    `json:"type" yaml:"type" db:"type"`
	StartDate *string   `json:"start_date" yaml:"start_date" db:"start_date"`
	EndDate   *string   `json:"end_date" yaml:"end_date" db:"end_date"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" db:"created_at"`
}
