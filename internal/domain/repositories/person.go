package repositories

import (
	"context"

	"famtree/internal/domain/models"
)

// PersonRepository persists people.
type PersonRepository interface {
	Create(ctx context.Context, person *models.Person) error
	GetByID(ctx context.Context, id string) (*models.Person, error)
	ListByTree(ctx context.Context, treeID string) ([]models.Person, error)
	Update(ctx context.Context, id string, update *models.PersonUpdate) error
	Delete(ctx context.Context, id string) error
	DeleteByTree(ctx context.Context, treeID string) error
	// SetPhotoURL overwrites the denormalized primary-photo reference;
	// nil clears it.
	SetPhotoURL(ctx context.Context, id string, url *string) error
}

// RelationshipRepository persists relationships. Tree scoping uses the
// relationship's own tree_id column.
type RelationshipRepository interface {
	Create(ctx context.Context, rel *models.Relationship) error
	ListByTree(ctx context.Context, treeID string) ([]models.Relationship, error)
	UpdateType(ctx context.Context, id, relType string) error
	Delete(ctx context.Context, id string) error
	// DeleteByPerson removes every relationship with the person on either end.
	DeleteByPerson(ctx context.Context, personID string) error
	DeleteByTree(ctx context.Context, treeID string) error
}
