package repositories

import (
	"context"

	"famtree/internal/domain/models"
)

// PersonImageRepository persists person photo records.
type PersonImageRepository interface {
	Create(ctx context.Context, image *models.PersonImage) error
	Get(ctx context.Context, imageID, personID string) (*models.PersonImage, error)
	// ListByPerson orders primary first, then newest upload first.
	ListByPerson(ctx context.Context, personID string) ([]models.PersonImage, error)
	// ListByTree returns the image rows of every person in the tree.
	ListByTree(ctx context.Context, treeID string) ([]models.PersonImage, error)
	CountByPerson(ctx context.Context, personID string) (int, error)
	// NewestByPerson returns the most recently uploaded image, or
	// domain.ErrNotFound when the person has none left.
	NewestByPerson(ctx context.Context, personID string) (*models.PersonImage, error)
	ClearPrimary(ctx context.Context, personID string) error
	SetPrimary(ctx context.Context, imageID string) error
	Delete(ctx context.Context, imageID string) error
	DeleteByPerson(ctx context.Context, personID string) error
	DeleteByTree(ctx context.Context, treeID string) error
}
