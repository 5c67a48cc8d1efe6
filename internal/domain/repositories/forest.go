package repositories

import (
	"context"

	"famtree/internal/domain/models"
)

// ForestRepository persists forests. Lookups are tenant-scoped: a forest id
// belonging to another tenant reports domain.ErrNotFound.
type ForestRepository interface {
	Create(ctx context.Context, forest *models.Forest) error
	GetByID(ctx context.Context, id, tenantID string) (*models.Forest, error)
	ListByTenant(ctx context.Context, tenantID string) ([]models.Forest, error)
	Rename(ctx context.Context, id, name string) error
}

// ForestMemberRepository persists per-forest role grants.
type ForestMemberRepository interface {
	Create(ctx context.Context, member *models.ForestMember) error
}
