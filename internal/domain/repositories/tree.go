package repositories

import (
	"context"

	"famtree/internal/domain/models"
	"famtree/internal/rbac"
)

// TreeRepository persists trees.
type TreeRepository interface {
	Create(ctx context.Context, tree *models.Tree) error
	GetByID(ctx context.Context, id string) (*models.Tree, error)
	// GetInTenant resolves a tree only when its forest belongs to the tenant.
	GetInTenant(ctx context.Context, id, tenantID string) (*models.Tree, error)
	ListByForest(ctx context.Context, forestID string) ([]models.Tree, error)
	Rename(ctx context.Context, id, name string) error
	Delete(ctx context.Context, id string) error
}

// TreeMemberRepository persists per-tree role grants. GetRole reports
// domain.ErrNotFound when the user is not a member.
type TreeMemberRepository interface {
	Create(ctx context.Context, member *models.TreeMember) error
	GetRole(ctx context.Context, treeID, userID string) (rbac.Role, error)
	DeleteByTree(ctx context.Context, treeID string) error
}
