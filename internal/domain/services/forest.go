package services

import (
	"context"

	"famtree/internal/domain/models"
)

// CreateForestRequest represents a request to create a forest
type CreateForestRequest struct {
	Name string `json:"name"`
}

// ForestService defines business logic operations for forests. Every
// operation is scoped to the actor's tenant.
type ForestService interface {
	ListForests(ctx context.Context, actor *models.AuthUser) ([]models.Forest, error)
	GetForest(ctx context.Context, actor *models.AuthUser, id string) (*models.Forest, error)

	// CreateForest requires the Ranger role and enrolls the creator as a
	// forest member.
	CreateForest(ctx context.Context, actor *models.AuthUser, req *CreateForestRequest) (*models.Forest, error)

	// RenameForest requires the Ranger role.
	RenameForest(ctx context.Context, actor *models.AuthUser, id, name string) (*models.Forest, error)
}

// CreateTreeRequest represents a request to create a tree
type CreateTreeRequest struct {
	ForestID string `json:"forestId"`
	Name     string `json:"name"`
}

// TreeService defines business logic operations for trees.
type TreeService interface {
	ListTrees(ctx context.Context, actor *models.AuthUser, forestID string) ([]models.Tree, error)
	GetTree(ctx context.Context, actor *models.AuthUser, id string) (*models.Tree, error)

	// CreateTree requires the Arborist role and enrolls the creator as a
	// tree member.
	CreateTree(ctx context.Context, actor *models.AuthUser, req *CreateTreeRequest) (*models.Tree, error)

	// RenameTree requires the Arborist role.
	RenameTree(ctx context.Context, actor *models.AuthUser, id, name string) (*models.Tree, error)

	// DeleteTree removes the tree with all its people, relationships, image
	// records, and memberships. Requires Arborist membership in the tree.
	DeleteTree(ctx context.Context, actor *models.AuthUser, id string) error
}
