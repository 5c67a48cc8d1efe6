package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/rbac"
)

// PostgresTreeRepository implements the TreeRepository interface
type PostgresTreeRepository struct {
	pool *pgxpool.Pool
}

// NewTreeRepository creates a new tree repository
func NewTreeRepository(config *RepositoryConfig) repositories.TreeRepository {
	return &PostgresTreeRepository{pool: config.Pool}
}

// Create creates a new tree
func (r *PostgresTreeRepository) Create(ctx context.Context, tree *models.Tree) error {
	query := `
		INSERT INTO trees (id, forest_id, name, description, theme, layout, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		tree.ID,
		tree.ForestID,
		tree.Name,
		tree.Description,
		tree.Theme,
		tree.Layout,
		tree.CreatedBy,
	).Scan(&tree.CreatedAt)

	if err != nil {
		return fmt.Errorf("create tree: %w", err)
	}

	return nil
}

// GetByID retrieves a tree by ID
func (r *PostgresTreeRepository) GetByID(ctx context.Context, id string) (*models.Tree, error) {
	query := `
		SELECT id, forest_id, name, description, theme, layout, created_by, created_at
		FROM trees
		WHERE id = $1
	`

	var tree models.Tree
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id).Scan(
		&tree.ID,
		&tree.ForestID,
		&tree.Name,
		&tree.Description,
		&tree.Theme,
		&tree.Layout,
		&tree.CreatedBy,
		&tree.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tree: %w", err)
	}

	return &tree, nil
}

// GetInTenant retrieves a tree only when its forest belongs to the tenant
func (r *PostgresTreeRepository) GetInTenant(ctx context.Context, id, tenantID string) (*models.Tree, error) {
	query := `
		SELECT t.id, t.forest_id, t.name, t.description, t.theme, t.layout, t.created_by, t.created_at
		FROM trees t
		JOIN forests f ON t.forest_id = f.id
		WHERE t.id = $1 AND f.tenant_id = $2
	`

	var tree models.Tree
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, tenantID).Scan(
		&tree.ID,
		&tree.ForestID,
		&tree.Name,
		&tree.Description,
		&tree.Theme,
		&tree.Layout,
		&tree.CreatedBy,
		&tree.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get tree in tenant: %w", err)
	}

	return &tree, nil
}

// ListByForest retrieves all trees of a forest, newest first
func (r *PostgresTreeRepository) ListByForest(ctx context.Context, forestID string) ([]models.Tree, error) {
	query := `
		SELECT id, forest_id, name, description, theme, layout, created_by, created_at
		FROM trees
		WHERE forest_id = $1
		ORDER BY created_at DESC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, forestID)
	if err != nil {
		return nil, fmt.Errorf("list trees: %w", err)
	}
	defer rows.Close()

	var trees []models.Tree
	for rows.Next() {
		var tree models.Tree
		err := rows.Scan(
			&tree.ID,
			&tree.ForestID,
			&tree.Name,
			&tree.Description,
			&tree.Theme,
			&tree.Layout,
			&tree.CreatedBy,
			&tree.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan tree: %w", err)
		}
		trees = append(trees, tree)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trees: %w", err)
	}

	if trees == nil {
		trees = []models.Tree{}
	}

	return trees, nil
}

// Rename updates a tree's name
func (r *PostgresTreeRepository) Rename(ctx context.Context, id, name string) error {
	query := `UPDATE trees SET name = $1 WHERE id = $2`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("rename tree: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a tree row
func (r *PostgresTreeRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM trees WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete tree: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// PostgresTreeMemberRepository implements the TreeMemberRepository interface
type PostgresTreeMemberRepository struct {
	pool *pgxpool.Pool
}

// NewTreeMemberRepository creates a new tree member repository
func NewTreeMemberRepository(config *RepositoryConfig) repositories.TreeMemberRepository {
	return &PostgresTreeMemberRepository{pool: config.Pool}
}

// Create creates a new tree membership
func (r *PostgresTreeMemberRepository) Create(ctx context.Context, member *models.TreeMember) error {
	query := `
		INSERT INTO tree_members (id, tree_id, user_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		member.ID,
		member.TreeID,
		member.UserID,
		member.Role,
	).Scan(&member.CreatedAt)

	if err != nil {
		return fmt.Errorf("create tree member: %w", err)
	}

	return nil
}

// GetRole returns the user's role in the tree
func (r *PostgresTreeMemberRepository) GetRole(ctx context.Context, treeID, userID string) (rbac.Role, error) {
	query := `SELECT role FROM tree_members WHERE tree_id = $1 AND user_id = $2`

	var role rbac.Role
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, treeID, userID).Scan(&role)
	if err != nil {
		if IsPgNoRowsError(err) {
			return "", fmt.Errorf("tree member %s: %w", userID, domain.ErrNotFound)
		}
		return "", fmt.Errorf("get tree member role: %w", err)
	}

	return role, nil
}

// DeleteByTree removes every membership of a tree
func (r *PostgresTreeMemberRepository) DeleteByTree(ctx context.Context, treeID string) error {
	query := `DELETE FROM tree_members WHERE tree_id = $1`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, treeID); err != nil {
		return fmt.Errorf("delete tree members: %w", err)
	}

	return nil
}
