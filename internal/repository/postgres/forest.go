package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
)

// PostgresForestRepository implements the ForestRepository interface
type PostgresForestRepository struct {
	pool *pgxpool.Pool
}

// NewForestRepository creates a new forest repository
func NewForestRepository(config *RepositoryConfig) repositories.ForestRepository {
	return &PostgresForestRepository{pool: config.Pool}
}

// Create creates a new forest
func (r *PostgresForestRepository) Create(ctx context.Context, forest *models.Forest) error {
	query := `
		INSERT INTO forests (id, tenant_id, name, description, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		forest.ID,
		forest.TenantID,
		forest.Name,
		forest.Description,
		forest.CreatedBy,
	).Scan(&forest.CreatedAt)

	if err != nil {
		return fmt.Errorf("create forest: %w", err)
	}

	return nil
}

// GetByID retrieves a forest by ID within the tenant
func (r *PostgresForestRepository) GetByID(ctx context.Context, id, tenantID string) (*models.Forest, error) {
	query := `
		SELECT id, tenant_id, name, description, created_by, created_at
		FROM forests
		WHERE id = $1 AND tenant_id = $2
	`

	var forest models.Forest
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, id, tenantID).Scan(
		&forest.ID,
		&forest.TenantID,
		&forest.Name,
		&forest.Description,
		&forest.CreatedBy,
		&forest.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("forest %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get forest: %w", err)
	}

	return &forest, nil
}

// ListByTenant retrieves all forests of a tenant, newest first
func (r *PostgresForestRepository) ListByTenant(ctx context.Context, tenantID string) ([]models.Forest, error) {
	query := `
		SELECT id, tenant_id, name, description, created_by, created_at
		FROM forests
		WHERE tenant_id = $1
		ORDER BY created_at DESC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list forests: %w", err)
	}
	defer rows.Close()

	var forests []models.Forest
	for rows.Next() {
		var forest models.Forest
		err := rows.Scan(
			&forest.ID,
			&forest.TenantID,
			&forest.Name,
			&forest.Description,
			&forest.CreatedBy,
			&forest.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan forest: %w", err)
		}
		forests = append(forests, forest)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate forests: %w", err)
	}

	if forests == nil {
		forests = []models.Forest{}
	}

	return forests, nil
}

// Rename updates a forest's name
func (r *PostgresForestRepository) Rename(ctx context.Context, id, name string) error {
	query := `UPDATE forests SET name = $1 WHERE id = $2`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, name, id)
	if err != nil {
		return fmt.Errorf("rename forest: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("forest %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// PostgresForestMemberRepository implements the ForestMemberRepository interface
type PostgresForestMemberRepository struct {
	pool *pgxpool.Pool
}

// NewForestMemberRepository creates a new forest member repository
func NewForestMemberRepository(config *RepositoryConfig) repositories.ForestMemberRepository {
	return &PostgresForestMemberRepository{pool: config.Pool}
}

// Create creates a new forest membership
func (r *PostgresForestMemberRepository) Create(ctx context.Context, member *models.ForestMember) error {
	query := `
		INSERT INTO forest_members (id, forest_id, user_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		member.ID,
		member.ForestID,
		member.UserID,
		member.Role,
	).Scan(&member.CreatedAt)

	if err != nil {
		return fmt.Errorf("create forest member: %w", err)
	}

	return nil
}
