package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
)

// PostgresTenantRepository implements the TenantRepository interface
type PostgresTenantRepository struct {
	pool *pgxpool.Pool
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(config *RepositoryConfig) repositories.TenantRepository {
	return &PostgresTenantRepository{pool: config.Pool}
}

// Create creates a new tenant
func (r *PostgresTenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, settings)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		tenant.ID,
		tenant.Name,
		tenant.Settings,
	).Scan(&tenant.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("tenant %s: %w", tenant.ID, domain.ErrConflict)
		}
		return fmt.Errorf("create tenant: %w", err)
	}

	return nil
}

// Count returns the total number of tenants
func (r *PostgresTenantRepository) Count(ctx context.Context) (int, error) {
	query := `SELECT COUNT(*) FROM tenants`

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("count tenants: %w", err)
	}

	return count, nil
}
