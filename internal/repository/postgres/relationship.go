package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
)

// PostgresRelationshipRepository implements the RelationshipRepository interface
type PostgresRelationshipRepository struct {
	pool *pgxpool.Pool
}

// NewRelationshipRepository creates a new relationship repository
func NewRelationshipRepository(config *RepositoryConfig) repositories.RelationshipRepository {
	return &PostgresRelationshipRepository{pool: config.Pool}
}

// Create creates a new relationship
func (r *PostgresRelationshipRepository) Create(ctx context.Context, rel *models.Relationship) error {
	query := `
		INSERT INTO relationships (id, tree_id, person1_id, person2_id, type, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		rel.ID,
		rel.TreeID,
		rel.Person1ID,
		rel.Person2ID,
		rel.Type,
		rel.StartDate,
		rel.EndDate,
	).Scan(&rel.CreatedAt)

	if err != nil {
		return fmt.Errorf("create relationship: %w", err)
	}

	return nil
}

// ListByTree retrieves all relationships scoped by the tree_id column
func (r *PostgresRelationshipRepository) ListByTree(ctx context.Context, treeID string) ([]models.Relationship, error) {
	query := `
		SELECT id, tree_id, person1_id, person2_id, type, start_date, end_date, created_at
		FROM relationships
		WHERE tree_id = $1
		ORDER BY created_at ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, treeID)
	if err != nil {
		return nil, fmt.Errorf("list relationships: %w", err)
	}
	defer rows.Close()

	var rels []models.Relationship
	for rows.Next() {
		var rel models.Relationship
		err := rows.Scan(
			&rel.ID,
			&rel.TreeID,
			&rel.Person1ID,
			&rel.Person2ID,
			&rel.Type,
			&rel.StartDate,
			&rel.EndDate,
			&rel.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan relationship: %w", err)
		}
		rels = append(rels, rel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate relationships: %w", err)
	}

	if rels == nil {
		rels = []models.Relationship{}
	}

	return rels, nil
}

// UpdateType changes a relationship's type
func (r *PostgresRelationshipRepository) UpdateType(ctx context.Context, id, relType string) error {
	query := `UPDATE relationships SET type = $1 WHERE id = $2`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, relType, id)
	if err != nil {
		return fmt.Errorf("update relationship: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("relationship %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a relationship row
func (r *PostgresRelationshipRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM relationships WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete relationship: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("relationship %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByPerson removes every relationship with the person on either end
func (r *PostgresRelationshipRepository) DeleteByPerson(ctx context.Context, personID string) error {
	query := `DELETE FROM relationships WHERE person1_id = $1 OR person2_id = $1`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, personID); err != nil {
		return fmt.Errorf("delete relationships by person: %w", err)
	}

	return nil
}

// DeleteByTree removes every relationship of a tree
func (r *PostgresRelationshipRepository) DeleteByTree(ctx context.Context, treeID string) error {
	query := `DELETE FROM relationships WHERE tree_id = $1`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, treeID); err != nil {
		return fmt.Errorf("delete relationships by tree: %w", err)
	}

	return nil
}
