package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
)

// PostgresPersonImageRepository implements the PersonImageRepository interface
type PostgresPersonImageRepository struct {
	pool *pgxpool.Pool
}

// NewPersonImageRepository creates a new person image repository
func NewPersonImageRepository(config *RepositoryConfig) repositories.PersonImageRepository {
	return &PostgresPersonImageRepository{pool: config.Pool}
}

// Create creates a new image record
func (r *PostgresPersonImageRepository) Create(ctx context.Context, image *models.PersonImage) error {
	query := `
		INSERT INTO person_images (id, person_id, image_url, is_primary, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		image.ID,
		image.PersonID,
		image.ImageURL,
		image.IsPrimary,
		image.UploadedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("person %s already has a primary image: %w", image.PersonID, domain.ErrConflict)
		}
		return fmt.Errorf("create person image: %w", err)
	}

	return nil
}

// Get retrieves one image record of a person
func (r *PostgresPersonImageRepository) Get(ctx context.Context, imageID, personID string) (*models.PersonImage, error) {
	query := `
		SELECT id, person_id, image_url, is_primary, uploaded_at
		FROM person_images
		WHERE id = $1 AND person_id = $2
	`

	var image models.PersonImage
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, imageID, personID).Scan(
		&image.ID,
		&image.PersonID,
		&image.ImageURL,
		&image.IsPrimary,
		&image.UploadedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("image %s: %w", imageID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get person image: %w", err)
	}

	return &image, nil
}

// ListByPerson retrieves a person's images, primary first then newest first
func (r *PostgresPersonImageRepository) ListByPerson(ctx context.Context, personID string) ([]models.PersonImage, error) {
	query := `
		SELECT id, person_id, image_url, is_primary, uploaded_at
		FROM person_images
		WHERE person_id = $1
		ORDER BY is_primary DESC, uploaded_at DESC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("list person images: %w", err)
	}
	defer rows.Close()

	return collectImages(rows)
}

// ListByTree retrieves the image rows of every person in the tree
func (r *PostgresPersonImageRepository) ListByTree(ctx context.Context, treeID string) ([]models.PersonImage, error) {
	query := `
		SELECT pi.id, pi.person_id, pi.image_url, pi.is_primary, pi.uploaded_at
		FROM person_images pi
		JOIN people p ON pi.person_id = p.id
		WHERE p.tree_id = $1
		ORDER BY pi.uploaded_at ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, treeID)
	if err != nil {
		return nil, fmt.Errorf("list tree images: %w", err)
	}
	defer rows.Close()

	return collectImages(rows)
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectImages(rows pgxRows) ([]models.PersonImage, error) {
	var images []models.PersonImage
	for rows.Next() {
		var image models.PersonImage
		err := rows.Scan(
			&image.ID,
			&image.PersonID,
			&image.ImageURL,
			&image.IsPrimary,
			&image.UploadedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan person image: %w", err)
		}
		images = append(images, image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate person images: %w", err)
	}

	if images == nil {
		images = []models.PersonImage{}
	}

	return images, nil
}

// CountByPerson counts a person's image records
func (r *PostgresPersonImageRepository) CountByPerson(ctx context.Context, personID string) (int, error) {
	query := `SELECT COUNT(*) FROM person_images WHERE person_id = $1`

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, personID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count person images: %w", err)
	}

	return count, nil
}

// NewestByPerson returns the most recently uploaded image of a person
func (r *PostgresPersonImageRepository) NewestByPerson(ctx context.Context, personID string) (*models.PersonImage, error) {
	query := `
		SELECT id, person_id, image_url, is_primary, uploaded_at
		FROM person_images
		WHERE person_id = $1
		ORDER BY uploaded_at DESC
		LIMIT 1
	`

	var image models.PersonImage
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, personID).Scan(
		&image.ID,
		&image.PersonID,
		&image.ImageURL,
		&image.IsPrimary,
		&image.UploadedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("person %s has no images: %w", personID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get newest person image: %w", err)
	}

	return &image, nil
}

// ClearPrimary unsets the primary flag on all of a person's images
func (r *PostgresPersonImageRepository) ClearPrimary(ctx context.Context, personID string) error {
	query := `UPDATE person_images SET is_primary = FALSE WHERE person_id = $1`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, personID); err != nil {
		return fmt.Errorf("clear primary image: %w", err)
	}

	return nil
}

// SetPrimary marks one image as primary. Callers clear the previous primary
// first; the partial unique index rejects a second one.
func (r *PostgresPersonImageRepository) SetPrimary(ctx context.Context, imageID string) error {
	query := `UPDATE person_images SET is_primary = TRUE WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, imageID)
	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("image %s: %w", imageID, domain.ErrConflict)
		}
		return fmt.Errorf("set primary image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("image %s: %w", imageID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes an image record
func (r *PostgresPersonImageRepository) Delete(ctx context.Context, imageID string) error {
	query := `DELETE FROM person_images WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, imageID)
	if err != nil {
		return fmt.Errorf("delete person image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("image %s: %w", imageID, domain.ErrNotFound)
	}

	return nil
}

// DeleteByPerson removes every image record of a person
func (r *PostgresPersonImageRepository) DeleteByPerson(ctx context.Context, personID string) error {
	query := `DELETE FROM person_images WHERE person_id = $1`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, personID); err != nil {
		return fmt.Errorf("delete person images: %w", err)
	}

	return nil
}

// DeleteByTree removes the image records of every person in the tree
func (r *PostgresPersonImageRepository) DeleteByTree(ctx context.Context, treeID string) error {
	query := `
		DELETE FROM person_images
		WHERE person_id IN (SELECT id FROM people WHERE tree_id = $1)
	`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, treeID); err != nil {
		return fmt.Errorf("delete tree images: %w", err)
	}

	return nil
}
