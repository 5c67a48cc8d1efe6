package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
)

// PostgresPersonRepository implements the PersonRepository interface
type PostgresPersonRepository struct {
	pool *pgxpool.Pool
}

// NewPersonRepository creates a new person repository
func NewPersonRepository(config *RepositoryConfig) repositories.PersonRepository {
	return &PostgresPersonRepository{pool: config.Pool}
}

const personColumns = `id, tree_id, first_name, middle_name, last_name, maiden_name,
	gender, birth_date, birth_place, death_date, death_place, biography,
	photo_url, position_x, position_y, created_at`

func scanPerson(row interface{ Scan(dest ...any) error }, p *models.Person) error {
	return row.Scan(
		&p.ID,
		&p.TreeID,
		&p.FirstName,
		&p.MiddleName,
		&p.LastName,
		&p.MaidenName,
		&p.Gender,
		&p.BirthDate,
		&p.BirthPlace,
		&p.DeathDate,
		&p.DeathPlace,
		&p.Biography,
		&p.PhotoURL,
		&p.PositionX,
		&p.PositionY,
		&p.CreatedAt,
	)
}

// Create creates a new person
func (r *PostgresPersonRepository) Create(ctx context.Context, person *models.Person) error {
	query := `
		INSERT INTO people (id, tree_id, first_name, middle_name, last_name, maiden_name,
			gender, birth_date, birth_place, death_date, death_place, biography,
			photo_url, position_x, position_y)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		person.ID,
		person.TreeID,
		person.FirstName,
		person.MiddleName,
		person.LastName,
		person.MaidenName,
		person.Gender,
		person.BirthDate,
		person.BirthPlace,
		person.DeathDate,
		person.DeathPlace,
		person.Biography,
		person.PhotoURL,
		person.PositionX,
		person.PositionY,
	).Scan(&person.CreatedAt)

	if err != nil {
		return fmt.Errorf("create person: %w", err)
	}

	return nil
}

// GetByID retrieves a person by ID
func (r *PostgresPersonRepository) GetByID(ctx context.Context, id string) (*models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE id = $1`

	var person models.Person
	executor := GetExecutor(ctx, r.pool)
	err := scanPerson(executor.QueryRow(ctx, query, id), &person)
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get person: %w", err)
	}

	return &person, nil
}

// ListByTree retrieves all people of a tree, oldest record first
func (r *PostgresPersonRepository) ListByTree(ctx context.Context, treeID string) ([]models.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE tree_id = $1 ORDER BY created_at ASC`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, treeID)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		var person models.Person
		if err := scanPerson(rows, &person); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		people = append(people, person)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate people: %w", err)
	}

	if people == nil {
		people = []models.Person{}
	}

	return people, nil
}

// Update applies the non-nil fields of the partial update
func (r *PostgresPersonRepository) Update(ctx context.Context, id string, update *models.PersonUpdate) error {
	sets := []string{}
	args := []any{}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if update.FirstName != nil {
		add("first_name", *update.FirstName)
	}
	if update.MiddleName != nil {
		add("middle_name", *update.MiddleName)
	}
	if update.LastName != nil {
		add("last_name", *update.LastName)
	}
	if update.MaidenName != nil {
		add("maiden_name", *update.MaidenName)
	}
	if update.Gender != nil {
		add("gender", *update.Gender)
	}
	if update.BirthDate != nil {
		add("birth_date", *update.BirthDate)
	}
	if update.BirthPlace != nil {
		add("birth_place", *update.BirthPlace)
	}
	if update.DeathDate != nil {
		add("death_date", *update.DeathDate)
	}
	if update.DeathPlace != nil {
		add("death_place", *update.DeathPlace)
	}
	if update.Biography != nil {
		add("biography", *update.Biography)
	}
	if update.PhotoURL != nil {
		add("photo_url", *update.PhotoURL)
	}
	if update.PositionX != nil {
		add("position_x", *update.PositionX)
	}
	if update.PositionY != nil {
		add("position_y", *update.PositionY)
	}

	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE people SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update person: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Delete removes a person row
func (r *PostgresPersonRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM people WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByTree removes every person of a tree
func (r *PostgresPersonRepository) DeleteByTree(ctx context.Context, treeID string) error {
	query := `DELETE FROM people WHERE tree_id = $1`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, treeID); err != nil {
		return fmt.Errorf("delete people by tree: %w", err)
	}

	return nil
}

// SetPhotoURL overwrites the denormalized primary-photo reference
func (r *PostgresPersonRepository) SetPhotoURL(ctx context.Context, id string, url *string) error {
	query := `UPDATE people SET photo_url = $1 WHERE id = $2`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, url, id)
	if err != nil {
		return fmt.Errorf("set photo url: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("person %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
