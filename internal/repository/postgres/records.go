package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
)

// PostgresLifeEventRepository implements the LifeEventRepository interface
type PostgresLifeEventRepository struct {
	pool *pgxpool.Pool
}

// NewLifeEventRepository creates a new life event repository
func NewLifeEventRepository(config *RepositoryConfig) repositories.LifeEventRepository {
	return &PostgresLifeEventRepository{pool: config.Pool}
}

// Create creates a new life event
func (r *PostgresLifeEventRepository) Create(ctx context.Context, event *models.LifeEvent) error {
	query := `
		INSERT INTO life_events (id, person_id, type, title, description, event_date, location)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		event.ID,
		event.PersonID,
		event.Type,
		event.Title,
		event.Description,
		event.EventDate,
		event.Location,
	).Scan(&event.CreatedAt)

	if err != nil {
		return fmt.Errorf("create life event: %w", err)
	}

	return nil
}

// ListByPerson retrieves a person's life events ordered by event date
func (r *PostgresLifeEventRepository) ListByPerson(ctx context.Context, personID string) ([]models.LifeEvent, error) {
	query := `
		SELECT id, person_id, type, title, description, event_date, location, created_at
		FROM life_events
		WHERE person_id = $1
		ORDER BY event_date ASC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("list life events: %w", err)
	}
	defer rows.Close()

	var events []models.LifeEvent
	for rows.Next() {
		var event models.LifeEvent
		err := rows.Scan(
			&event.ID,
			&event.PersonID,
			&event.Type,
			&event.Title,
			&event.Description,
			&event.EventDate,
			&event.Location,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan life event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate life events: %w", err)
	}

	if events == nil {
		events = []models.LifeEvent{}
	}

	return events, nil
}

// DeleteByPerson removes a person's life events
func (r *PostgresLifeEventRepository) DeleteByPerson(ctx context.Context, personID string) error {
	query := `DELETE FROM life_events WHERE person_id = $1`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, personID); err != nil {
		return fmt.Errorf("delete life events by person: %w", err)
	}

	return nil
}

// DeleteByTree removes the life events of every person in a tree
func (r *PostgresLifeEventRepository) DeleteByTree(ctx context.Context, treeID string) error {
	query := `
		DELETE FROM life_events
		WHERE person_id IN (SELECT id FROM people WHERE tree_id = $1)
	`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, treeID); err != nil {
		return fmt.Errorf("delete life events by tree: %w", err)
	}

	return nil
}

// PostgresStoryRepository implements the StoryRepository interface
type PostgresStoryRepository struct {
	pool *pgxpool.Pool
}

// NewStoryRepository creates a new story repository
func NewStoryRepository(config *RepositoryConfig) repositories.StoryRepository {
	return &PostgresStoryRepository{pool: config.Pool}
}

// Create creates a new story
func (r *PostgresStoryRepository) Create(ctx context.Context, story *models.Story) error {
	query := `
		INSERT INTO stories (id, person_id, tree_id, title, content, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		story.ID,
		story.PersonID,
		story.TreeID,
		story.Title,
		story.Content,
		story.AuthorID,
	).Scan(&story.CreatedAt)

	if err != nil {
		return fmt.Errorf("create story: %w", err)
	}

	return nil
}

// ListByPerson retrieves a person's stories, newest first
func (r *PostgresStoryRepository) ListByPerson(ctx context.Context, personID string) ([]models.Story, error) {
	query := `
		SELECT id, person_id, tree_id, title, content, author_id, created_at
		FROM stories
		WHERE person_id = $1
		ORDER BY created_at DESC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, personID)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	return collectStories(rows)
}

// ListByTree retrieves a tree's stories, newest first
func (r *PostgresStoryRepository) ListByTree(ctx context.Context, treeID string) ([]models.Story, error) {
	query := `
		SELECT id, person_id, tree_id, title, content, author_id, created_at
		FROM stories
		WHERE tree_id = $1
		ORDER BY created_at DESC
	`

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, treeID)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	defer rows.Close()

	return collectStories(rows)
}

// DeleteByPerson removes a person's stories
func (r *PostgresStoryRepository) DeleteByPerson(ctx context.Context, personID string) error {
	query := `DELETE FROM stories WHERE person_id = $1`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, personID); err != nil {
		return fmt.Errorf("delete stories by person: %w", err)
	}

	return nil
}

// DeleteByTree removes a tree's stories. The person_id clause also catches
// stories filed under another tree but attached to a person in this one.
func (r *PostgresStoryRepository) DeleteByTree(ctx context.Context, treeID string) error {
	query := `
		DELETE FROM stories
		WHERE tree_id = $1
		   OR person_id IN (SELECT id FROM people WHERE tree_id = $1)
	`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, treeID); err != nil {
		return fmt.Errorf("delete stories by tree: %w", err)
	}

	return nil
}

func collectStories(rows pgxRows) ([]models.Story, error) {
	var stories []models.Story
	for rows.Next() {
		var story models.Story
		err := rows.Scan(
			&story.ID,
			&story.PersonID,
			&story.TreeID,
			&story.Title,
			&story.Content,
			&story.AuthorID,
			&story.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, story)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stories: %w", err)
	}

	if stories == nil {
		stories = []models.Story{}
	}

	return stories, nil
}

// PostgresInvitationRepository implements the InvitationRepository interface
type PostgresInvitationRepository struct {
	pool *pgxpool.Pool
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(config *RepositoryConfig) repositories.InvitationRepository {
	return &PostgresInvitationRepository{pool: config.Pool}
}

// Create creates a new invitation
func (r *PostgresInvitationRepository) Create(ctx context.Context, inv *models.Invitation) error {
	query := `
		INSERT INTO invitations (id, forest_id, tree_id, inviter_id, invitee_email, role, status, token)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		inv.ID,
		inv.ForestID,
		inv.TreeID,
		inv.InviterID,
		inv.InviteeEmail,
		inv.Role,
		inv.Status,
		inv.Token,
	).Scan(&inv.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("invitation token: %w", domain.ErrConflict)
		}
		return fmt.Errorf("create invitation: %w", err)
	}

	return nil
}

// GetPendingByToken retrieves a pending invitation by its token
func (r *PostgresInvitationRepository) GetPendingByToken(ctx context.Context, token string) (*models.Invitation, error) {
	query := `
		SELECT id, forest_id, tree_id, inviter_id, invitee_email, role, status, token, created_at
		FROM invitations
		WHERE token = $1 AND status = 'pending'
	`

	var inv models.Invitation
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, token).Scan(
		&inv.ID,
		&inv.ForestID,
		&inv.TreeID,
		&inv.InviterID,
		&inv.InviteeEmail,
		&inv.Role,
		&inv.Status,
		&inv.Token,
		&inv.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("invitation: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get invitation: %w", err)
	}

	return &inv, nil
}

// MarkAccepted flips an invitation to accepted
func (r *PostgresInvitationRepository) MarkAccepted(ctx context.Context, id string) error {
	query := `UPDATE invitations SET status = 'accepted' WHERE id = $1`

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("accept invitation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("invitation %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// PostgresAITaskRepository implements the AITaskRepository interface
type PostgresAITaskRepository struct {
	pool *pgxpool.Pool
}

// NewAITaskRepository creates a new AI task repository
func NewAITaskRepository(config *RepositoryConfig) repositories.AITaskRepository {
	return &PostgresAITaskRepository{pool: config.Pool}
}

// Create records a queued task
func (r *PostgresAITaskRepository) Create(ctx context.Context, task *models.AITask) error {
	query := `
		INSERT INTO ai_tasks (id, tenant_id, tree_id, person_id, status, provider, task_type, payload, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		task.ID,
		task.TenantID,
		task.TreeID,
		task.PersonID,
		task.Status,
		task.Provider,
		task.TaskType,
		task.Payload,
		task.Result,
	).Scan(&task.CreatedAt)

	if err != nil {
		return fmt.Errorf("create ai task: %w", err)
	}

	return nil
}
