package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
)

// PostgresUserRepository implements the UserRepository interface
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(config *RepositoryConfig) repositories.UserRepository {
	return &PostgresUserRepository{pool: config.Pool}
}

// Create creates a new user. A duplicate email maps to domain.ErrConflict.
func (r *PostgresUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, role, tenant_id, display_name, avatar_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.TenantID,
		user.DisplayName,
		user.AvatarURL,
	).Scan(&user.CreatedAt)

	if err != nil {
		if IsPgDuplicateError(err) {
			return fmt.Errorf("email %s already registered: %w", user.Email, domain.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

// GetByEmail retrieves a user by email address
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, email, password_hash, role, tenant_id, display_name, avatar_url, created_at
		FROM users
		WHERE email = $1
	`

	var user models.User
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.TenantID,
		&user.DisplayName,
		&user.AvatarURL,
		&user.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("user %s: %w", email, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

// PostgresUserActivityRepository implements the UserActivityRepository interface
type PostgresUserActivityRepository struct {
	pool *pgxpool.Pool
}

// NewUserActivityRepository creates a new user activity repository
func NewUserActivityRepository(config *RepositoryConfig) repositories.UserActivityRepository {
	return &PostgresUserActivityRepository{pool: config.Pool}
}

// Touch upserts the user's last-seen timestamp
func (r *PostgresUserActivityRepository) Touch(ctx context.Context, userID string, seen time.Time) error {
	query := `
		INSERT INTO user_activity (user_id, last_seen)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET last_seen = EXCLUDED.last_seen
	`

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, userID, seen); err != nil {
		return fmt.Errorf("touch user activity: %w", err)
	}

	return nil
}

// CountActiveSince counts distinct tenant users seen after the cutoff
func (r *PostgresUserActivityRepository) CountActiveSince(ctx context.Context, tenantID string, since time.Time) (int, error) {
	query := `
		SELECT COUNT(DISTINCT ua.user_id)
		FROM user_activity ua
		JOIN users u ON ua.user_id = u.id
		WHERE ua.last_seen > $1 AND u.tenant_id = $2
	`

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, since, tenantID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active users: %w", err)
	}

	return count, nil
}
