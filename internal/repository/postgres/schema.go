package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates every table and index the server needs. Statements
// are idempotent so startup against an existing database is a no-op.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tenants (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			settings TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			tenant_id TEXT REFERENCES tenants(id),
			display_name TEXT,
			avatar_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS forests (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL REFERENCES tenants(id),
			name TEXT NOT NULL,
			description TEXT,
			created_by TEXT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS trees (
			id TEXT PRIMARY KEY,
			forest_id TEXT NOT NULL REFERENCES forests(id),
			name TEXT NOT NULL,
			description TEXT,
			theme TEXT NOT NULL DEFAULT 'modern',
			layout TEXT NOT NULL DEFAULT 'vertical',
			created_by TEXT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS people (
			id TEXT PRIMARY KEY,
			tree_id TEXT NOT NULL REFERENCES trees(id),
			first_name TEXT NOT NULL,
			middle_name TEXT,
			last_name TEXT,
			maiden_name TEXT,
			gender TEXT,
			birth_date TEXT,
			birth_place TEXT,
			death_date TEXT,
			death_place TEXT,
			biography TEXT,
			photo_url TEXT,
			position_x DOUBLE PRECISION NOT NULL DEFAULT 0,
			position_y DOUBLE PRECISION NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS relationships (
			id TEXT PRIMARY KEY,
			tree_id TEXT NOT NULL REFERENCES trees(id),
			person1_id TEXT NOT NULL REFERENCES people(id),
			person2_id TEXT NOT NULL REFERENCES people(id),
			type TEXT NOT NULL,
			start_date TEXT,
			end_date TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS life_events (
			id TEXT PRIMARY KEY,
			person_id TEXT NOT NULL REFERENCES people(id),
			type TEXT NOT NULL,
			title TEXT NOT NULL,
			description TEXT,
			event_date TEXT,
			location TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS stories (
			id TEXT PRIMARY KEY,
			person_id TEXT NOT NULL REFERENCES people(id),
			tree_id TEXT NOT NULL REFERENCES trees(id),
			title TEXT NOT NULL,
			content TEXT NOT NULL,
			author_id TEXT NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS person_images (
			id TEXT PRIMARY KEY,
			person_id TEXT NOT NULL REFERENCES people(id) ON DELETE CASCADE,
			image_url TEXT NOT NULL,
			is_primary BOOLEAN NOT NULL DEFAULT FALSE,
			uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS person_images_one_primary
			ON person_images (person_id) WHERE is_primary`,
		`CREATE TABLE IF NOT EXISTS user_activity (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			last_seen TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS forest_members (
			id TEXT PRIMARY KEY,
			forest_id TEXT NOT NULL REFERENCES forests(id),
			user_id TEXT NOT NULL REFERENCES users(id),
			role TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS tree_members (
			id TEXT PRIMARY KEY,
			tree_id TEXT NOT NULL REFERENCES trees(id),
			user_id TEXT NOT NULL REFERENCES users(id),
			role TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS invitations (
			id TEXT PRIMARY KEY,
			forest_id TEXT REFERENCES forests(id),
			tree_id TEXT REFERENCES trees(id),
			inviter_id TEXT NOT NULL REFERENCES users(id),
			invitee_email TEXT NOT NULL,
			role TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			token TEXT UNIQUE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS ai_tasks (
			id TEXT PRIMARY KEY,
			tenant_id TEXT NOT NULL REFERENCES tenants(id),
			tree_id TEXT REFERENCES trees(id) ON DELETE SET NULL,
			person_id TEXT REFERENCES people(id) ON DELETE SET NULL,
			status TEXT NOT NULL,
			provider TEXT NOT NULL,
			task_type TEXT NOT NULL,
			payload TEXT,
			result TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}

	return nil
}
