package repositories

import (
	"context"
	"time"

	"famtree/internal/domain/models"
)

// TenantRepository persists tenants.
type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	Count(ctx context.Context) (int, error)
}

// UserRepository persists user accounts. GetByEmail reports
// domain.ErrNotFound for unknown addresses.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// UserActivityRepository tracks last-seen timestamps for presence counts.
type UserActivityRepository interface {
	// Touch upserts the user's last-seen timestamp.
	Touch(ctx context.Context, userID string, seen time.Time) error
	// CountActiveSince counts distinct tenant users seen after the cutoff.
	CountActiveSince(ctx context.Context, tenantID string, since time.Time) (int, error)
}
