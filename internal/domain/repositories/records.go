package repositories

import (
	"context"

	"famtree/internal/domain/models"
)

// LifeEventRepository persists life events.
type LifeEventRepository interface {
	Create(ctx context.Context, event *models.LifeEvent) error
	// ListByPerson orders by event date ascending.
	ListByPerson(ctx context.Context, personID string) ([]models.LifeEvent, error)
	DeleteByPerson(ctx context.Context, personID string) error
	// DeleteByTree removes the events of every person in the tree.
	DeleteByTree(ctx context.Context, treeID string) error
}

// StoryRepository persists stories.
type StoryRepository interface {
	Create(ctx context.Context, story *models.Story) error
	ListByPerson(ctx context.Context, personID string) ([]models.Story, error)
	ListByTree(ctx context.Context, treeID string) ([]models.Story, error)
	DeleteByPerson(ctx context.Context, personID string) error
	DeleteByTree(ctx context.Context, treeID string) error
}

// InvitationRepository persists membership invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *models.Invitation) error
	// GetPendingByToken reports domain.ErrNotFound for unknown or already
	// redeemed tokens.
	GetPendingByToken(ctx context.Context, token string) (*models.Invitation, error)
	MarkAccepted(ctx context.Context, id string) error
}

// AITaskRepository records queued AI tasks. Nothing in this server dequeues
// them; processing belongs to an external worker.
type AITaskRepository interface {
	Create(ctx context.Context, task *models.AITask) error
}
