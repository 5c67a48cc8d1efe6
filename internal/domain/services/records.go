package services

import (
	"context"

	"famtree/internal/domain/models"
	"famtree/internal/rbac"
)

// CreateRelationshipRequest represents a request to link two people
type CreateRelationshipRequest struct {
	TreeID    string  `json:"treeId"`
	Person1ID string  `json:"person1Id"`
	Person2ID string  `json:"person2Id"`
	Type      string  `json:"type"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// RelationshipService defines business logic operations for relationships.
type RelationshipService interface {
	ListRelationships(ctx context.Context, actor *models.AuthUser, treeID string) ([]models.Relationship, error)
	CreateRelationship(ctx context.Context, actor *models.AuthUser, req *CreateRelationshipRequest) (*models.Relationship, error)
	UpdateRelationshipType(ctx context.Context, actor *models.AuthUser, id, relType string) error
	DeleteRelationship(ctx context.Context, actor *models.AuthUser, id string) error
}

// CreateLifeEventRequest represents a request to record a life event
type CreateLifeEventRequest struct {
	PersonID    string  `json:"personId"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	EventDate   *string `json:"eventDate"`
	Location    *string `json:"location"`
}

// LifeEventService defines business logic operations for life events.
type LifeEventService interface {
	ListLifeEvents(ctx context.Context, actor *models.AuthUser, personID string) ([]models.LifeEvent, error)
	CreateLifeEvent(ctx context.Context, actor *models.AuthUser, req *CreateLifeEventRequest) (*models.LifeEvent, error)
}

// CreateStoryRequest represents a request to write a story
type CreateStoryRequest struct {
	PersonID string `json:"personId"`
	TreeID   string `json:"treeId"`
	Title    string `json:"title"`
	Content  string `json:"content"`
}

// StoryService defines business logic operations for stories.
type StoryService interface {
	// ListStories filters by person when personID is set, otherwise by tree.
	ListStories(ctx context.Context, actor *models.AuthUser, personID, treeID string) ([]models.Story, error)
	CreateStory(ctx context.Context, actor *models.AuthUser, req *CreateStoryRequest) (*models.Story, error)
}

// CreateInvitationRequest represents a membership invitation
type CreateInvitationRequest struct {
	ForestID     *string   `json:"forestId"`
	TreeID       *string   `json:"treeId"`
	InviteeEmail string    `json:"inviteeEmail"`
	Role         rbac.Role `json:"role"`
}

// InvitationService defines invitation issue and redemption.
type InvitationService interface {
	CreateInvitation(ctx context.Context, actor *models.AuthUser, req *CreateInvitationRequest) (*models.Invitation, error)

	// AcceptInvitation redeems a pending token, granting the actor the
	// invited memberships.
	AcceptInvitation(ctx context.Context, actor *models.AuthUser, token string) error
}

// CreateAITaskRequest represents a task enqueue request
type CreateAITaskRequest struct {
	Provider string  `json:"provider"`
	TaskType string  `json:"taskType"`
	Task     string  `json:"task"`
	TreeID   *string `json:"treeId"`
	PersonID *string `json:"personId"`
}

// AITaskService records tasks for an external worker.
type AITaskService interface {
	EnqueueTask(ctx context.Context, actor *models.AuthUser, req *CreateAITaskRequest) (*models.AITask, error)
}
