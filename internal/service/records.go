package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/domain/services"
)

// lifeEventService implements the LifeEventService interface
type lifeEventService struct {
	eventRepo  repositories.LifeEventRepository
	personRepo repositories.PersonRepository
	logger     *slog.Logger
}

// NewLifeEventService creates a new life event service
func NewLifeEventService(
	eventRepo repositories.LifeEventRepository,
	personRepo repositories.PersonRepository,
	logger *slog.Logger,
) services.LifeEventService {
	return &lifeEventService{
		eventRepo:  eventRepo,
		personRepo: personRepo,
		logger:     logger,
	}
}

// ListLifeEvents returns a person's events in date order
func (s *lifeEventService) ListLifeEvents(ctx context.Context, actor *models.AuthUser, personID string) ([]models.LifeEvent, error) {
	return s.eventRepo.ListByPerson(ctx, personID)
}

// CreateLifeEvent records a dated milestone for a person
func (s *lifeEventService) CreateLifeEvent(ctx context.Context, actor *models.AuthUser, req *services.CreateLifeEventRequest) (*models.LifeEvent, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.PersonID, validation.Required),
		validation.Field(&req.Type, validation.Required),
		validation.Field(&req.Title, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.personRepo.GetByID(ctx, req.PersonID); err != nil {
		return nil, err
	}

	event := &models.LifeEvent{
		ID:          uuid.NewString(),
		PersonID:    req.PersonID,
		Type:        req.Type,
		Title:       req.Title,
		Description: req.Description,
		EventDate:   req.EventDate,
		Location:    req.Location,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// storyService implements the StoryService interface
type storyService struct {
	storyRepo repositories.StoryRepository
	logger    *slog.Logger
}

// NewStoryService creates a new story service
func NewStoryService(storyRepo repositories.StoryRepository, logger *slog.Logger) services.StoryService {
	return &storyService{storyRepo: storyRepo, logger: logger}
}

// ListStories filters by person when personID is set, otherwise by tree
func (s *storyService) ListStories(ctx context.Context, actor *models.AuthUser, personID, treeID string) ([]models.Story, error) {
	switch {
	case personID != "":
		return s.storyRepo.ListByPerson(ctx, personID)
	case treeID != "":
		return s.storyRepo.ListByTree(ctx, treeID)
	default:
		return nil, fmt.Errorf("%w: personId or treeId is required", domain.ErrValidation)
	}
}

// CreateStory writes a story authored by the actor
func (s *storyService) CreateStory(ctx context.Context, actor *models.AuthUser, req *services.CreateStoryRequest) (*models.Story, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.PersonID, validation.Required),
		validation.Field(&req.TreeID, validation.Required),
		validation.Field(&req.Title, validation.Required),
		validation.Field(&req.Content, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	story := &models.Story{
		ID:       uuid.NewString(),
		PersonID: req.PersonID,
		TreeID:   req.TreeID,
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: actor.ID,
	}

	if err := s.storyRepo.Create(ctx, story); err != nil {
		return nil, err
	}

	return story, nil
}
