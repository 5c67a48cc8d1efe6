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

// relationshipService implements the RelationshipService interface
type relationshipService struct {
	relRepo    repositories.RelationshipRepository
	personRepo repositories.PersonRepository
	logger     *slog.Logger
}

// NewRelationshipService creates a new relationship service
func NewRelationshipService(
	relRepo repositories.RelationshipRepository,
	personRepo repositories.PersonRepository,
	logger *slog.Logger,
) services.RelationshipService {
	return &relationshipService{
		relRepo:    relRepo,
		personRepo: personRepo,
		logger:     logger,
	}
}

// ListRelationships returns a tree's relationships. The relationship's own
// tree_id column is the single source of truth for scoping.
func (s *relationshipService) ListRelationships(ctx context.Context, actor *models.AuthUser, treeID string) ([]models.Relationship, error) {
	return s.relRepo.ListByTree(ctx, treeID)
}

// CreateRelationship links two people. Both endpoints must belong to the
// relationship's tree.
func (s *relationshipService) CreateRelationship(ctx context.Context, actor *models.AuthUser, req *services.CreateRelationshipRequest) (*models.Relationship, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	for _, personID := range []string{req.Person1ID, req.Person2ID} {
		person, err := s.personRepo.GetByID(ctx, personID)
		if err != nil {
			return nil, err
		}
		if person.TreeID != req.TreeID {
			return nil, fmt.Errorf("%w: person %s is not in tree %s", domain.ErrValidation, personID, req.TreeID)
		}
	}

	rel := &models.Relationship{
		ID:        uuid.NewString(),
		TreeID:    req.TreeID,
		Person1ID: req.Person1ID,
		Person2ID: req.Person2ID,
		Type:      req.Type,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}

	if err := s.relRepo.Create(ctx, rel); err != nil {
		return nil, err
	}

	s.logger.Info("relationship created", "relationship_id", rel.ID, "tree_id", rel.TreeID, "type", rel.Type)

	return rel, nil
}

// UpdateRelationshipType changes a relationship's type
func (s *relationshipService) UpdateRelationshipType(ctx context.Context, actor *models.AuthUser, id, relType string) error {
	if relType == "" {
		return fmt.Errorf("%w: type is required", domain.ErrValidation)
	}
	return s.relRepo.UpdateType(ctx, id, relType)
}

// DeleteRelationship removes a relationship
func (s *relationshipService) DeleteRelationship(ctx context.Context, actor *models.AuthUser, id string) error {
	return s.relRepo.Delete(ctx, id)
}

func (s *relationshipService) validateCreateRequest(req *services.CreateRelationshipRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.TreeID, validation.Required),
		validation.Field(&req.Person1ID, validation.Required),
		validation.Field(&req.Person2ID, validation.Required),
		validation.Field(&req.Type, validation.Required),
	)
}
