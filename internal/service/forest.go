package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"famtree/internal/config"
	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/domain/services"
	"famtree/internal/rbac"
)

// forestService implements the ForestService interface
type forestService struct {
	forestRepo repositories.ForestRepository
	memberRepo repositories.ForestMemberRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewForestService creates a new forest service
func NewForestService(
	forestRepo repositories.ForestRepository,
	memberRepo repositories.ForestMemberRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.ForestService {
	return &forestService{
		forestRepo: forestRepo,
		memberRepo: memberRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// ListForests returns the actor's tenant forests. Tenantless users see an
// empty list, not an error.
func (s *forestService) ListForests(ctx context.Context, actor *models.AuthUser) ([]models.Forest, error) {
	if actor.TenantID == nil {
		return []models.Forest{}, nil
	}
	return s.forestRepo.ListByTenant(ctx, *actor.TenantID)
}

// GetForest retrieves a forest within the actor's tenant
func (s *forestService) GetForest(ctx context.Context, actor *models.AuthUser, id string) (*models.Forest, error) {
	if actor.TenantID == nil {
		return nil, fmt.Errorf("forest %s: %w", id, domain.ErrNotFound)
	}
	return s.forestRepo.GetByID(ctx, id, *actor.TenantID)
}

// CreateForest creates a forest and enrolls the creator as a Ranger member
func (s *forestService) CreateForest(ctx context.Context, actor *models.AuthUser, req *services.CreateForestRequest) (*models.Forest, error) {
	if actor.TenantID == nil || !rbac.HasRole(actor.Role, rbac.RoleRanger) {
		return nil, fmt.Errorf("insufficient role: %w", domain.ErrForbidden)
	}

	if err := validateName(req.Name); err != nil {
		return nil, err
	}

	forest := &models.Forest{
		ID:        uuid.NewString(),
		TenantID:  *actor.TenantID,
		Name:      strings.TrimSpace(req.Name),
		CreatedBy: actor.ID,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.forestRepo.Create(txCtx, forest); err != nil {
			return err
		}
		member := &models.ForestMember{
			ID:       uuid.NewString(),
			ForestID: forest.ID,
			UserID:   actor.ID,
			Role:     rbac.RoleRanger,
		}
		return s.memberRepo.Create(txCtx, member)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("forest created", "forest_id", forest.ID, "name", forest.Name, "user_id", actor.ID)

	return forest, nil
}

// RenameForest updates a forest's name within the actor's tenant
func (s *forestService) RenameForest(ctx context.Context, actor *models.AuthUser, id, name string) (*models.Forest, error) {
	if !rbac.HasRole(actor.Role, rbac.RoleRanger) {
		return nil, fmt.Errorf("insufficient role: %w", domain.ErrForbidden)
	}

	if err := validateName(name); err != nil {
		return nil, err
	}

	forest, err := s.GetForest(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	forest.Name = strings.TrimSpace(name)
	if err := s.forestRepo.Rename(ctx, forest.ID, forest.Name); err != nil {
		return nil, err
	}

	return forest, nil
}

func validateName(name string) error {
	if err := validation.Validate(strings.TrimSpace(name),
		validation.Required,
		validation.Length(config.MinNameLength, config.MaxNameLength),
	); err != nil {
		return fmt.Errorf("%w: name: %v", domain.ErrValidation, err)
	}
	return nil
}
