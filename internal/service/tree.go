package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/domain/services"
	"famtree/internal/rbac"
)

// treeService implements the TreeService interface
type treeService struct {
	treeRepo   repositories.TreeRepository
	memberRepo repositories.TreeMemberRepository
	forestRepo repositories.ForestRepository
	personRepo repositories.PersonRepository
	relRepo    repositories.RelationshipRepository
	imageRepo  repositories.PersonImageRepository
	eventRepo  repositories.LifeEventRepository
	storyRepo  repositories.StoryRepository
	txManager  repositories.TransactionManager
	logger     *slog.Logger
}

// NewTreeService creates a new tree service
func NewTreeService(
	treeRepo repositories.TreeRepository,
	memberRepo repositories.TreeMemberRepository,
	forestRepo repositories.ForestRepository,
	personRepo repositories.PersonRepository,
	relRepo repositories.RelationshipRepository,
	imageRepo repositories.PersonImageRepository,
	eventRepo repositories.LifeEventRepository,
	storyRepo repositories.StoryRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.TreeService {
	return &treeService{
		treeRepo:   treeRepo,
		memberRepo: memberRepo,
		forestRepo: forestRepo,
		personRepo: personRepo,
		relRepo:    relRepo,
		imageRepo:  imageRepo,
		eventRepo:  eventRepo,
		storyRepo:  storyRepo,
		txManager:  txManager,
		logger:     logger,
	}
}

// requireForest resolves the forest within the actor's tenant.
func (s *treeService) requireForest(ctx context.Context, actor *models.AuthUser, forestID string) error {
	if actor.TenantID == nil {
		return fmt.Errorf("forest %s: %w", forestID, domain.ErrNotFound)
	}
	_, err := s.forestRepo.GetByID(ctx, forestID, *actor.TenantID)
	return err
}

// ListTrees returns the trees of a forest in the actor's tenant
func (s *treeService) ListTrees(ctx context.Context, actor *models.AuthUser, forestID string) ([]models.Tree, error) {
	if err := s.requireForest(ctx, actor, forestID); err != nil {
		return nil, err
	}
	return s.treeRepo.ListByForest(ctx, forestID)
}

// GetTree retrieves a tree within the actor's tenant
func (s *treeService) GetTree(ctx context.Context, actor *models.AuthUser, id string) (*models.Tree, error) {
	if actor.TenantID == nil {
		return nil, fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
	}
	return s.treeRepo.GetInTenant(ctx, id, *actor.TenantID)
}

// CreateTree creates a tree and enrolls the creator as an Arborist member
func (s *treeService) CreateTree(ctx context.Context, actor *models.AuthUser, req *services.CreateTreeRequest) (*models.Tree, error) {
	if !rbac.HasRole(actor.Role, rbac.RoleArborist) {
		return nil, fmt.Errorf("insufficient role: %w", domain.ErrForbidden)
	}

	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if err := s.requireForest(ctx, actor, req.ForestID); err != nil {
		return nil, err
	}

	tree := &models.Tree{
		ID:        uuid.NewString(),
		ForestID:  req.ForestID,
		Name:      strings.TrimSpace(req.Name),
		Theme:     "modern",
		Layout:    "vertical",
		CreatedBy: actor.ID,
	}

	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.treeRepo.Create(txCtx, tree); err != nil {
			return err
		}
		member := &models.TreeMember{
			ID:     uuid.NewString(),
			TreeID: tree.ID,
			UserID: actor.ID,
			Role:   rbac.RoleArborist,
		}
		return s.memberRepo.Create(txCtx, member)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tree created", "tree_id", tree.ID, "name", tree.Name, "user_id", actor.ID)

	return tree, nil
}

// RenameTree updates a tree's name within the actor's tenant
func (s *treeService) RenameTree(ctx context.Context, actor *models.AuthUser, id, name string) (*models.Tree, error) {
	if !rbac.HasRole(actor.Role, rbac.RoleArborist) {
		return nil, fmt.Errorf("insufficient role: %w", domain.ErrForbidden)
	}

	if err := validateName(name); err != nil {
		return nil, err
	}

	tree, err := s.GetTree(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	tree.Name = strings.TrimSpace(name)
	if err := s.treeRepo.Rename(ctx, tree.ID, tree.Name); err != nil {
		return nil, err
	}

	return tree, nil
}

// DeleteTree removes a tree with everything in it. All rows go in one
// transaction so a failure cannot strand orphaned people or relationships.
func (s *treeService) DeleteTree(ctx context.Context, actor *models.AuthUser, id string) error {
	role, err := s.memberRepo.GetRole(ctx, id, actor.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("tree %s: %w", id, domain.ErrNotFound)
		}
		return err
	}

	if !rbac.HasRole(role, rbac.RoleArborist) {
		return fmt.Errorf("insufficient role: %w", domain.ErrForbidden)
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.eventRepo.DeleteByTree(txCtx, id); err != nil {
			return err
		}
		if err := s.storyRepo.DeleteByTree(txCtx, id); err != nil {
			return err
		}
		if err := s.imageRepo.DeleteByTree(txCtx, id); err != nil {
			return err
		}
		if err := s.relRepo.DeleteByTree(txCtx, id); err != nil {
			return err
		}
		if err := s.personRepo.DeleteByTree(txCtx, id); err != nil {
			return err
		}
		if err := s.memberRepo.DeleteByTree(txCtx, id); err != nil {
			return err
		}
		return s.treeRepo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("tree deleted", "tree_id", id, "user_id", actor.ID)

	return nil
}
