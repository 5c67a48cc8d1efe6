package service

import (
	"context"
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/domain/services"
	"famtree/internal/rbac"
)

// invitationService implements the InvitationService interface
type invitationService struct {
	invRepo          repositories.InvitationRepository
	forestMemberRepo repositories.ForestMemberRepository
	treeMemberRepo   repositories.TreeMemberRepository
	txManager        repositories.TransactionManager
	logger           *slog.Logger
}

// NewInvitationService creates a new invitation service
func NewInvitationService(
	invRepo repositories.InvitationRepository,
	forestMemberRepo repositories.ForestMemberRepository,
	treeMemberRepo repositories.TreeMemberRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.InvitationService {
	return &invitationService{
		invRepo:          invRepo,
		forestMemberRepo: forestMemberRepo,
		treeMemberRepo:   treeMemberRepo,
		txManager:        txManager,
		logger:           logger,
	}
}

// CreateInvitation issues a redeemable membership token
func (s *invitationService) CreateInvitation(ctx context.Context, actor *models.AuthUser, req *services.CreateInvitationRequest) (*models.Invitation, error) {
	err := validation.ValidateStruct(req,
		validation.Field(&req.InviteeEmail, validation.Required, is.Email),
		validation.Field(&req.Role, validation.Required),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !rbac.Valid(req.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrValidation, req.Role)
	}

	inv := &models.Invitation{
		ID:           uuid.NewString(),
		ForestID:     req.ForestID,
		TreeID:       req.TreeID,
		InviterID:    actor.ID,
		InviteeEmail: req.InviteeEmail,
		Role:         req.Role,
		Status:       models.InvitationPending,
		Token:        uuid.NewString(),
	}

	if err := s.invRepo.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.logger.Info("invitation created", "invitation_id", inv.ID, "inviter_id", actor.ID)

	return inv, nil
}

// AcceptInvitation redeems a pending token. The granted memberships and the
// status flip commit together.
func (s *invitationService) AcceptInvitation(ctx context.Context, actor *models.AuthUser, token string) error {
	inv, err := s.invRepo.GetPendingByToken(ctx, token)
	if err != nil {
		return err
	}

	return s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if inv.ForestID != nil {
			member := &models.ForestMember{
				ID:       uuid.NewString(),
				ForestID: *inv.ForestID,
				UserID:   actor.ID,
				Role:     inv.Role,
			}
			if err := s.forestMemberRepo.Create(txCtx, member); err != nil {
				return err
			}
		}

		if inv.TreeID != nil {
			member := &models.TreeMember{
				ID:     uuid.NewString(),
				TreeID: *inv.TreeID,
				UserID: actor.ID,
				Role:   inv.Role,
			}
			if err := s.treeMemberRepo.Create(txCtx, member); err != nil {
				return err
			}
		}

		return s.invRepo.MarkAccepted(txCtx, inv.ID)
	})
}

// aiTaskService implements the AITaskService interface
type aiTaskService struct {
	taskRepo repositories.AITaskRepository
	logger   *slog.Logger
}

// NewAITaskService creates a new AI task service
func NewAITaskService(taskRepo repositories.AITaskRepository, logger *slog.Logger) services.AITaskService {
	return &aiTaskService{taskRepo: taskRepo, logger: logger}
}

// EnqueueTask records a task for an external worker to pick up
func (s *aiTaskService) EnqueueTask(ctx context.Context, actor *models.AuthUser, req *services.CreateAITaskRequest) (*models.AITask, error) {
	if actor.TenantID == nil {
		return nil, fmt.Errorf("%w: missing tenant context", domain.ErrValidation)
	}

	err := validation.ValidateStruct(req,
		validation.Field(&req.Provider, validation.Required, validation.Length(2, 0)),
		validation.Field(&req.TaskType, validation.Required),
		validation.Field(&req.Task, validation.Required, validation.Length(4, 0)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	task := &models.AITask{
		ID:       uuid.NewString(),
		TenantID: *actor.TenantID,
		TreeID:   req.TreeID,
		PersonID: req.PersonID,
		Status:   models.AITaskQueued,
		Provider: req.Provider,
		TaskType: req.TaskType,
		Payload:  &req.Task,
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, err
	}

	s.logger.Info("ai task queued", "task_id", task.ID, "provider", task.Provider, "task_type", task.TaskType)

	return task, nil
}
