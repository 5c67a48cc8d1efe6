package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"

	"famtree/internal/auth"
	"famtree/internal/config"
	"famtree/internal/domain"
	"famtree/internal/domain/models"
	"famtree/internal/domain/repositories"
	"famtree/internal/domain/services"
	"famtree/internal/rbac"
)

// authService implements the AuthService interface
type authService struct {
	tenantRepo repositories.TenantRepository
	userRepo   repositories.UserRepository
	txManager  repositories.TransactionManager
	tokens     auth.TokenIssuer
	logger     *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	tenantRepo repositories.TenantRepository,
	userRepo repositories.UserRepository,
	txManager repositories.TransactionManager,
	tokens auth.TokenIssuer,
	logger *slog.Logger,
) services.AuthService {
	return &authService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
		txManager:  txManager,
		tokens:     tokens,
		logger:     logger,
	}
}

// Register creates an account. The first account ever registered also
// creates a tenant and becomes its Admin; both rows commit together.
func (s *authService) Register(ctx context.Context, req *services.RegisterRequest) (*services.AuthResult, error) {
	if err := s.validateRegisterRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		Role:         rbac.RoleVisitor,
	}

	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		count, err := s.tenantRepo.Count(txCtx)
		if err != nil {
			return err
		}

		if count == 0 {
			tenantName := strings.TrimSpace(req.TenantName)
			if tenantName == "" {
				tenantName = "Default Tenant"
			}
			tenant := &models.Tenant{ID: uuid.NewString(), Name: tenantName}
			if err := s.tenantRepo.Create(txCtx, tenant); err != nil {
				return err
			}
			user.TenantID = &tenant.ID
			user.Role = rbac.RoleAdmin
		}

		return s.userRepo.Create(txCtx, user)
	})
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.IssueToken(&models.AuthUser{
		ID:       user.ID,
		Email:    user.Email,
		Role:     user.Role,
		TenantID: user.TenantID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	return &services.AuthResult{Token: token, Role: user.Role, TenantID: user.TenantID}, nil
}

// Login verifies credentials and issues a token. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req *services.LoginRequest) (*services.AuthResult, error) {
	if err := s.validateLoginRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
		}
		return nil, err
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, fmt.Errorf("invalid credentials: %w", domain.ErrUnauthorized)
	}

	token, err := s.tokens.IssueToken(&models.AuthUser{
		ID:       user.ID,
		Email:    user.Email,
		Role:     user.Role,
		TenantID: user.TenantID,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", user.ID)

	return &services.AuthResult{Token: token, Role: user.Role, TenantID: user.TenantID}, nil
}

// CreateTenant provisions an additional tenant
func (s *authService) CreateTenant(ctx context.Context, actor *models.AuthUser, name string) (*models.Tenant, error) {
	if !rbac.HasRole(actor.Role, rbac.RoleAdmin) {
		return nil, fmt.Errorf("insufficient role: %w", domain.ErrForbidden)
	}

	name = strings.TrimSpace(name)
	if err := validation.Validate(name, validation.Required, validation.Length(config.MinNameLength, config.MaxNameLength)); err != nil {
		return nil, fmt.Errorf("%w: name: %v", domain.ErrValidation, err)
	}

	tenant := &models.Tenant{ID: uuid.NewString(), Name: name}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	s.logger.Info("tenant created", "tenant_id", tenant.ID, "name", tenant.Name)

	return tenant, nil
}

func (s *authService) validateRegisterRequest(req *services.RegisterRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(config.MinPasswordLength, 0)),
		validation.Field(&req.TenantName, validation.Length(0, config.MaxNameLength)),
	)
}

func (s *authService) validateLoginRequest(req *services.LoginRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}
