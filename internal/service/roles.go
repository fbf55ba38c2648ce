package service

import (
	"context"
	"errors"
	"strings"

	"github.com/kinovera/festival/api/internal/database"
	"github.com/kinovera/festival/api/internal/model"
)

// UserRepositoryInterface defines the repository interface
type UserRepositoryInterface interface {
	Create(ctx context.Context, account *model.UserAccount) error
	Get(ctx context.Context, accountID string) (*model.UserAccount, error)
	GetByEmail(ctx context.Context, email string) (*model.UserAccount, error)
	List(ctx context.Context) ([]*model.UserAccount, error)
	Update(ctx context.Context, accountID string, updates map[string]interface{}) (*model.UserAccount, error)
}

// AccountService handles staff account and role management
type AccountService struct {
	repo UserRepositoryInterface
}

// NewAccountService creates a new account service
func NewAccountService(repo UserRepositoryInterface) *AccountService {
	return &AccountService{repo: repo}
}

// CreateAccount creates a staff account. Only roles with the assign-roles
// capability may create accounts.
func (s *AccountService) CreateAccount(ctx context.Context, actorRole, actorID string, req *model.CreateAccountRequest) (*model.UserAccount, error) {
	if !model.CanAssignRoles(actorRole) {
		return nil, ErrRoleNotPermitted
	}
	if !model.ValidRole(req.Role) {
		return nil, ErrInvalidRole
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.DisplayName) == "" {
		return nil, ErrInvalidAccount
	}

	account := &model.UserAccount{
		Email:       strings.TrimSpace(req.Email),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Role:        req.Role,
		CreatedBy:   actorID,
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, err
	}
	return account, nil
}

// GetAccount retrieves an account by ID
func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*model.UserAccount, error) {
	account, err := s.repo.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return account, nil
}

// ListAccounts returns all staff accounts.
func (s *AccountService) ListAccounts(ctx context.Context) ([]*model.UserAccount, error) {
	return s.repo.List(ctx)
}

// AssignRole moves an account to a new role. Role moves are free-form:
// any actor with the assign-roles capability may move any account to any
// role, there is no approval workflow.
func (s *AccountService) AssignRole(ctx context.Context, actorRole, actorID, accountID, role string) (*model.UserAccount, error) {
	if !model.CanAssignRoles(actorRole) {
		return nil, ErrRoleNotPermitted
	}
	if !model.ValidRole(role) {
		return nil, ErrInvalidRole
	}

	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	return s.repo.Update(ctx, accountID, map[string]interface{}{
		"role":       role,
		"updated_by": actorID,
	})
}

// SetAccountStatus activates or deactivates an account.
func (s *AccountService) SetAccountStatus(ctx context.Context, actorRole, actorID, accountID, status string) (*model.UserAccount, error) {
	if !model.CanAssignRoles(actorRole) {
		return nil, ErrRoleNotPermitted
	}
	if status != model.AccountStatusActive && status != model.AccountStatusInactive {
		return nil, ErrInvalidAccount
	}

	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	// Deactivating the last active admin would lock everyone out.
	if status == model.AccountStatusInactive && model.CanAssignRoles(account.Role) {
		admins := 0
		accounts, err := s.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, a := range accounts {
			if a.Status == model.AccountStatusActive && model.CanAssignRoles(a.Role) {
				admins++
			}
		}
		if admins <= 1 {
			return nil, ErrAccountDeactivate
		}
	}

	return s.repo.Update(ctx, accountID, map[string]interface{}{
		"status":     status,
		"updated_by": actorID,
	})
}

// UpdateAccount applies a partial account edit.
func (s *AccountService) UpdateAccount(ctx context.Context, actorRole, actorID, accountID string, req *model.UpdateAccountRequest) (*model.UserAccount, error) {
	if req.Role != nil {
		return s.AssignRole(ctx, actorRole, actorID, accountID, *req.Role)
	}
	if req.Status != nil {
		return s.SetAccountStatus(ctx, actorRole, actorID, accountID, *req.Status)
	}

	existing, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName == nil || strings.TrimSpace(*req.DisplayName) == "" {
		return existing, nil
	}

	return s.repo.Update(ctx, accountID, map[string]interface{}{
		"display_name": strings.TrimSpace(*req.DisplayName),
		"updated_by":   actorID,
	})
}
