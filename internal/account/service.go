// AngelaMos | 2026
// service.go

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/gashasec/portal-backend/internal/auth"
	"github.com/gashasec/portal-backend/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(
	ctx context.Context,
	req CreateAccountRequest,
) (*Account, error) {
	passwordHash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct := Account{
		ID:                 uuid.New().String(),
		Email:              strings.ToLower(req.Email),
		PasswordHash:       passwordHash,
		Name:               req.Name,
		Role:               req.Role,
		ModuleCapabilities: ModuleList(req.Modules),
		Status:             StatusActive,
	}

	if err := ValidateInvariant(acct); err != nil {
		return nil, fmt.Errorf("create account: %w: %w", core.ErrInvalidInput, err)
	}

	if err := s.repo.Create(ctx, &acct); err != nil {
		return nil, err
	}

	return &acct, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(
	ctx context.Context,
	params ListAccountsParams,
) ([]Account, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateAccountRequest,
) (*Account, error) {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		acct.Name = *req.Name
	}

	if err := ValidateInvariant(*acct); err != nil {
		return nil, fmt.Errorf("update account: %w: %w", core.ErrInvalidInput, err)
	}

	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, err
	}

	return acct, nil
}

func (s *Service) UpdateRole(
	ctx context.Context,
	id, role string,
) (*Account, error) {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	acct.Role = role

	// Demoting a super-admin with an empty capability set would violate
	// the cardinality rule; the invariant check rejects it before persist.
	if err := ValidateInvariant(*acct); err != nil {
		return nil, fmt.Errorf("update role: %w: %w", core.ErrInvalidInput, err)
	}

	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, err
	}

	return acct, nil
}

// UpdateStatus deactivates or reactivates an account. Requests and tasks
// owned by the account are untouched.
func (s *Service) UpdateStatus(
	ctx context.Context,
	id, status string,
) (*Account, error) {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	acct.Status = status

	if err := ValidateInvariant(*acct); err != nil {
		return nil, fmt.Errorf("update status: %w: %w", core.ErrInvalidInput, err)
	}

	if err := s.repo.Update(ctx, acct); err != nil {
		return nil, err
	}

	return acct, nil
}

func (s *Service) AddCapability(
	ctx context.Context,
	id, moduleID string,
) (*Account, error) {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := AddCapability(*acct, moduleID)
	if err != nil {
		return nil, err
	}

	if err := ValidateInvariant(updated); err != nil {
		return nil, fmt.Errorf("add capability: %w: %w", core.ErrInvalidInput, err)
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) RemoveCapability(
	ctx context.Context,
	id, moduleID string,
) (*Account, error) {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := RemoveCapability(*acct, moduleID)
	if err != nil {
		return nil, err
	}

	if err := ValidateInvariant(updated); err != nil {
		return nil, fmt.Errorf("remove capability: %w: %w", core.ErrInvalidInput, err)
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	return &updated, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.SoftDelete(ctx, id)
}

func (s *Service) CanDelete(
	ctx context.Context,
	requesterID, targetID string,
) error {
	if requesterID == targetID {
		return fmt.Errorf("cannot delete own account: %w", core.ErrForbidden)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsSuperAdmin() {
		return fmt.Errorf("cannot delete super-admin accounts: %w", core.ErrForbidden)
	}

	return nil
}

// Bootstrap seeds a single super-admin when none exists. Safe to call on
// every startup.
func (s *Service) Bootstrap(
	ctx context.Context,
	email, password, name string,
) error {
	count, err := s.repo.CountByRole(ctx, RoleSuperAdmin)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	if count > 0 {
		return nil
	}

	if email == "" || password == "" {
		return fmt.Errorf("bootstrap: no super-admin exists and no bootstrap credentials configured")
	}

	acct, err := s.Create(ctx, CreateAccountRequest{
		Email:    email,
		Password: password,
		Name:     name,
		Role:     RoleSuperAdmin,
	})
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	slog.Info("bootstrapped super-admin account", "account_id", acct.ID)
	return nil
}

// BackfillLegacyModules copies each legacy single-module field into the
// capability set and clears it. One-time migration, external to the
// Capabilities accessor.
func (s *Service) BackfillLegacyModules(ctx context.Context) (int, error) {
	accounts, err := s.repo.ListWithLegacyModule(ctx)
	if err != nil {
		return 0, err
	}

	migrated := 0
	for i := range accounts {
		acct := accounts[i]
		acct.ModuleCapabilities = ModuleList{*acct.LegacyModule}
		acct.LegacyModule = nil

		if err := ValidateInvariant(acct); err != nil {
			slog.Warn("skipping legacy backfill for invalid account",
				"account_id", acct.ID,
				"error", err,
			)
			continue
		}

		if err := s.repo.Update(ctx, &acct); err != nil {
			return migrated, fmt.Errorf("backfill account %s: %w", acct.ID, err)
		}
		migrated++
	}

	return migrated, nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.AccountInfo, error) {
	acct, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return toAccountInfo(acct), nil
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.AccountInfo, error) {
	acct, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toAccountInfo(acct), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	accountID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, accountID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	accountID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, accountID, passwordHash)
}

func (s *Service) RecordLogin(ctx context.Context, accountID string) error {
	return s.repo.UpdateLastLogin(ctx, accountID)
}

func toAccountInfo(a *Account) *auth.AccountInfo {
	return &auth.AccountInfo{
		ID:           a.ID,
		Email:        a.Email,
		Name:         a.Name,
		PasswordHash: a.PasswordHash,
		Role:         a.Role,
		Modules:      a.Capabilities(),
		Status:       a.Status,
		TokenVersion: a.TokenVersion,
	}
}

var _ auth.AccountProvider = (*Service)(nil)
