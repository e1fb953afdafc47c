package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/worker-portal/internal/auth"
	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/events"
	"github.com/spec-kit/worker-portal/internal/repository"
	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

// AccountService covers profile maintenance and admin approval.
type AccountService struct {
	accounts   repository.AccountRepository
	history    repository.AccountHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	audit      auditor
	bcryptCost int
}

// AccountDependencies encapsulates collaborators.
type AccountDependencies struct {
	Accounts   repository.AccountRepository
	History    repository.AccountHistoryRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	BcryptCost int
}

// NewAccountService builds the service.
func NewAccountService(deps AccountDependencies) *AccountService {
	return &AccountService{
		accounts:   deps.Accounts,
		history:    deps.History,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		audit:      auditor{history: deps.History, logger: deps.Logger},
		bcryptCost: deps.BcryptCost,
	}
}

// GetProfile loads an account by identifier.
func (s *AccountService) GetProfile(ctx context.Context, id string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "account")
	}
	return account, nil
}

// UpdateProfile applies a partial update of mutable profile fields.
func (s *AccountService) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Account, error) {
	if update.Empty() {
		return nil, errorutil.NewValidationError("no profile fields supplied", nil)
	}
	errs := fieldErrors{}
	if update.Name != nil {
		trimmed := strings.TrimSpace(*update.Name)
		update.Name = &trimmed
		if trimmed == "" {
			errs.add("name", "name cannot be empty")
		}
	}
	if update.Phone != nil {
		trimmed := strings.TrimSpace(*update.Phone)
		update.Phone = &trimmed
		if !validPhone(trimmed) {
			errs.add("phone", "phone must be a 10-digit mobile number")
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}

	account, err := s.accounts.UpdateProfile(ctx, id, update)
	if err != nil {
		return nil, mapRepoError(err, "account")
	}

	s.audit.record(ctx, &domain.AccountHistory{
		AccountID:  id,
		ActorID:    id,
		ChangeType: domain.ChangeProfileUpdate,
		NewValue:   map[string]any{"fields": changedFields(update)},
	})
	return account, nil
}

func changedFields(u domain.ProfileUpdate) []string {
	var fields []string
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(u.Name != nil, "name")
	add(u.Phone != nil, "phone")
	add(u.HomeRegion != nil, "homeRegion")
	add(u.District != nil, "district")
	add(u.Address != nil, "address")
	add(u.Skills != nil, "skills")
	add(u.Education != nil, "education")
	add(u.Experience != nil, "experience")
	return fields
}

// ListWorkers returns worker accounts for the admin dashboard.
func (s *AccountService) ListWorkers(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error) {
	filter.Role = domain.RoleWorker
	if filter.ApprovalStatus != "" && !filter.ApprovalStatus.Valid() {
		return nil, 0, errorutil.NewValidationError("unknown approval status", map[string]any{"status": filter.ApprovalStatus})
	}
	accounts, total, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, 0, errorutil.NewInternalError(err)
	}
	return accounts, total, nil
}

// SetApprovalStatus records an administrator's decision on a worker.
func (s *AccountService) SetApprovalStatus(ctx context.Context, adminID, accountID string, status domain.ApprovalStatus) (*domain.Account, error) {
	if status != domain.ApprovalApproved && status != domain.ApprovalRejected {
		return nil, errorutil.NewValidationError("status must be approved or rejected", nil)
	}

	target, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, mapRepoError(err, "worker")
	}
	if target.Role != domain.RoleWorker {
		return nil, errorutil.NewNotFound("worker", nil)
	}

	previous, err := s.accounts.SetApprovalStatus(ctx, accountID, status)
	if err != nil {
		return nil, mapRepoError(err, "worker")
	}
	target.ApprovalStatus = status

	s.audit.record(ctx, &domain.AccountHistory{
		AccountID:  accountID,
		ActorID:    adminID,
		ChangeType: domain.ChangeApprovalStatus,
		OldValue:   map[string]any{"approval_status": string(previous)},
		NewValue:   map[string]any{"approval_status": string(status)},
	})

	if previous != status && s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			Type:      events.EventAccountApprovalChanged,
			AccountID: accountID,
			ActorID:   adminID,
			Payload:   events.ApprovalChangedPayload{OldStatus: previous, NewStatus: status},
		})
	}
	return target, nil
}

// History lists audit entries for an account.
func (s *AccountService) History(ctx context.Context, accountID string) ([]domain.AccountHistory, error) {
	if _, err := s.accounts.FindByID(ctx, accountID); err != nil {
		return nil, mapRepoError(err, "account")
	}
	entries, err := s.history.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, errorutil.NewInternalError(err)
	}
	return entries, nil
}

// EnsureAdmin creates the bootstrap administrator if it does not exist yet.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password, name string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	existing, err := s.accounts.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != domain.RoleAdmin {
			s.logger.Warn("bootstrap admin email belongs to a non-admin account", zap.String("account_id", existing.ID))
		}
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.Account{
		ID:             "ADM-" + uuid.NewString(),
		Name:           name,
		Email:          email,
		PasswordHash:   hash,
		Role:           domain.RoleAdmin,
		EmailVerified:  true,
		ApprovalStatus: domain.ApprovalApproved,
	}
	if err := s.accounts.Create(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil
		}
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("account_id", admin.ID))
	return nil
}
