package repository

import (
	"context"

	"github.com/spec-kit/worker-portal/internal/domain"
)

// AccountRepository persists worker and admin accounts. Email, national ID
// and identifier are unique; implementations enforce this at write time and
// report violations with the ErrDuplicate* sentinels.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByNationalID(ctx context.Context, nationalID string) (*domain.Account, error)
	// SetEmailVerified is idempotent.
	SetEmailVerified(ctx context.Context, id string) error
	// SetIdentityVerified is idempotent.
	SetIdentityVerified(ctx context.Context, id string) error
	// SetApprovalStatus returns the status held before the change.
	SetApprovalStatus(ctx context.Context, id string, status domain.ApprovalStatus) (domain.ApprovalStatus, error)
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Account, error)
	List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error)
}
