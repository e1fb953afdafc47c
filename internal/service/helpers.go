package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/spec-kit/worker-portal/internal/domain"
	"github.com/spec-kit/worker-portal/internal/repository"
	"github.com/spec-kit/worker-portal/pkg/util/errorutil"
)

// mapRepoError turns repository sentinels into client-facing errors.
func mapRepoError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return errorutil.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return errorutil.NewDuplicateEmail()
	case errors.Is(err, repository.ErrDuplicateNationalID):
		return errorutil.NewDuplicateNationalID()
	default:
		return errorutil.NewInternalError(err)
	}
}

// auditor appends account history rows. Audit failures never fail the
// operation being audited.
type auditor struct {
	history repository.AccountHistoryRepository
	logger  *zap.Logger
}

func (a auditor) record(ctx context.Context, entry *domain.AccountHistory) {
	if a.history == nil {
		return
	}
	if err := a.history.Create(ctx, entry); err != nil {
		a.logger.Warn("account history write failed",
			zap.String("account_id", entry.AccountID),
			zap.String("change_type", string(entry.ChangeType)),
			zap.Error(err))
	}
}
