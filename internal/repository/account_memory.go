package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/worker-portal/internal/domain"
)

type memoryAccountRepository struct {
	mu           sync.RWMutex
	byID         map[string]*domain.Account
	byEmail      map[string]string
	byNationalID map[string]string
}

// NewMemoryAccountRepository returns an in-process implementation. Uniqueness
// checks and the insert happen under one lock.
func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		byID:         make(map[string]*domain.Account),
		byEmail:      make(map[string]string),
		byNationalID: make(map[string]string),
	}
}

func cloneAccount(a *domain.Account) *domain.Account {
	cp := *a
	cp.Skills = append([]string(nil), a.Skills...)
	return &cp
}

func (r *memoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[account.ID]; ok {
		return ErrDuplicateWorkerID
	}
	if _, ok := r.byEmail[account.Email]; ok {
		return ErrDuplicateEmail
	}
	if account.NationalID != "" {
		if _, ok := r.byNationalID[account.NationalID]; ok {
			return ErrDuplicateNationalID
		}
	}

	now := time.Now().UTC()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.byID[account.ID] = cloneAccount(account)
	r.byEmail[account.Email] = account.ID
	if account.NationalID != "" {
		r.byNationalID[account.NationalID] = account.ID
	}
	return nil
}

func (r *memoryAccountRepository) FindByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneAccount(a), nil
}

func (r *memoryAccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *memoryAccountRepository) FindByNationalID(ctx context.Context, nationalID string) (*domain.Account, error) {
	r.mu.RLock()
	id, ok := r.byNationalID[nationalID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *memoryAccountRepository) mutate(id string, fn func(a *domain.Account)) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(a)
	a.UpdatedAt = time.Now().UTC()
	return cloneAccount(a), nil
}

func (r *memoryAccountRepository) SetEmailVerified(_ context.Context, id string) error {
	_, err := r.mutate(id, func(a *domain.Account) { a.EmailVerified = true })
	return err
}

func (r *memoryAccountRepository) SetIdentityVerified(_ context.Context, id string) error {
	_, err := r.mutate(id, func(a *domain.Account) { a.IdentityVerified = true })
	return err
}

func (r *memoryAccountRepository) SetApprovalStatus(_ context.Context, id string, status domain.ApprovalStatus) (domain.ApprovalStatus, error) {
	var previous domain.ApprovalStatus
	_, err := r.mutate(id, func(a *domain.Account) {
		previous = a.ApprovalStatus
		a.ApprovalStatus = status
	})
	return previous, err
}

func (r *memoryAccountRepository) UpdateProfile(_ context.Context, id string, update domain.ProfileUpdate) (*domain.Account, error) {
	return r.mutate(id, update.Apply)
}

func (r *memoryAccountRepository) List(_ context.Context, filter domain.AccountFilter) ([]domain.Account, int64, error) {
	r.mu.RLock()
	matched := make([]domain.Account, 0, len(r.byID))
	for _, a := range r.byID {
		if filter.Role != "" && a.Role != filter.Role {
			continue
		}
		if filter.ApprovalStatus != "" && a.ApprovalStatus != filter.ApprovalStatus {
			continue
		}
		matched = append(matched, *cloneAccount(a))
	}
	r.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID < matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	page, pageSize := normalizePage(filter.Page, filter.PageSize)
	start := (page - 1) * pageSize
	if start >= len(matched) {
		return []domain.Account{}, total, nil
	}
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}
