package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/worker-portal/internal/domain"
)

// AccountHistoryRepository stores account audit entries.
type AccountHistoryRepository interface {
	Create(ctx context.Context, history *domain.AccountHistory) error
	ListByAccount(ctx context.Context, accountID string) ([]domain.AccountHistory, error)
}

type accountHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewAccountHistoryRepository builds the Postgres-backed repository.
func NewAccountHistoryRepository(pool *pgxpool.Pool) AccountHistoryRepository {
	return &accountHistoryRepository{pool: pool}
}

func (r *accountHistoryRepository) Create(ctx context.Context, history *domain.AccountHistory) error {
	const query = `
        INSERT INTO account_history (id, account_id, actor_id, change_type, old_value, new_value)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at`
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	return r.pool.QueryRow(ctx, query,
		history.ID,
		history.AccountID,
		history.ActorID,
		history.ChangeType,
		history.OldValue,
		history.NewValue,
	).Scan(&history.CreatedAt)
}

func (r *accountHistoryRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.AccountHistory, error) {
	const query = `
        SELECT id, account_id, actor_id, change_type, old_value, new_value, created_at
        FROM account_history WHERE account_id=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AccountHistory
	for rows.Next() {
		var history domain.AccountHistory
		if err := rows.Scan(
			&history.ID,
			&history.AccountID,
			&history.ActorID,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, history)
	}
	return result, rows.Err()
}

type memoryAccountHistoryRepository struct {
	mu      sync.Mutex
	entries []domain.AccountHistory
}

// NewMemoryAccountHistoryRepository returns an in-process audit trail.
func NewMemoryAccountHistoryRepository() AccountHistoryRepository {
	return &memoryAccountHistoryRepository{}
}

func (r *memoryAccountHistoryRepository) Create(_ context.Context, history *domain.AccountHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if history.ID == "" {
		history.ID = uuid.NewString()
	}
	history.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, *history)
	return nil
}

func (r *memoryAccountHistoryRepository) ListByAccount(_ context.Context, accountID string) ([]domain.AccountHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AccountHistory
	for _, entry := range r.entries {
		if entry.AccountID == accountID {
			result = append(result, entry)
		}
	}
	return result, nil
}
