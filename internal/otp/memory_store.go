package otp

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"
)

type record struct {
	code     string
	issuedAt time.Time
}

// MemoryStore keeps codes in process memory. Suitable for tests and
// single-instance development runs.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]record
	window  time.Duration
	length  int
	now     func() time.Time
}

// NewMemoryStore builds a store whose codes are valid for window.
func NewMemoryStore(window time.Duration, length int) *MemoryStore {
	return &MemoryStore{
		records: make(map[string]record),
		window:  window,
		length:  length,
		now:     time.Now,
	}
}

// WithClock replaces the time source; intended for tests.
func (s *MemoryStore) WithClock(now func() time.Time) *MemoryStore {
	s.now = now
	return s
}

func (s *MemoryStore) Issue(_ context.Context, key string) (string, error) {
	code, err := GenerateCode(s.length)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = record{code: code, issuedAt: s.now()}
	return code, nil
}

func (s *MemoryStore) Verify(_ context.Context, key, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return ErrInvalidCode
	}
	if s.now().Sub(rec.issuedAt) > s.window {
		delete(s.records, key)
		return ErrInvalidCode
	}
	if subtle.ConstantTimeCompare([]byte(rec.code), []byte(code)) != 1 {
		return ErrInvalidCode
	}
	delete(s.records, key)
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, key)
	return nil
}

// Sweep drops expired records and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, rec := range s.records {
		if now.Sub(rec.issuedAt) > s.window {
			delete(s.records, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of pending records.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}
