package otp

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	now   time.Time
	store *MemoryStore
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.now = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	s.store = NewMemoryStore(10*time.Minute, 6).WithClock(func() time.Time { return s.now })
}

func (s *MemoryStoreSuite) TestIssueProducesSixDigits() {
	code, err := s.store.Issue(s.ctx, "a@x.com")
	s.Require().NoError(err)
	s.Regexp(`^\d{6}$`, code)
}

func (s *MemoryStoreSuite) TestVerifyIsSingleUse() {
	code, err := s.store.Issue(s.ctx, "a@x.com")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Verify(s.ctx, "a@x.com", code))
	s.ErrorIs(s.store.Verify(s.ctx, "a@x.com", code), ErrInvalidCode)
}

func (s *MemoryStoreSuite) TestWrongCodeKeepsPendingCode() {
	code, err := s.store.Issue(s.ctx, "a@x.com")
	s.Require().NoError(err)

	s.ErrorIs(s.store.Verify(s.ctx, "a@x.com", wrongCode(code)), ErrInvalidCode)
	s.NoError(s.store.Verify(s.ctx, "a@x.com", code))
}

func (s *MemoryStoreSuite) TestExpiredCodeFails() {
	code, err := s.store.Issue(s.ctx, "a@x.com")
	s.Require().NoError(err)

	s.now = s.now.Add(10*time.Minute + time.Second)
	s.ErrorIs(s.store.Verify(s.ctx, "a@x.com", code), ErrInvalidCode)
	s.Zero(s.store.Len())
}

func (s *MemoryStoreSuite) TestCodeValidAtWindowBoundary() {
	code, err := s.store.Issue(s.ctx, "a@x.com")
	s.Require().NoError(err)

	s.now = s.now.Add(10 * time.Minute)
	s.NoError(s.store.Verify(s.ctx, "a@x.com", code))
}

func (s *MemoryStoreSuite) TestReissueReplacesPriorCode() {
	first, err := s.store.Issue(s.ctx, "a@x.com")
	s.Require().NoError(err)
	second, err := s.store.Issue(s.ctx, "a@x.com")
	s.Require().NoError(err)

	if first != second {
		s.ErrorIs(s.store.Verify(s.ctx, "a@x.com", first), ErrInvalidCode)
	}
	s.NoError(s.store.Verify(s.ctx, "a@x.com", second))
	s.Zero(s.store.Len())
}

func (s *MemoryStoreSuite) TestInvalidate() {
	code, err := s.store.Issue(s.ctx, "a@x.com")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Invalidate(s.ctx, "a@x.com"))
	s.ErrorIs(s.store.Verify(s.ctx, "a@x.com", code), ErrInvalidCode)
	s.NoError(s.store.Invalidate(s.ctx, "missing@x.com"))
}

func (s *MemoryStoreSuite) TestKeysAreIndependent() {
	a, err := s.store.Issue(s.ctx, "a@x.com")
	s.Require().NoError(err)
	b, err := s.store.Issue(s.ctx, "b@x.com")
	s.Require().NoError(err)

	s.NoError(s.store.Verify(s.ctx, "b@x.com", b))
	s.NoError(s.store.Verify(s.ctx, "a@x.com", a))
}

func (s *MemoryStoreSuite) TestSweepRemovesOnlyExpired() {
	_, err := s.store.Issue(s.ctx, "old@x.com")
	s.Require().NoError(err)
	s.now = s.now.Add(8 * time.Minute)
	_, err = s.store.Issue(s.ctx, "new@x.com")
	s.Require().NoError(err)

	s.now = s.now.Add(3 * time.Minute)
	s.Equal(1, s.store.Sweep())
	s.Equal(1, s.store.Len())
}

func TestMemoryStoreConcurrentVerifySucceedsOnce(t *testing.T) {
	store := NewMemoryStore(time.Minute, 6)
	code, err := store.Issue(context.Background(), "race@x.com")
	require.NoError(t, err)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if store.Verify(context.Background(), "race@x.com", code) == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestGenerateCode(t *testing.T) {
	code, err := generateCode(bytes.NewReader(make([]byte, 64)), 6)
	require.NoError(t, err)
	assert.Equal(t, "000000", code)

	_, err = generateCode(bytes.NewReader(nil), 6)
	assert.Error(t, err)

	_, err = GenerateCode(0)
	assert.Error(t, err)
}

func wrongCode(code string) string {
	if code == "000000" {
		return "111111"
	}
	return "000000"
}
