//go:build integration

package otp

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

type RedisStoreSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *redis.Client
	now       time.Time
	store     *RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	s.Require().NoError(err)
	s.container = container

	uri, err := container.ConnectionString(ctx)
	s.Require().NoError(err)
	opts, err := redis.ParseURL(uri)
	s.Require().NoError(err)
	s.client = redis.NewClient(opts)
	s.Require().NoError(s.client.Ping(ctx).Err())
}

func (s *RedisStoreSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.client.FlushAll(context.Background()).Err())
	s.now = time.Now()
	s.store = NewRedisStore(s.client, PurposeEmail, 10*time.Minute, 6).WithClock(func() time.Time { return s.now })
}

func (s *RedisStoreSuite) TestSingleUse() {
	ctx := context.Background()
	code, err := s.store.Issue(ctx, "a@x.com")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Verify(ctx, "a@x.com", code))
	s.ErrorIs(s.store.Verify(ctx, "a@x.com", code), ErrInvalidCode)
}

func (s *RedisStoreSuite) TestWrongCodeKeepsPendingCode() {
	ctx := context.Background()
	code, err := s.store.Issue(ctx, "a@x.com")
	s.Require().NoError(err)

	s.ErrorIs(s.store.Verify(ctx, "a@x.com", wrongCode(code)), ErrInvalidCode)
	s.NoError(s.store.Verify(ctx, "a@x.com", code))
}

func (s *RedisStoreSuite) TestExpiredCodeFails() {
	ctx := context.Background()
	code, err := s.store.Issue(ctx, "a@x.com")
	s.Require().NoError(err)

	s.now = s.now.Add(11 * time.Minute)
	s.ErrorIs(s.store.Verify(ctx, "a@x.com", code), ErrInvalidCode)
}

func (s *RedisStoreSuite) TestKeyCarriesTTL() {
	ctx := context.Background()
	_, err := s.store.Issue(ctx, "a@x.com")
	s.Require().NoError(err)

	ttl, err := s.client.PTTL(ctx, "otp:email:a@x.com").Result()
	s.Require().NoError(err)
	s.Greater(ttl, 9*time.Minute)
}

func (s *RedisStoreSuite) TestPurposesDoNotCollide() {
	ctx := context.Background()
	nid := NewRedisStore(s.client, PurposeNationalID, 10*time.Minute, 6)

	code, err := s.store.Issue(ctx, "123456789012")
	s.Require().NoError(err)
	s.ErrorIs(nid.Verify(ctx, "123456789012", code), ErrInvalidCode)
	s.NoError(s.store.Verify(ctx, "123456789012", code))
}

func (s *RedisStoreSuite) TestInvalidate() {
	ctx := context.Background()
	code, err := s.store.Issue(ctx, "a@x.com")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Invalidate(ctx, "a@x.com"))
	s.ErrorIs(s.store.Verify(ctx, "a@x.com", code), ErrInvalidCode)
}
