package otp

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// verifyScript compares and consumes a code in one round trip so that two
// concurrent submissions of the same code cannot both succeed.
//
// Returns 1 on success, 0 when absent, -1 on mismatch, -2 when expired.
var verifyScript = redis.NewScript(`
local code = redis.call('HGET', KEYS[1], 'code')
if not code then
  return 0
end
if code ~= ARGV[1] then
  return -1
end
local issued = tonumber(redis.call('HGET', KEYS[1], 'issued_at'))
redis.call('DEL', KEYS[1])
if issued == nil or tonumber(ARGV[2]) - issued > tonumber(ARGV[3]) then
  return -2
end
return 1
`)

// RedisStore keeps codes in Redis hashes that expire with the validity window.
type RedisStore struct {
	client  redis.UniversalClient
	purpose Purpose
	window  time.Duration
	length  int
	now     func() time.Time
}

// NewRedisStore builds a store for one purpose.
func NewRedisStore(client redis.UniversalClient, purpose Purpose, window time.Duration, length int) *RedisStore {
	return &RedisStore{
		client:  client,
		purpose: purpose,
		window:  window,
		length:  length,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for issuance and expiry checks.
func (s *RedisStore) WithClock(now func() time.Time) *RedisStore {
	s.now = now
	return s
}

func (s *RedisStore) key(subject string) string {
	return fmt.Sprintf("otp:%s:%s", s.purpose, subject)
}

func (s *RedisStore) Issue(ctx context.Context, subject string) (string, error) {
	code, err := GenerateCode(s.length)
	if err != nil {
		return "", err
	}
	key := s.key(subject)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, "code", code, "issued_at", s.now().UnixMilli())
		pipe.PExpire(ctx, key, s.window)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store otp: %w", err)
	}
	return code, nil
}

func (s *RedisStore) Verify(ctx context.Context, subject, code string) error {
	res, err := verifyScript.Run(ctx, s.client,
		[]string{s.key(subject)},
		code,
		strconv.FormatInt(s.now().UnixMilli(), 10),
		strconv.FormatInt(s.window.Milliseconds(), 10),
	).Int()
	if err != nil {
		return fmt.Errorf("verify otp: %w", err)
	}
	if res != 1 {
		return ErrInvalidCode
	}
	return nil
}

func (s *RedisStore) Invalidate(ctx context.Context, subject string) error {
	return s.client.Del(ctx, s.key(subject)).Err()
}
