// Package otp issues and verifies single-use numeric codes keyed by a
// subject such as an email address or a national ID number.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"math/big"
)

// ErrInvalidCode is returned when no live code exists for a key, the
// submitted code does not match, or the code has outlived its window.
var ErrInvalidCode = errors.New("otp: invalid or expired code")

// Purpose namespaces codes so an email code can never satisfy an ID check.
type Purpose string

const (
	PurposeEmail      Purpose = "email"
	PurposeNationalID Purpose = "nid"
)

// Store holds at most one live code per key. Issue overwrites any pending
// code; a successful Verify consumes it; a failed Verify leaves it in place.
type Store interface {
	Issue(ctx context.Context, key string) (string, error)
	Verify(ctx context.Context, key, code string) error
	Invalidate(ctx context.Context, key string) error
}

const digits = "0123456789"

// GenerateCode returns a uniformly random numeric string of the given length.
func GenerateCode(length int) (string, error) {
	return generateCode(rand.Reader, length)
}

func generateCode(r io.Reader, length int) (string, error) {
	if length <= 0 {
		return "", errors.New("otp: code length must be positive")
	}
	base := big.NewInt(int64(len(digits)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(r, base)
		if err != nil {
			return "", err
		}
		b[i] = digits[n.Int64()]
	}
	return string(b), nil
}
