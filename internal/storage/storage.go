// Package storage keeps uploaded document files.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidKey is returned for keys that escape the storage root.
var ErrInvalidKey = errors.New("storage: invalid key")

// FileStorage stores opaque objects under caller-chosen keys.
type FileStorage interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// URL returns a location clients can fetch the object from.
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
