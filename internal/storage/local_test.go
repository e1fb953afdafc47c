package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store, err := NewLocalStorage(root, "/files/")
	require.NoError(t, err)

	key := "documents/W1/abc.pdf"
	require.NoError(t, store.Put(ctx, key, strings.NewReader("%PDF-1.4"), 8, "application/pdf"))

	content, err := os.ReadFile(filepath.Join(root, "documents", "W1", "abc.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(content))

	url, err := store.URL(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "/files/documents/W1/abc.pdf", url)

	require.NoError(t, store.Delete(ctx, key))
	_, err = os.Stat(filepath.Join(root, "documents", "W1", "abc.pdf"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Delete(ctx, key))
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "/files")
	require.NoError(t, err)

	err = store.Put(context.Background(), "../../etc/passwd", strings.NewReader("x"), 1, "text/plain")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = store.URL(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
