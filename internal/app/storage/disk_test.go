package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStore_WriteRead(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "uploads")

	s, err := NewDiskStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Write(ctx, "1700000000000-AbCdEf12.png", []byte("png-bytes")))

	data, err := s.Read(ctx, "1700000000000-AbCdEf12.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")
}

func TestDiskStore_NotFound(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Read(context.Background(), "missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Read(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDiskStore_RejectsTraversal(t *testing.T) {
	s, err := NewDiskStore(t.TempDir())
	require.NoError(t, err)

	for _, name := range []string{"", "..", "a/b.png", "../x.png"} {
		assert.Error(t, s.Write(context.Background(), name, []byte("x")), name)
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", ContentType("1-abcdefgh.png"))
	assert.Equal(t, "application/octet-stream", ContentType("1-abcdefgh.bin"))
}
