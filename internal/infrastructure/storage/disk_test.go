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

func TestNewDiskStorage_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	s, err := NewDiskStorage(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, s.Dir())
	assert.NoError(t, s.Ping(context.Background()))
}

func TestDiskStorage_Put(t *testing.T) {
	s, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	err = s.Put(context.Background(), "file-1-abc.txt", strings.NewReader("hello"), 5, "text/plain")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(s.Dir(), "file-1-abc.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestDiskStorage_PutRefusesOverwrite(t *testing.T) {
	s, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "a.txt", strings.NewReader("one"), 3, "text/plain"))
	assert.Error(t, s.Put(context.Background(), "a.txt", strings.NewReader("two"), 3, "text/plain"))
}

func TestDiskStorage_PutRejectsPathKeys(t *testing.T) {
	s, err := NewDiskStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../escape.txt", "sub/dir.txt", ".hidden"} {
		assert.Error(t, s.Put(context.Background(), key, strings.NewReader("x"), 1, "text/plain"), key)
	}
}

func TestDiskStorage_PingMissingDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	s, err := NewDiskStorage(dir)
	require.NoError(t, err)
	require.NoError(t, os.Remove(dir))

	assert.Error(t, s.Ping(context.Background()))
}
