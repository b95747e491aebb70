package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
	"github.com/uploadgate/upload-gateway/internal/infrastructure/queue"
	"github.com/uploadgate/upload-gateway/internal/infrastructure/storage"
	"github.com/uploadgate/upload-gateway/internal/pkg/config"
)

func fileConfig(t *testing.T) *config.Config {
	dir := t.TempDir()
	return &config.Config{
		Store:   config.StoreConfig{Backend: config.StoreFile, UsersFile: filepath.Join(dir, "users.json")},
		Uploads: config.UploadConfig{Backend: config.StorageDisk, Dir: filepath.Join(dir, "uploads"), MaxBytes: 10 << 20},
	}
}

func TestOpenUserRepository_File(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeFn, err := OpenUserRepository(ctx, fileConfig(t), zerolog.Nop())
	require.NoError(t, err)
	defer closeFn()

	assert.IsType(t, &queue.SerialWriter{}, repo)

	created, err := repo.Create(ctx, &domain.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.NoError(t, repo.Ping(ctx))
}

func TestOpenUserRepository_Unknown(t *testing.T) {
	cfg := fileConfig(t)
	cfg.Store.Backend = "sqlite"

	_, _, err := OpenUserRepository(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestOpenFileStorage_Disk(t *testing.T) {
	cfg := fileConfig(t)

	fs, err := OpenFileStorage(context.Background(), cfg, zerolog.Nop())
	require.NoError(t, err)

	disk, ok := fs.(*storage.DiskStorage)
	require.True(t, ok)
	assert.Equal(t, cfg.Uploads.Dir, disk.Dir())
	assert.DirExists(t, cfg.Uploads.Dir)
}

func TestOpenFileStorage_Unknown(t *testing.T) {
	cfg := fileConfig(t)
	cfg.Uploads.Backend = "ftp"

	_, err := OpenFileStorage(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
