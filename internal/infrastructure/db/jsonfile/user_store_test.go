package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

func newTestStore(t *testing.T) *UserStore {
	t.Helper()
	return NewUserStore(filepath.Join(t.TempDir(), "users.json"), zerolog.Nop())
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)

	users := s.Load(context.Background())
	require.NotNil(t, users)
	assert.Empty(t, users)
}

func TestLoad_CorruptFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{not json"), 0o644))

	assert.Empty(t, s.Load(context.Background()))
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, err := s.Create(ctx, &domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h1"})
	require.NoError(t, err)
	b, err := s.Create(ctx, &domain.User{Username: "bob", Email: "bob@x.com", PasswordHash: "h2"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestCreate_UsesMaxIDPlusOne(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Save(ctx, []domain.User{
		{ID: 4, Username: "dora", Email: "dora@x.com"},
		{ID: 2, Username: "bob", Email: "bob@x.com"},
	}))

	u, err := s.Create(ctx, &domain.User{Username: "erin", Email: "erin@x.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), u.ID)
}

func TestCreate_RejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Create(ctx, &domain.User{Username: "alice", Email: "alice@x.com"})
	require.NoError(t, err)

	_, err = s.Create(ctx, &domain.User{Username: "alice", Email: "new@x.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	_, err = s.Create(ctx, &domain.User{Username: "alicia", Email: "alice@x.com"})
	assert.ErrorIs(t, err, domain.ErrUserExists)

	assert.Len(t, s.Load(ctx), 1)
}

func TestCreate_KeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	_, err := s.Create(ctx, &domain.User{Username: "alice", Email: "alice@x.com", CreatedAt: created})
	require.NoError(t, err)

	got, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.CreatedAt.Equal(created))
}

func TestFind(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Create(ctx, &domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	byName, err := s.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "alice@x.com", byName.Email)

	byEmail, err := s.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, int64(1), byEmail.ID)

	byID, err := s.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)

	missing, err := s.FindByUsername(ctx, "ghost")
	require.NoError(t, err)
	assert.Nil(t, missing)

	missingID, err := s.FindByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missingID)
}

func TestPersistedFormat(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Create(ctx, &domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "$2a$10$abc"})
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	for _, key := range []string{"id", "username", "email", "passwordHash", "createdAt"} {
		assert.Contains(t, raw[0], key)
	}
	assert.Equal(t, "$2a$10$abc", raw[0]["passwordHash"])
}

func TestListAndClear(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	_, err := s.Create(ctx, &domain.User{Username: "alice", Email: "alice@x.com", PasswordHash: "ha"})
	require.NoError(t, err)
	_, err = s.Create(ctx, &domain.User{Username: "bob", Email: "bob@x.com", PasswordHash: "hb"})
	require.NoError(t, err)

	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "hb", users[1].PasswordHash)

	require.NoError(t, s.Clear(ctx))
	users, err = s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	require.NoError(t, s.Save(ctx, []domain.User{{ID: 1, Username: "alice"}}))

	entries, err := os.ReadDir(filepath.Dir(s.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "users.json", entries[0].Name())
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Ping(context.Background()))

	missing := NewUserStore(filepath.Join(t.TempDir(), "nope", "users.json"), zerolog.Nop())
	assert.Error(t, missing.Ping(context.Background()))
}
