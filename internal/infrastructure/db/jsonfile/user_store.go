// Package jsonfile implements the user store as a single JSON document on
// disk. Every call re-reads the file; mutations rewrite it in full.
//
// The store does no locking of its own. Wrap it with queue.SerialWriter to
// serialise in-process mutations; several processes sharing one file can
// still lose writes.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

// DefaultPath is the store location relative to the working directory.
const DefaultPath = "users.json"

type UserStore struct {
	path string
	log  zerolog.Logger
}

func NewUserStore(path string, log zerolog.Logger) *UserStore {
	if path == "" {
		path = DefaultPath
	}
	return &UserStore{path: path, log: log}
}

// Path returns the backing file location.
func (s *UserStore) Path() string { return s.path }

// Load returns the stored records in file order. A missing, unreadable or
// corrupt file yields an empty slice.
func (s *UserStore) Load(_ context.Context) []domain.User {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("user store unreadable, treating as empty")
		}
		return []domain.User{}
	}

	var users []domain.User
	if err := json.Unmarshal(data, &users); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("user store corrupt, treating as empty")
		return []domain.User{}
	}
	if users == nil {
		users = []domain.User{}
	}
	return users
}

// Save replaces the file contents with users. The snapshot is written to a
// temp file in the same directory and renamed into place.
func (s *UserStore) Save(_ context.Context, users []domain.User) error {
	if users == nil {
		users = []domain.User{}
	}
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write users: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace store: %w", err)
	}
	return nil
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	users := s.Load(ctx)

	var maxID int64
	for _, u := range users {
		if u.Username == user.Username || u.Email == user.Email {
			return nil, domain.ErrUserExists
		}
		if u.ID > maxID {
			maxID = u.ID
		}
	}

	stored := *user
	stored.ID = maxID + 1
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	users = append(users, stored)
	if err := s.Save(ctx, users); err != nil {
		return nil, err
	}

	s.log.Debug().Int64("user_id", stored.ID).Str("path", s.path).Msg("user persisted")
	return &stored, nil
}

func (s *UserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.find(ctx, func(u *domain.User) bool { return u.Username == username }), nil
}

func (s *UserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.find(ctx, func(u *domain.User) bool { return u.Email == email }), nil
}

func (s *UserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.find(ctx, func(u *domain.User) bool { return u.ID == id }), nil
}

func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	return s.Load(ctx), nil
}

func (s *UserStore) Clear(ctx context.Context) error {
	return s.Save(ctx, []domain.User{})
}

// Ping reports whether the store directory is reachable.
func (s *UserStore) Ping(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("user store dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("user store dir %s is not a directory", dir)
	}
	return nil
}

func (s *UserStore) find(ctx context.Context, match func(*domain.User) bool) *domain.User {
	users := s.Load(ctx)
	for i := range users {
		if match(&users[i]) {
			u := users[i]
			return &u
		}
	}
	return nil
}
