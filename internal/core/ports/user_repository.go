package ports

import (
	"context"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

// UserRepository persists user records.
//
// Find* methods return (nil, nil) when no record matches; absence is not an
// error.
type UserRepository interface {
	// Create assigns the next sequential ID and stores the user. It returns
	// domain.ErrUserExists when the username or email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	// List returns every record in ID order, password hashes included.
	List(ctx context.Context) ([]domain.User, error)
	// Clear removes every record.
	Clear(ctx context.Context) error
	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
