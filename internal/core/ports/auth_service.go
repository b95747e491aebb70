package ports

import (
	"context"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
)

// RegisterInput carries the fields accepted by registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}

// UserService exposes read and administrative operations over the user store.
type UserService interface {
	Profile(ctx context.Context, userID int64) (*domain.User, error)
	ListWithHash(ctx context.Context) ([]domain.User, error)
	Clear(ctx context.Context) error
}
