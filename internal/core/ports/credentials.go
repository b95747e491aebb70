package ports

import "github.com/uploadgate/upload-gateway/internal/core/domain"

// PasswordHasher produces and checks salted one-way password hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// TokenService issues and verifies signed bearer tokens.
type TokenService interface {
	Issue(user *domain.User) (string, error)
	// Verify returns domain.ErrTokenExpired or domain.ErrTokenInvalid on failure.
	Verify(token string) (*domain.Claims, error)
}
