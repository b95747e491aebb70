package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/uploadgate/upload-gateway/internal/core/domain"
	"github.com/uploadgate/upload-gateway/internal/core/ports"
)

const (
	MinPasswordLength = 6
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordBytes = 72
)

// AuthService implements registration and login.
type AuthService struct {
	repo   ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	log    zerolog.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(repo ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
		log:    log,
		now:    time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	if err := validateRegistration(in); err != nil {
		return nil, err
	}

	// Fail before paying for the hash; Create enforces uniqueness again.
	if err := s.ensureAvailable(ctx, in.Username, in.Email); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return created, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", nil, domain.Reject(domain.ErrValidation, "username and password are required")
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	if user == nil {
		// Spend the same bcrypt work as a real comparison.
		s.hasher.Verify(password, s.placeholderHash())
		s.log.Info().Str("username", username).Msg("login failed: unknown user")
		return "", nil, domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.log.Info().Str("username", username).Msg("login failed: wrong password")
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("login: issue token: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("login succeeded")
	return token, user, nil
}

func (s *AuthService) ensureAvailable(ctx context.Context, username, email string) error {
	existing, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if existing != nil {
		return domain.ErrUserExists
	}

	existing, err = s.repo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if existing != nil {
		return domain.ErrUserExists
	}
	return nil
}

// fallbackPlaceholderHash is a well-formed cost-10 bcrypt hash used when the
// hasher cannot produce the placeholder.
const fallbackPlaceholderHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

func (s *AuthService) placeholderHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("placeholder-password")
		if err != nil || hash == "" {
			s.log.Error().Err(err).Msg("placeholder hash failed, using fallback")
			hash = fallbackPlaceholderHash
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func validateRegistration(in ports.RegisterInput) error {
	if strings.TrimSpace(in.Username) == "" || strings.TrimSpace(in.Email) == "" || in.Password == "" {
		return domain.Reject(domain.ErrValidation, "username, email and password are required")
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return domain.Reject(domain.ErrValidation, fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}
	if len(in.Password) > MaxPasswordBytes {
		return domain.Reject(domain.ErrValidation, fmt.Sprintf("password must be at most %d bytes", MaxPasswordBytes))
	}
	return nil
}
