package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tajirhq/tajir/internal/platform/httpx"
)

type Service struct {
	repo   Repository
	tokens *TokenStore
	logger *slog.Logger
}

func NewService(repo Repository, tokens *TokenStore, logger *slog.Logger) *Service {
	return &Service{repo: repo, tokens: tokens, logger: logger}
}

// Login verifies the credentials and issues a bearer token. Wrong username
// and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, username, password string) (string, User, error) {
	user, err := s.repo.GetByUsername(ctx, username)
	if errors.Is(err, httpx.ErrNotFound) {
		return "", User{}, fmt.Errorf("invalid credentials: %w", httpx.ErrUnauthorized)
	}
	if err != nil {
		return "", User{}, fmt.Errorf("load user: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", User{}, fmt.Errorf("invalid credentials: %w", httpx.ErrUnauthorized)
	}

	token, err := s.tokens.Issue(ctx, user.ID)
	if err != nil {
		return "", User{}, err
	}
	s.logger.InfoContext(ctx, "user logged in", slog.String("username", user.Username))
	return token, user, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// Register creates an account. The password is hashed with bcrypt at the
// default cost.
func (s *Service) Register(ctx context.Context, username, password string, role Role) (User, error) {
	if len(username) < 3 {
		return User{}, fmt.Errorf("username must be at least 3 characters: %w", httpx.ErrValidation)
	}
	if len(password) < 8 {
		return User{}, fmt.Errorf("password must be at least 8 characters: %w", httpx.ErrValidation)
	}
	if role != RoleAdmin && role != RoleStaff {
		return User{}, fmt.Errorf("unknown role %q: %w", role, httpx.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Create(ctx, User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	})
}

// EnsureAdmin seeds the first admin account on an empty users table so a
// fresh install is reachable.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count users: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := s.Register(ctx, username, password, RoleAdmin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	s.logger.InfoContext(ctx, "seeded initial admin account", slog.String("username", username))
	return nil
}

func (s *Service) UserByID(ctx context.Context, id uuid.UUID) (User, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ResolveToken(ctx context.Context, token string) (uuid.UUID, error) {
	return s.tokens.Resolve(ctx, token)
}
