package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/openinventory/inventory-admin/internal/apperr"
	"github.com/openinventory/inventory-admin/internal/config"
	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/repository"
)

// Service implements credential login and token authentication over the
// user and session stores.
type Service struct {
	cfg         config.Auth
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
}

var _ Authenticator = (*Service)(nil)

func NewService(
	cfg config.Auth,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
) *Service {
	return &Service{
		cfg:         cfg,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
	}
}

// Login verifies the credentials and issues an opaque session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, model.CallerIdentity, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return "", model.CallerIdentity{}, apperr.InvalidCredentialsErr.WrapParent(err)
	}
	if err != nil {
		return "", model.CallerIdentity{}, fmt.Errorf("user repository find by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", model.CallerIdentity{}, apperr.InvalidCredentialsErr.WrapParent(err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return "", model.CallerIdentity{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	now := time.Now()
	session := model.Session{
		ID:        id,
		Token:     uuid.NewString(),
		UserEmail: user.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return "", model.CallerIdentity{}, fmt.Errorf("session repository create: %w", err)
	}

	return session.Token, identityOf(user), nil
}

// Logout revokes the session token. Revoking an unknown token is a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	if err := s.sessionRepo.DeleteByToken(ctx, token); err != nil {
		return fmt.Errorf("session repository delete by token: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to the caller identity, rejecting
// unknown and expired tokens.
func (s *Service) Authenticate(ctx context.Context, token string) (model.CallerIdentity, error) {
	if token == "" {
		return model.CallerIdentity{}, apperr.UnauthorizedErr
	}

	session, err := s.sessionRepo.FindByToken(ctx, token)
	if errors.Is(err, repository.ErrSessionNotFound) {
		return model.CallerIdentity{}, apperr.UnauthorizedErr.WrapParent(err)
	}
	if err != nil {
		return model.CallerIdentity{}, fmt.Errorf("session repository find by token: %w", err)
	}

	if time.Now().After(session.ExpiresAt) {
		return model.CallerIdentity{}, apperr.UnauthorizedErr
	}

	user, err := s.userRepo.FindByEmail(ctx, session.UserEmail)
	if errors.Is(err, repository.ErrUserNotFound) {
		return model.CallerIdentity{}, apperr.UnauthorizedErr.WrapParent(err)
	}
	if err != nil {
		return model.CallerIdentity{}, fmt.Errorf("user repository find by email: %w", err)
	}

	return identityOf(user), nil
}

func identityOf(user model.User) model.CallerIdentity {
	currency := user.Currency
	if currency == "" {
		currency = "USD"
	}

	return model.CallerIdentity{
		Email:    user.Email,
		Username: user.Username,
		Currency: currency,
	}
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("bcrypt generate from password: %w", err)
	}
	return string(hash), nil
}
