package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/openinventory/inventory-admin/internal/apperr"
	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/repository"
	"github.com/openinventory/inventory-admin/pkg/validator"
)

type Settings struct {
	Username string `json:"username"`
	Currency string `json:"currency"`
}

type UpdateSettingsParams struct {
	Username string `validate:"required,min=3"`
	Currency string `validate:"required,currency_code"`
}

// SettingsService reads and writes the caller's display name and currency
// preference.
type SettingsService interface {
	GetSettings(ctx context.Context, caller model.CallerIdentity) (Settings, error)
	UpdateSettings(ctx context.Context, caller model.CallerIdentity, params UpdateSettingsParams) (Settings, error)
}

type settingsService struct {
	userRepo repository.UserRepository
	v        validator.Validator
}

func NewSettingsService(userRepo repository.UserRepository, v validator.Validator) SettingsService {
	return &settingsService{
		userRepo: userRepo,
		v:        v,
	}
}

func (s *settingsService) GetSettings(ctx context.Context, caller model.CallerIdentity) (Settings, error) {
	user, err := s.userRepo.FindByEmail(ctx, caller.Email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return Settings{}, apperr.UnauthorizedErr.WrapParent(err)
	}
	if err != nil {
		return Settings{}, fmt.Errorf("user repository find by email: %w", err)
	}

	currency := user.Currency
	if currency == "" {
		currency = "USD"
	}

	return Settings{
		Username: user.Username,
		Currency: currency,
	}, nil
}

func (s *settingsService) UpdateSettings(ctx context.Context, caller model.CallerIdentity, params UpdateSettingsParams) (Settings, error) {
	if err := s.v.Validate(params); err != nil {
		return Settings{}, fmt.Errorf("validate update settings params: %w", err)
	}

	existing, err := s.userRepo.FindByUsername(ctx, params.Username)
	switch {
	case err == nil:
		if existing.Email != caller.Email {
			return Settings{}, apperr.UsernameTakenErr
		}
	case errors.Is(err, repository.ErrUserNotFound):
		// username is free
	default:
		return Settings{}, fmt.Errorf("user repository find by username: %w", err)
	}

	if err := s.userRepo.UpdateSettings(ctx, caller.Email, params.Username, params.Currency); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return Settings{}, apperr.UnauthorizedErr.WrapParent(err)
		}
		return Settings{}, fmt.Errorf("user repository update settings: %w", err)
	}

	return Settings{
		Username: params.Username,
		Currency: params.Currency,
	}, nil
}
