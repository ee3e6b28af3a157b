package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openinventory/inventory-admin/internal/apperr"
	"github.com/openinventory/inventory-admin/internal/model"
	"github.com/openinventory/inventory-admin/internal/service"
	"github.com/openinventory/inventory-admin/pkg/validator"
	"github.com/openinventory/inventory-admin/pkg/zerror"
)

func newSettingsService(t *testing.T, users *fakeUserStore) service.SettingsService {
	t.Helper()

	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	return service.NewSettingsService(users, v)
}

func TestGetSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return stored username and currency", func(t *testing.T) {
		users := newFakeUserStore(model.User{
			ID:       uuid.New(),
			Email:    "admin@example.com",
			Username: "admin",
			Currency: "EUR",
		})
		svc := newSettingsService(t, users)

		settings, err := svc.GetSettings(ctx, model.CallerIdentity{Email: "admin@example.com"})
		require.NoError(t, err)

		assert.Equal(t, service.Settings{Username: "admin", Currency: "EUR"}, settings)
	})

	t.Run("Should default currency to USD when unset", func(t *testing.T) {
		users := newFakeUserStore(model.User{ID: uuid.New(), Email: "admin@example.com"})
		svc := newSettingsService(t, users)

		settings, err := svc.GetSettings(ctx, model.CallerIdentity{Email: "admin@example.com"})
		require.NoError(t, err)

		assert.Equal(t, "USD", settings.Currency)
	})

	t.Run("Should reject an unknown caller", func(t *testing.T) {
		svc := newSettingsService(t, newFakeUserStore())

		_, err := svc.GetSettings(ctx, model.CallerIdentity{Email: "ghost@example.com"})

		var zerr zerror.ZError
		require.ErrorAs(t, err, &zerr)
		assert.Equal(t, apperr.UnauthorizedErr.Code(), zerr.Code())
	})
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()
	caller := model.CallerIdentity{Email: "admin@example.com"}

	t.Run("Should persist username and currency", func(t *testing.T) {
		users := newFakeUserStore(model.User{ID: uuid.New(), Email: "admin@example.com"})
		svc := newSettingsService(t, users)

		settings, err := svc.UpdateSettings(ctx, caller, service.UpdateSettingsParams{
			Username: "storekeeper",
			Currency: "GBP",
		})
		require.NoError(t, err)
		assert.Equal(t, service.Settings{Username: "storekeeper", Currency: "GBP"}, settings)

		stored, err := users.FindByEmail(ctx, "admin@example.com")
		require.NoError(t, err)
		assert.Equal(t, "storekeeper", stored.Username)
		assert.Equal(t, "GBP", stored.Currency)
	})

	t.Run("Should allow the caller to keep their own username", func(t *testing.T) {
		users := newFakeUserStore(model.User{ID: uuid.New(), Email: "admin@example.com", Username: "admin"})
		svc := newSettingsService(t, users)

		_, err := svc.UpdateSettings(ctx, caller, service.UpdateSettingsParams{
			Username: "admin",
			Currency: "JPY",
		})
		require.NoError(t, err)
	})

	t.Run("Should reject a username owned by someone else", func(t *testing.T) {
		users := newFakeUserStore(
			model.User{ID: uuid.New(), Email: "admin@example.com"},
			model.User{ID: uuid.New(), Email: "other@example.com", Username: "storekeeper"},
		)
		svc := newSettingsService(t, users)

		_, err := svc.UpdateSettings(ctx, caller, service.UpdateSettingsParams{
			Username: "storekeeper",
			Currency: "USD",
		})

		var zerr zerror.ZError
		require.ErrorAs(t, err, &zerr)
		assert.Equal(t, apperr.UsernameTakenErr.Code(), zerr.Code())
	})

	t.Run("Should reject invalid params", func(t *testing.T) {
		users := newFakeUserStore(model.User{ID: uuid.New(), Email: "admin@example.com"})
		svc := newSettingsService(t, users)

		tests := []struct {
			name   string
			params service.UpdateSettingsParams
		}{
			{name: "short username", params: service.UpdateSettingsParams{Username: "ab", Currency: "USD"}},
			{name: "missing username", params: service.UpdateSettingsParams{Currency: "USD"}},
			{name: "lowercase currency", params: service.UpdateSettingsParams{Username: "admin", Currency: "usd"}},
			{name: "short currency", params: service.UpdateSettingsParams{Username: "admin", Currency: "US"}},
			{name: "missing currency", params: service.UpdateSettingsParams{Username: "admin"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.UpdateSettings(ctx, caller, tt.params)
				require.Error(t, err)
			})
		}
	})
}
