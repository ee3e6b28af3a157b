package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openinventory/inventory-admin/internal/model"
)

func TestActivityActionValidate(t *testing.T) {
	for _, action := range []model.ActivityAction{
		model.ActionCreate,
		model.ActionUpdate,
		model.ActionDelete,
		model.ActionSale,
	} {
		assert.NoError(t, action.Validate(), string(action))
	}

	for _, action := range []model.ActivityAction{"", "create", "SELL", "AUDIT"} {
		assert.Error(t, action.Validate(), string(action))
	}
}

func TestCallerIdentity(t *testing.T) {
	t.Run("DisplayName prefers the username", func(t *testing.T) {
		assert.Equal(t, "admin", model.CallerIdentity{Email: "a@b.c", Username: "admin"}.DisplayName())
		assert.Equal(t, "a@b.c", model.CallerIdentity{Email: "a@b.c"}.DisplayName())
		assert.Equal(t, "Unknown", model.CallerIdentity{}.DisplayName())
	})

	t.Run("CurrencyCode defaults to USD", func(t *testing.T) {
		assert.Equal(t, "EUR", model.CallerIdentity{Currency: "EUR"}.CurrencyCode())
		assert.Equal(t, "USD", model.CallerIdentity{}.CurrencyCode())
	})

	t.Run("IsZero", func(t *testing.T) {
		assert.True(t, model.CallerIdentity{}.IsZero())
		assert.False(t, model.CallerIdentity{Email: "a@b.c"}.IsZero())
	})
}
