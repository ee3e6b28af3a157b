package validator_test

import (
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openinventory/inventory-admin/pkg/validator"
)

func TestCurrencyCodeValidation(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	type payload struct {
		Currency string `validate:"required,currency_code"`
	}

	valid := []string{"USD", "EUR", "GBP", "INR", "JPY", "ZZZ"}
	for _, code := range valid {
		assert.NoError(t, v.Validate(payload{Currency: code}), code)
	}

	invalid := []string{"", "usd", "USDD", "US", "U$D", "12D"}
	for _, code := range invalid {
		assert.Error(t, v.Validate(payload{Currency: code}), code)
	}
}

func TestValidationErrorMessage(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	type payload struct {
		Name     string `validate:"required"`
		Currency string `validate:"currency_code"`
	}

	err = v.Validate(payload{Currency: "usd"})

	var validationErrs govalidator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)
	require.Len(t, validationErrs, 2)

	messages := make(map[string]string, len(validationErrs))
	for _, fe := range validationErrs {
		messages[fe.Field()] = validator.ValidationErrorMessage(fe)
	}

	assert.Equal(t, "field is required", messages["Name"])
	assert.Equal(t, "must be a 3-letter uppercase currency code", messages["Currency"])
}
