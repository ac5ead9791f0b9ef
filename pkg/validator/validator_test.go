package validator_test

import (
	"errors"
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/storefront/pkg/validator"
)

type priced struct {
	Name  string          `json:"name" validate:"notblank,max=10"`
	Price decimal.Decimal `json:"price" validate:"gte=0"`
}

func TestDefaultValidator(t *testing.T) {
	v, err := validator.NewDefaultValidator()
	require.NoError(t, err)

	t.Run("Should accept a valid struct", func(t *testing.T) {
		assert.NoError(t, v.Validate(priced{Name: "Café", Price: decimal.RequireFromString("12.90")}))
	})

	t.Run("Should accept zero price", func(t *testing.T) {
		assert.NoError(t, v.Validate(priced{Name: "Free", Price: decimal.Zero}))
	})

	t.Run("Should reject negative decimal and blank name", func(t *testing.T) {
		err := v.Validate(priced{Name: "   ", Price: decimal.RequireFromString("-1")})
		require.Error(t, err)
		assert.True(t, validator.IsValidationError(err))

		var fieldErrs govalidator.ValidationErrors
		require.True(t, errors.As(err, &fieldErrs))

		msgs := map[string]string{}
		for _, fe := range fieldErrs {
			msgs[fe.Field()] = validator.ValidationErrorMessage(fe)
		}
		assert.Equal(t, "must not be blank", msgs["name"])
		assert.Equal(t, "must be greater than or equal to 0", msgs["price"])
	})
}
