package parser

import (
	"errors"
	"testing"

	"github.com/maltedev/tcg-buyout/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string {
	return &s
}

func TestFindPrice(t *testing.T) {
	tests := []struct {
		name     string
		input    *string
		expected string
		hasError bool
	}{
		{"Dollar amount", strPtr("$0.10"), "0.10", false},
		{"Threshold text", strPtr("Free Shipping on Orders Over $5.00"), "5.00", false},
		{"Minimum suffix", strPtr("$5.00 minimum"), "5.00", false},
		{"Integer", strPtr("+ $3 Shipping"), "3", false},
		{"Shipping message", strPtr("+ $1.31 Shipping"), "1.31", false},
		{"No number", strPtr("Free Shipping"), "", true},
		{"Empty", strPtr(""), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FindPrice(tt.input)

			if tt.hasError {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrPriceParse))
				assert.Nil(t, result)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, result)
			assert.True(t, result.Equal(decimal.RequireFromString(tt.expected)), "got %s", result)
		})
	}
}

func TestFindPriceAbsent(t *testing.T) {
	result, err := FindPrice(nil)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestFindQuantity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
		hasError bool
	}{
		{"Available suffix", "4 available", 4, false},
		{"Of prefix", "of 40", 40, false},
		{"Bare", "1", 1, false},
		{"No number", "available", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := FindQuantity(tt.input)

			if tt.hasError {
				assert.ErrorIs(t, err, ErrQuantityParse)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseRow(t *testing.T) {
	fallback := decimal.RequireFromString("3.99")

	t.Run("direct row uses fallback shipping", func(t *testing.T) {
		row, err := ParseRow(RawRow{
			SellerName:   "Acme",
			RawPrice:     "$0.10",
			RawQuantity:  "4 available",
			RawCondition: "Near Mint",
		}, fallback)

		require.NoError(t, err)
		assert.Equal(t, "Acme", row.SellerName)
		assert.Equal(t, models.NearMint, row.Condition)
		assert.True(t, row.Price.Equal(decimal.RequireFromString("0.10")))
		assert.Equal(t, 4, row.Quantity)
		assert.True(t, row.Shipping.Equal(fallback))
		assert.Nil(t, row.FreeShippingThreshold)
	})

	t.Run("seller shipping and threshold", func(t *testing.T) {
		row, err := ParseRow(RawRow{
			SellerName:               "Acme",
			RawPrice:                 "$0.24",
			RawQuantity:              "1",
			RawCondition:             "Lightly Played Foil",
			RawShipping:              strPtr("+ $0.99 Shipping"),
			RawFreeShippingThreshold: strPtr("$5.00 minimum"),
		}, fallback)

		require.NoError(t, err)
		assert.Equal(t, models.LightlyPlayedFoil, row.Condition)
		assert.True(t, row.Shipping.Equal(decimal.RequireFromString("0.99")))
		require.NotNil(t, row.FreeShippingThreshold)
		assert.True(t, row.FreeShippingThreshold.Equal(decimal.RequireFromString("5")))
	})

	t.Run("unknown condition", func(t *testing.T) {
		_, err := ParseRow(RawRow{
			SellerName:   "Acme",
			RawPrice:     "$0.10",
			RawQuantity:  "4",
			RawCondition: "Mint",
		}, fallback)

		assert.ErrorIs(t, err, models.ErrUnknownCondition)
	})

	t.Run("unparseable price", func(t *testing.T) {
		_, err := ParseRow(RawRow{
			SellerName:   "Acme",
			RawPrice:     "call for price",
			RawQuantity:  "4",
			RawCondition: "Near Mint",
		}, fallback)

		assert.ErrorIs(t, err, ErrPriceParse)
	})

	t.Run("unparseable quantity", func(t *testing.T) {
		_, err := ParseRow(RawRow{
			SellerName:   "Acme",
			RawPrice:     "$0.10",
			RawQuantity:  "sold out",
			RawCondition: "Near Mint",
		}, fallback)

		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.Equal(t, "quantity", parseErr.Field)
	})
}
