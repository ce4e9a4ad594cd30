package scraper

import (
	"testing"

	"github.com/maltedev/tcg-buyout/internal/models"
	"github.com/maltedev/tcg-buyout/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregationDedupKeepsFirstValues(t *testing.T) {
	agg := NewAggregation(nil, DefaultFallbackShipping)

	outcome, err := agg.Add(acmeRow())
	require.NoError(t, err)
	assert.Equal(t, Accepted, outcome)

	second := acmeRow()
	second.RawPrice = "$0.50"
	second.RawQuantity = "12 available"
	outcome, err = agg.Add(second)
	require.NoError(t, err)
	assert.Equal(t, Duplicate, outcome)

	store, ok := agg.Store("Acme")
	require.True(t, ok)
	require.Len(t, store.Listings, 1)
	assert.True(t, store.Listings[0].Price.Equal(dec("0.10")))
	assert.Equal(t, 4, store.Listings[0].Quantity)
}

func TestAggregationSellerAttributesFromFirstRow(t *testing.T) {
	agg := NewAggregation(nil, DefaultFallbackShipping)

	first := parser.RawRow{
		SellerName:   "Acme",
		RawPrice:     "$0.10",
		RawQuantity:  "1",
		RawCondition: "Near Mint",
		RawShipping:  strPtr("+ $0.99 Shipping"),
	}
	second := parser.RawRow{
		SellerName:               "Acme",
		RawPrice:                 "$0.08",
		RawQuantity:              "2",
		RawCondition:             "Lightly Played",
		RawShipping:              strPtr("+ $2.49 Shipping"),
		RawFreeShippingThreshold: strPtr("$5.00 minimum"),
	}

	_, err := agg.Add(first)
	require.NoError(t, err)
	outcome, err := agg.Add(second)
	require.NoError(t, err)
	assert.Equal(t, Accepted, outcome)

	store, ok := agg.Store("Acme")
	require.True(t, ok)
	assert.True(t, store.ShippingCost.Equal(dec("0.99")))
	assert.Nil(t, store.FreeShippingThreshold)
	assert.Len(t, store.Listings, 2)
}

func TestAggregationBlacklistCreatesNoStore(t *testing.T) {
	agg := NewAggregation([]string{"Mtgaok"}, DefaultFallbackShipping)

	row := acmeRow()
	row.SellerName = "Mtgaok"
	outcome, err := agg.Add(row)
	require.NoError(t, err)
	assert.Equal(t, Blacklisted, outcome)

	_, ok := agg.Store("Mtgaok")
	assert.False(t, ok)
	assert.Equal(t, 0, agg.Len())
	assert.Empty(t, agg.Ranked())
}

func TestAggregationRejectsBadRowsBeforeBlacklist(t *testing.T) {
	agg := NewAggregation([]string{"Acme"}, DefaultFallbackShipping)

	row := acmeRow()
	row.RawQuantity = "none"
	_, err := agg.Add(row)
	assert.ErrorIs(t, err, parser.ErrQuantityParse)
}

func TestAggregationRankedKeepsFirstSeenOrderOnTies(t *testing.T) {
	agg := NewAggregation(nil, DefaultFallbackShipping)

	for _, name := range []string{"Zed", "Alpha", "Mid"} {
		row := acmeRow()
		row.SellerName = name
		_, err := agg.Add(row)
		require.NoError(t, err)
	}

	ranked := agg.Ranked()
	require.Len(t, ranked, 3)
	assert.Equal(t, "Zed", ranked[0].Name)
	assert.Equal(t, "Alpha", ranked[1].Name)
	assert.Equal(t, "Mid", ranked[2].Name)
	assert.Equal(t, models.Equal, ranked[0].Compare(ranked[1]))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "accepted", Accepted.String())
	assert.Equal(t, "blacklisted", Blacklisted.String())
	assert.Equal(t, "duplicate", Duplicate.String())
}
