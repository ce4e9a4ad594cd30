package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	for _, c := range AllConditions() {
		t.Run(c.String(), func(t *testing.T) {
			parsed, err := ParseCondition(c.String())
			require.NoError(t, err)
			assert.Equal(t, c, parsed)
		})
	}
}

func TestParseConditionUnknown(t *testing.T) {
	inputs := []string{"", "near mint", "Near Mint ", "NM", "Played", "Near Mint Holofoil"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			_, err := ParseCondition(input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnknownCondition))

			var condErr *UnknownConditionError
			require.True(t, errors.As(err, &condErr))
			assert.Equal(t, input, condErr.Label)
		})
	}
}

func TestConditionIsFoil(t *testing.T) {
	assert.Len(t, AllConditions(), 10)

	foils := 0
	for _, c := range AllConditions() {
		if c.IsFoil() {
			foils++
		}
	}
	assert.Equal(t, 5, foils)
	assert.True(t, DamagedFoil.IsFoil())
	assert.False(t, Damaged.IsFoil())
}

func TestConditionMarshalText(t *testing.T) {
	text, err := HeavilyPlayedFoil.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Heavily Played Foil", string(text))

	_, err = Condition(42).MarshalText()
	assert.ErrorIs(t, err, ErrUnknownCondition)
}

func TestConditionUnmarshalText(t *testing.T) {
	var c Condition
	require.NoError(t, c.UnmarshalText([]byte("Lightly Played Foil")))
	assert.Equal(t, LightlyPlayedFoil, c)

	assert.ErrorIs(t, c.UnmarshalText([]byte("near mint")), ErrUnknownCondition)
}
