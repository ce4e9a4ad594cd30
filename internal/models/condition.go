package models

import (
	"errors"
	"fmt"
)

var ErrUnknownCondition = errors.New("unknown condition")

// Condition is the grade and finish of a listed card.
type Condition int

const (
	NearMint Condition = iota
	LightlyPlayed
	ModeratelyPlayed
	HeavilyPlayed
	Damaged
	NearMintFoil
	LightlyPlayedFoil
	ModeratelyPlayedFoil
	HeavilyPlayedFoil
	DamagedFoil
)

var conditionLabels = map[Condition]string{
	NearMint:             "Near Mint",
	LightlyPlayed:        "Lightly Played",
	ModeratelyPlayed:     "Moderately Played",
	HeavilyPlayed:        "Heavily Played",
	Damaged:              "Damaged",
	NearMintFoil:         "Near Mint Foil",
	LightlyPlayedFoil:    "Lightly Played Foil",
	ModeratelyPlayedFoil: "Moderately Played Foil",
	HeavilyPlayedFoil:    "Heavily Played Foil",
	DamagedFoil:          "Damaged Foil",
}

var labelConditions = func() map[string]Condition {
	m := make(map[string]Condition, len(conditionLabels))
	for c, label := range conditionLabels {
		m[label] = c
	}
	return m
}()

// UnknownConditionError reports a condition label outside the ten known ones.
type UnknownConditionError struct {
	Label string
}

func (e *UnknownConditionError) Error() string {
	return fmt.Sprintf("%s: %q", ErrUnknownCondition, e.Label)
}

func (e *UnknownConditionError) Unwrap() error {
	return ErrUnknownCondition
}

// ParseCondition maps a display label such as "Near Mint Foil" to its
// Condition. The match is exact.
func ParseCondition(label string) (Condition, error) {
	c, ok := labelConditions[label]
	if !ok {
		return 0, &UnknownConditionError{Label: label}
	}
	return c, nil
}

// AllConditions returns every condition in grade order, normal before foil.
func AllConditions() []Condition {
	return []Condition{
		NearMint, LightlyPlayed, ModeratelyPlayed, HeavilyPlayed, Damaged,
		NearMintFoil, LightlyPlayedFoil, ModeratelyPlayedFoil, HeavilyPlayedFoil, DamagedFoil,
	}
}

func (c Condition) String() string {
	if label, ok := conditionLabels[c]; ok {
		return label
	}
	return fmt.Sprintf("Condition(%d)", int(c))
}

func (c Condition) IsFoil() bool {
	return c >= NearMintFoil && c <= DamagedFoil
}

func (c Condition) MarshalText() ([]byte, error) {
	if _, ok := conditionLabels[c]; !ok {
		return nil, &UnknownConditionError{Label: c.String()}
	}
	return []byte(c.String()), nil
}

func (c *Condition) UnmarshalText(text []byte) error {
	parsed, err := ParseCondition(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
