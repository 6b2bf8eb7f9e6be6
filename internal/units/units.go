package units

import (
	"errors"
	"fmt"
	"strconv"
)

type Unit string

const (
	Pound     Unit = "pound"
	Kilogram  Unit = "kg"
	Mile      Unit = "mile"
	Kilometer Unit = "km"
)

// ErrUnsupportedConversion signals a unit pair outside the known conversion
// table. It means the caller mixed up data types and units somewhere up the
// stack, i.e. a programming error, not bad user input.
var ErrUnsupportedConversion = errors.New("unsupported unit conversion")

// conversion factors for all supported unit pairs;
// same-unit conversion is the identity and not listed here
var conversionFactors = map[[2]Unit]float64{
	{Mile, Kilometer}: 1.60934,
	{Kilometer, Mile}: 0.621371,
	{Pound, Kilogram}: 0.453592,
	{Kilogram, Pound}: 2.20462,
}

// Convert converts value between two units of the same kind.
// No rounding is applied, formatting is left to Format.
func Convert(value float64, from, to Unit) (float64, error) {
	if from == to {
		return value, nil
	}
	factor, ok := conversionFactors[[2]Unit{from, to}]
	if !ok {
		return 0, fmt.Errorf("%w: %s to %s", ErrUnsupportedConversion, from, to)
	}
	return value * factor, nil
}

// Format renders a value with the given number of decimals, for display.
func Format(value float64, precision int) string {
	return strconv.FormatFloat(value, 'f', precision, 64)
}

type Info struct {
	ID    Unit   `json:"id"`
	Name  string `json:"name"`
	Short string `json:"short"`
	Kind  string `json:"kind"`
}

// All returns the units a user can pick between in the settings.
func All() []Info {
	return []Info{
		{ID: Mile, Name: "Miles", Short: "mi", Kind: "distance"},
		{ID: Pound, Name: "Pounds", Short: "lb", Kind: "weight"},
		{ID: Kilometer, Name: "Kilometers", Short: "km", Kind: "distance"},
		{ID: Kilogram, Name: "Kilograms", Short: "kg", Kind: "weight"},
	}
}

func IsWeight(u Unit) bool {
	return u == Pound || u == Kilogram
}

func IsDistance(u Unit) bool {
	return u == Mile || u == Kilometer
}

// Preferences holds the units a user wants values displayed and
// aggregated in. Zero values fall back to the defaults (pound, mile).
type Preferences struct {
	Weight   Unit `json:"weight,omitempty"`
	Distance Unit `json:"distance,omitempty"`
}

func (p Preferences) WeightUnit() Unit {
	if p.Weight == "" {
		return Pound
	}
	return p.Weight
}

func (p Preferences) DistanceUnit() Unit {
	if p.Distance == "" {
		return Mile
	}
	return p.Distance
}
