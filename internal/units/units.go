// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package units converts recipe quantities to and from grams, the single
// basis all nutrient arithmetic uses. Weight units convert with fixed
// factors; volume units convert to millilitres and are then scaled by a
// density in g/ml.
package units

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedUnit is returned for a Unit value outside the enum. It
// signals a programming error, not a recoverable condition.
var ErrUnsupportedUnit = errors.New("unsupported unit")

// DefaultDensity is the density in g/ml substituted when a caller passes a
// density of zero or less. It is water's density.
var DefaultDensity = 1.0

// Unit is a closed set of weight and volume units.
type Unit int

const (
	Gram Unit = iota
	Kilogram
	Ounce
	Pound

	Milliliter
	Liter
	Teaspoon
	Tablespoon
	Cup
	FluidOunce
)

type unitDef struct {
	symbol string
	name   string
	volume bool
	// factor is grams per unit for weight units and millilitres per unit
	// for volume units.
	factor float64
}

var unitTable = map[Unit]unitDef{
	Gram:     {symbol: "g", name: "gram", factor: 1},
	Kilogram: {symbol: "kg", name: "kilogram", factor: 1000},
	Ounce:    {symbol: "oz", name: "ounce", factor: 28.3495},
	Pound:    {symbol: "lb", name: "pound", factor: 453.592},

	Milliliter: {symbol: "ml", name: "milliliter", volume: true, factor: 1},
	Liter:      {symbol: "l", name: "liter", volume: true, factor: 1000},
	Teaspoon:   {symbol: "tsp", name: "teaspoon", volume: true, factor: 4.92892},
	Tablespoon: {symbol: "tbsp", name: "tablespoon", volume: true, factor: 14.7868},
	Cup:        {symbol: "cup", name: "cup", volume: true, factor: 240},
	FluidOunce: {symbol: "fl-oz", name: "fluid ounce", volume: true, factor: 29.5735},
}

// aliases maps accepted spellings to units. Symbols and names from
// unitTable are added in init.
var aliases = map[string]Unit{
	"grams":        Gram,
	"gr":           Gram,
	"kilograms":    Kilogram,
	"kilo":         Kilogram,
	"ounces":       Ounce,
	"pounds":       Pound,
	"lbs":          Pound,
	"milliliters":  Milliliter,
	"millilitre":   Milliliter,
	"millilitres":  Milliliter,
	"liters":       Liter,
	"litre":        Liter,
	"litres":       Liter,
	"teaspoons":    Teaspoon,
	"tablespoons":  Tablespoon,
	"cups":         Cup,
	"floz":         FluidOunce,
	"fl oz":        FluidOunce,
	"fluidounce":   FluidOunce,
	"fluid ounces": FluidOunce,
}

func init() {
	for u, def := range unitTable {
		aliases[def.symbol] = u
		aliases[def.name] = u
	}
}

// All returns every unit in declaration order.
func All() []Unit {
	return []Unit{Gram, Kilogram, Ounce, Pound, Milliliter, Liter, Teaspoon, Tablespoon, Cup, FluidOunce}
}

// String returns the unit symbol (e.g. "tbsp").
func (u Unit) String() string {
	if def, ok := unitTable[u]; ok {
		return def.symbol
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// Name returns the long unit name (e.g. "tablespoon").
func (u Unit) Name() string {
	if def, ok := unitTable[u]; ok {
		return def.name
	}
	return u.String()
}

// Valid reports whether u is a member of the enum.
func (u Unit) Valid() bool {
	_, ok := unitTable[u]
	return ok
}

// IsVolume reports whether u is a volume unit and needs a density.
func (u Unit) IsVolume() bool {
	return unitTable[u].volume
}

// IsWeight reports whether u is a weight unit.
func (u Unit) IsWeight() bool {
	def, ok := unitTable[u]
	return ok && !def.volume
}

// MarshalText encodes the unit as its symbol.
func (u Unit) MarshalText() ([]byte, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedUnit, int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText decodes a unit symbol or name.
func (u *Unit) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*u = parsed
	return nil
}

// Parse maps a symbol or name such as "g", "Tablespoon" or "fl-oz" to a
// Unit. Matching ignores case and surrounding whitespace.
func Parse(s string) (Unit, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if u, ok := aliases[key]; ok {
		return u, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedUnit, s)
}

// ToGrams converts value in unit to grams. Volume units are multiplied by
// density (g/ml); a density of zero or less uses DefaultDensity. Weight
// units ignore density.
func ToGrams(value float64, unit Unit, density float64) (float64, error) {
	def, ok := unitTable[unit]
	if !ok {
		return 0, fmt.Errorf("converting to grams: %w: %d", ErrUnsupportedUnit, int(unit))
	}
	if !def.volume {
		return value * def.factor, nil
	}
	return value * def.factor * EffectiveDensity(density), nil
}

// FromGrams is the inverse of ToGrams.
func FromGrams(grams float64, unit Unit, density float64) (float64, error) {
	def, ok := unitTable[unit]
	if !ok {
		return 0, fmt.Errorf("converting from grams: %w: %d", ErrUnsupportedUnit, int(unit))
	}
	if !def.volume {
		return grams / def.factor, nil
	}
	return grams / (def.factor * EffectiveDensity(density)), nil
}

// EffectiveDensity returns density, or DefaultDensity when density <= 0.
func EffectiveDensity(density float64) float64 {
	if density <= 0 {
		return DefaultDensity
	}
	return density
}
