// README: Common money value object and rounding rules used across modules.
package types

import "math"

// Money is an amount in currency minor units (cents).
type Money struct {
	Amount   int64
	Currency string
}

// Round2 rounds to two decimal places, half up. All displayed
// and stored fare amounts go through this; intermediate math stays unrounded.
func Round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}

// MinorUnits converts a major-unit amount (dollars) to minor units (cents).
func MinorUnits(v float64) int64 {
	return int64(math.Round(v * 100))
}
