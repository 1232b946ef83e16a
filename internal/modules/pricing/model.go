// README: Vehicle class catalog records and fare value object.
package pricing

import "fareline/internal/types"

// VehicleClass is one entry of the static vehicle catalog. PerKmRate is the
// charge per kilometer in currency major units.
type VehicleClass struct {
	ID        string
	Name      string
	PerKmRate float64
	Currency  string
}

// Fare is a priced trip before any ride-sharing discount. Amount is kept
// unrounded so that re-quoting across vehicle classes never compounds
// rounding error; Rounded is what gets displayed and stored.
type Fare struct {
	Amount   float64
	Currency string
}

func (f Fare) Rounded() float64 {
	return types.Round2(f.Amount)
}
