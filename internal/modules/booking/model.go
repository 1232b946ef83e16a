// README: Booking record aggregate.
package booking

import (
	"time"

	"fareline/internal/types"
)

type Status string

const (
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Record is an immutable, append-only row created when the rider commits to
// checkout. Ratings and feedback live in their own table keyed by booking id;
// the record itself is never updated.
type Record struct {
	ID            types.ID
	UserID        types.ID
	Origin        string
	Destination   string
	VehicleClass  string
	Amount        types.Money
	DistanceKm    float64
	DurationMin   float64
	DiscountPct   float64
	Driver        string
	PaymentMethod string
	Status        Status
	CreatedAt     time.Time
}
