// README: Ride history read model and query options.
package history

import (
	"time"

	"fareline/internal/types"
)

// Ride is a completed or cancelled booking as shown in the rider's history,
// joined with any feedback they left for it. Rating 0 means unrated.
type Ride struct {
	ID            types.ID    `json:"id"`
	Date          time.Time   `json:"date"`
	Origin        string      `json:"origin"`
	Destination   string      `json:"destination"`
	Amount        types.Money `json:"amount"`
	Driver        string      `json:"driver"`
	Status        string      `json:"status"`
	PaymentMethod string      `json:"paymentMethod"`
	Rating        int         `json:"rating,omitempty"`
	Comment       string      `json:"comment,omitempty"`
}

// Query narrows and orders a history listing. Zero value lists everything,
// newest first.
type Query struct {
	Status string // "", "all", "completed" or "cancelled"
	Search string // matched against origin, destination and driver
	Sort   string // one of the Sort* constants, default SortDateDesc
}

const (
	SortDateDesc   = "date_desc"
	SortDateAsc    = "date_asc"
	SortAmountDesc = "amount_desc"
	SortAmountAsc  = "amount_asc"
)

// Feedback is a rider's one-time rating of a ride.
type Feedback struct {
	RideID  types.ID `json:"rideId"`
	Rating  int      `json:"rating"`
	Comment string   `json:"comment,omitempty"`
}
