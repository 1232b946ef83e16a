// README: Shared-ride offers and the per-booking discount state machine.
package rideshare

import (
	"time"

	"fareline/internal/types"
)

// Offer is a joinable shared ride on a route. Offers are ephemeral and
// simulated; a live matching service would produce the same shape.
type Offer struct {
	ID          types.ID  `json:"id"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Driver      string    `json:"driver"`
	Capacity    int       `json:"capacity"`
	Riders      []string  `json:"riders"`
}

// SplitDiscount is the percentage each current member saves when the fare is
// split across the offer's present occupancy.
func (o Offer) SplitDiscount() float64 {
	n := len(o.Riders)
	if n <= 1 {
		return 0
	}
	return float64(n-1) / float64(n) * 100
}

// Discount is the active fare reduction on a booking in progress. At most one
// is active at a time.
type Discount struct {
	OfferID    types.ID
	Percentage float64
}

type Status string

const (
	StatusNone    Status = "none"
	StatusOffered Status = "offered"
	StatusJoined  Status = "joined"
)

// AllowedTransitions represents the discount state flow for one booking.
var AllowedTransitions = map[Status][]Status{
	StatusNone:    {StatusOffered},
	StatusOffered: {StatusJoined, StatusNone},
	StatusJoined:  {StatusNone},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
