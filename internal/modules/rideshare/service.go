// README: Fare-split discount math and shared-ride offer coordination.
package rideshare

import (
	"context"
	"errors"
	"math"
	"time"

	"fareline/internal/types"
)

var (
	ErrInvalidPartySize = errors.New("invalid party size")
	ErrInvalidDiscount  = errors.New("invalid discount percentage")
	ErrInvalidInput     = errors.New("invalid fare input")
	ErrOfferNotFound    = errors.New("offer not found")
)

// Source supplies and persists shared-ride offers for a route. The production
// implementation is the Redis Store; tests inject deterministic doubles.
type Source interface {
	Offers(ctx context.Context, origin, destination string) ([]Offer, error)
	Save(ctx context.Context, origin, destination string, o Offer) error
}

type Service struct {
	source   Source
	seedDemo bool
}

func NewService(source Source, seedDemo bool) *Service {
	return &Service{source: source, seedDemo: seedDemo}
}

// DiscountForParty computes the fare-split percentage when the requester
// joins a ride that already has currentRiders occupants. A solo "shared"
// ride earns no discount: splitting a fare one way changes nothing.
func DiscountForParty(currentRiders, capacity int) (float64, error) {
	if currentRiders < 0 {
		return 0, ErrInvalidPartySize
	}
	n := currentRiders + 1
	if n > capacity {
		return 0, ErrInvalidPartySize
	}
	return float64(n-1) / float64(n) * 100, nil
}

// ApplyDiscount reduces baseFare by percentage and rounds to two decimals.
// percentage 0 is the identity (modulo rounding).
func ApplyDiscount(baseFare, percentage float64) (float64, error) {
	if baseFare < 0 || math.IsNaN(baseFare) || math.IsInf(baseFare, 0) {
		return 0, ErrInvalidInput
	}
	if percentage < 0 || percentage >= 100 || math.IsNaN(percentage) {
		return 0, ErrInvalidDiscount
	}
	return types.Round2(baseFare * (100 - percentage) / 100), nil
}

// Offers lists joinable rides for a route, seeding the demo offers on first
// sight of a route when enabled.
func (s *Service) Offers(ctx context.Context, origin, destination string) ([]Offer, error) {
	offers, err := s.source.Offers(ctx, origin, destination)
	if err != nil {
		return nil, err
	}
	if len(offers) == 0 && s.seedDemo {
		seeded, err := s.seed(ctx, origin, destination)
		if err != nil {
			return nil, err
		}
		return seeded, nil
	}
	return offers, nil
}

// Join validates capacity before touching any state: a rejected join must
// leave the caller's current discount untouched.
func (s *Service) Join(ctx context.Context, origin, destination string, offerID types.ID, rider string) (Discount, error) {
	offer, err := s.find(ctx, origin, destination, offerID)
	if err != nil {
		return Discount{}, err
	}
	for _, r := range offer.Riders {
		if r == rider {
			// Already a member; report the current split without growing the party.
			return Discount{OfferID: offer.ID, Percentage: offer.SplitDiscount()}, nil
		}
	}
	pct, err := DiscountForParty(len(offer.Riders), offer.Capacity)
	if err != nil {
		return Discount{}, err
	}
	offer.Riders = append(offer.Riders, rider)
	if err := s.source.Save(ctx, origin, destination, offer); err != nil {
		return Discount{}, err
	}
	return Discount{OfferID: offer.ID, Percentage: pct}, nil
}

// Leave removes the rider from the offer. The caller clears its discount
// regardless; a vanished offer is not an error here.
func (s *Service) Leave(ctx context.Context, origin, destination string, offerID types.ID, rider string) error {
	offer, err := s.find(ctx, origin, destination, offerID)
	if errors.Is(err, ErrOfferNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	kept := offer.Riders[:0]
	for _, r := range offer.Riders {
		if r != rider {
			kept = append(kept, r)
		}
	}
	offer.Riders = kept
	return s.source.Save(ctx, origin, destination, offer)
}

// Create opens a new shared ride with the creator as its only rider. The
// creator starts at 0% (party of one); their effective discount grows with
// occupancy and is recomputed via Refresh rather than pinned at creation.
func (s *Service) Create(ctx context.Context, origin, destination, driver, creator string, capacity int, scheduledAt time.Time) (Offer, Discount, error) {
	if capacity < 1 {
		return Offer{}, Discount{}, ErrInvalidPartySize
	}
	offer := Offer{
		ID:          RouteOfferID(origin, destination, int(time.Now().UnixNano()%1_000_000)),
		Origin:      origin,
		Destination: destination,
		ScheduledAt: scheduledAt,
		Driver:      driver,
		Capacity:    capacity,
		Riders:      []string{creator},
	}
	if err := s.source.Save(ctx, origin, destination, offer); err != nil {
		return Offer{}, Discount{}, err
	}
	return offer, Discount{OfferID: offer.ID, Percentage: 0}, nil
}

// Refresh returns the discount a current member gets from the offer's live
// occupancy.
func (s *Service) Refresh(ctx context.Context, origin, destination string, offerID types.ID) (Discount, error) {
	offer, err := s.find(ctx, origin, destination, offerID)
	if err != nil {
		return Discount{}, err
	}
	return Discount{OfferID: offer.ID, Percentage: offer.SplitDiscount()}, nil
}

func (s *Service) find(ctx context.Context, origin, destination string, offerID types.ID) (Offer, error) {
	offers, err := s.source.Offers(ctx, origin, destination)
	if err != nil {
		return Offer{}, err
	}
	for _, o := range offers {
		if o.ID == offerID {
			return o, nil
		}
	}
	return Offer{}, ErrOfferNotFound
}

// seed writes the two canonical demo offers for a route.
func (s *Service) seed(ctx context.Context, origin, destination string) ([]Offer, error) {
	today := time.Now().Truncate(24 * time.Hour)
	offers := []Offer{
		{
			ID:          RouteOfferID(origin, destination, 1),
			Origin:      origin,
			Destination: destination,
			ScheduledAt: today.Add(14*time.Hour + 30*time.Minute),
			Driver:      "Alex Johnson",
			Capacity:    4,
			Riders:      []string{"Sarah M."},
		},
		{
			ID:          RouteOfferID(origin, destination, 2),
			Origin:      origin,
			Destination: destination,
			ScheduledAt: today.Add(15*time.Hour + 15*time.Minute),
			Driver:      "Maria Garcia",
			Capacity:    3,
			Riders:      []string{"John D.", "Emma L."},
		},
	}
	for _, o := range offers {
		if err := s.source.Save(ctx, origin, destination, o); err != nil {
			return nil, err
		}
	}
	return offers, nil
}
