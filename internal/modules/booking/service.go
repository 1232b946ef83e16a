// README: Booking orchestrator: derives the amount due and commits records.
package booking

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"time"

	"fareline/internal/maps"
	"fareline/internal/modules/pricing"
	"fareline/internal/modules/rideshare"
	"fareline/internal/types"
)

var (
	ErrNoRouteSelected      = errors.New("no route selected")
	ErrInvalidVehicleClass  = errors.New("invalid vehicle class")
	ErrInvalidDiscount      = errors.New("invalid discount")
	ErrInvalidDiscountState = errors.New("invalid discount state transition")
	ErrNotFound             = errors.New("booking not found")
	ErrNotPayable           = errors.New("amount due is not payable")
	ErrBadRequest           = errors.New("bad request")
)

// RouteProvider resolves driving metrics for a pair of addresses.
type RouteProvider interface {
	GetRouteMetrics(ctx context.Context, origin, destination string) (*maps.Metrics, error)
}

// Pricing quotes a route for a vehicle class.
type Pricing interface {
	QuoteVehicle(ctx context.Context, route *maps.Metrics, vehicleID string) (pricing.Fare, pricing.VehicleClass, error)
}

// RecordStore persists committed bookings.
type RecordStore interface {
	Create(ctx context.Context, r *Record) error
	Get(ctx context.Context, id types.ID) (*Record, error)
}

// Payable is the amount the rider will actually be charged, always consistent
// with the inputs it was derived from.
type Payable struct {
	Amount      float64
	BaseFare    float64
	DiscountPct float64
	Currency    string
}

type Service struct {
	store    RecordStore
	pricing  Pricing
	routes   RouteProvider
	sessions *Sessions
}

func NewService(store RecordStore, pricingSvc Pricing, routes RouteProvider) *Service {
	return &Service{
		store:    store,
		pricing:  pricingSvc,
		routes:   routes,
		sessions: NewSessions(),
	}
}

func (s *Service) Session(uid types.ID) *Session {
	return s.sessions.Get(uid)
}

const (
	sessionIdleTTL    = 2 * time.Hour
	sessionSweepEvery = 10 * time.Minute
)

// RunSessionJanitor evicts idle booking sessions until ctx is cancelled.
func (s *Service) RunSessionJanitor(ctx context.Context) {
	t := time.NewTicker(sessionSweepEvery)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.sessions.PurgeIdle(sessionIdleTTL); n > 0 {
				log.Printf("booking: evicted %d idle sessions", n)
			}
		}
	}
}

// UpdateRoute resolves fresh metrics for the endpoints and installs them in
// the user's session. A concurrent endpoint change supersedes this request:
// its result is then discarded and the caller gets the newer state.
func (s *Service) UpdateRoute(ctx context.Context, uid types.ID, origin, destination string) (*maps.Metrics, error) {
	if origin == "" || destination == "" {
		return nil, ErrBadRequest
	}
	sess := s.sessions.Get(uid)
	token := sess.BeginRouteRequest()
	m, err := s.routes.GetRouteMetrics(ctx, origin, destination)
	if err != nil {
		return nil, err
	}
	if !sess.CompleteRouteRequest(token, m) {
		return nil, ErrNoRouteSelected
	}
	return m, nil
}

func (s *Service) SelectVehicle(uid types.ID, vehicleID string) error {
	if vehicleID == "" {
		return ErrInvalidVehicleClass
	}
	s.sessions.Get(uid).SetVehicle(vehicleID)
	return nil
}

// ComputeAmountDue derives the payable amount from an explicit input triple.
// A missing route propagates as an error; it is never defaulted to a zero
// fare, because zero would be indistinguishable from a real (degenerate)
// price.
func (s *Service) ComputeAmountDue(ctx context.Context, route *maps.Metrics, vehicleID string, discount *rideshare.Discount) (Payable, error) {
	if route == nil {
		return Payable{}, ErrNoRouteSelected
	}
	fare, vc, err := s.pricing.QuoteVehicle(ctx, route, vehicleID)
	switch {
	case errors.Is(err, pricing.ErrNoRoute), errors.Is(err, pricing.ErrInvalidInput):
		return Payable{}, ErrNoRouteSelected
	case errors.Is(err, pricing.ErrUnknownVehicle), errors.Is(err, pricing.ErrInvalidRate):
		return Payable{}, ErrInvalidVehicleClass
	case err != nil:
		return Payable{}, err
	}

	pct := 0.0
	if discount != nil {
		pct = discount.Percentage
	}
	amount, err := rideshare.ApplyDiscount(fare.Amount, pct)
	if err != nil {
		return Payable{}, ErrInvalidDiscount
	}
	return Payable{
		Amount:      amount,
		BaseFare:    fare.Rounded(),
		DiscountPct: pct,
		Currency:    vc.Currency,
	}, nil
}

// AmountDue re-derives the payable amount from the session's current
// snapshot. There is no cached figure to go stale: every call reflects the
// latest route, vehicle, and discount.
func (s *Service) AmountDue(ctx context.Context, uid types.ID) (Payable, error) {
	snap := s.sessions.Get(uid).Snapshot()
	return s.ComputeAmountDue(ctx, snap.Route, snap.VehicleID, snap.Discount)
}

type CommitCommand struct {
	UserID        types.ID
	Driver        string
	PaymentMethod string
}

// Commit freezes the current amount due into an append-only booking record.
// The session's discount resets afterwards: a fresh booking starts with none.
func (s *Service) Commit(ctx context.Context, cmd CommitCommand) (*Record, error) {
	if cmd.UserID == "" {
		return nil, ErrBadRequest
	}
	sess := s.sessions.Get(cmd.UserID)
	snap := sess.Snapshot()

	due, err := s.ComputeAmountDue(ctx, snap.Route, snap.VehicleID, snap.Discount)
	if err != nil {
		return nil, err
	}
	if due.Amount <= 0 {
		return nil, ErrNotPayable
	}

	r := &Record{
		ID:            newID(),
		UserID:        cmd.UserID,
		Origin:        snap.Route.Origin,
		Destination:   snap.Route.Destination,
		VehicleClass:  snap.VehicleID,
		Amount:        types.Money{Amount: types.MinorUnits(due.Amount), Currency: due.Currency},
		DistanceKm:    snap.Route.DistanceKm,
		DurationMin:   snap.Route.DurationMinutes,
		DiscountPct:   due.DiscountPct,
		Driver:        cmd.Driver,
		PaymentMethod: cmd.PaymentMethod,
		Status:        StatusCompleted,
		CreatedAt:     time.Now(),
	}
	if err := s.store.Create(ctx, r); err != nil {
		return nil, err
	}
	sess.ClearDiscount()
	return r, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Record, error) {
	return s.store.Get(ctx, id)
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}
