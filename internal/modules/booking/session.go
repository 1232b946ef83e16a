// README: Per-user booking-in-progress state with snapshot reads.
package booking

import (
	"sync"
	"time"

	"fareline/internal/maps"
	"fareline/internal/modules/rideshare"
	"fareline/internal/types"
)

// Session owns the mutable (route, vehicle, discount) triple for one booking
// in progress. Every read goes through Snapshot so consumers always observe a
// consistent view, never a half-applied update.
type Session struct {
	mu             sync.Mutex
	routeSeq       uint64
	route          *maps.Metrics
	vehicleID      string
	discountStatus rideshare.Status
	discount       *rideshare.Discount
}

type Snapshot struct {
	Route          *maps.Metrics
	VehicleID      string
	DiscountStatus rideshare.Status
	Discount       *rideshare.Discount
}

func NewSession() *Session {
	return &Session{discountStatus: rideshare.StatusNone}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		VehicleID:      s.vehicleID,
		DiscountStatus: s.discountStatus,
	}
	if s.route != nil {
		r := *s.route
		snap.Route = &r
	}
	if s.discount != nil {
		d := *s.discount
		snap.Discount = &d
	}
	return snap
}

// BeginRouteRequest invalidates the current route and returns a token for the
// in-flight lookup. An endpoint change supersedes any earlier lookup: until
// the newest one resolves, the session has no route at all (unavailable, not
// a stale or zeroed one).
func (s *Session) BeginRouteRequest() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routeSeq++
	s.route = nil
	return s.routeSeq
}

// CompleteRouteRequest installs the resolved metrics unless a newer request
// has started since; stale responses are discarded.
func (s *Session) CompleteRouteRequest(token uint64, m *maps.Metrics) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token != s.routeSeq {
		return false
	}
	s.route = m
	return true
}

func (s *Session) SetVehicle(vehicleID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vehicleID = vehicleID
}

// MarkOffered records that candidate offers are visible for this booking.
// Viewing offers never disturbs existing state: an offered session stays
// offered and a joined session keeps its discount.
func (s *Session) MarkOffered() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.discountStatus == rideshare.StatusOffered || s.discountStatus == rideshare.StatusJoined {
		return nil
	}
	if !rideshare.CanTransition(s.discountStatus, rideshare.StatusOffered) {
		return ErrInvalidDiscountState
	}
	s.discountStatus = rideshare.StatusOffered
	return nil
}

// SetDiscount moves the booking to joined with the given discount.
func (s *Session) SetDiscount(d rideshare.Discount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !rideshare.CanTransition(s.discountStatus, rideshare.StatusJoined) {
		return ErrInvalidDiscountState
	}
	s.discountStatus = rideshare.StatusJoined
	s.discount = &d
	return nil
}

// RefreshDiscount replaces the active discount with a recomputed split. Only
// a joined session has anything to refresh.
func (s *Session) RefreshDiscount(d rideshare.Discount) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.discountStatus != rideshare.StatusJoined {
		return false
	}
	s.discount = &d
	return true
}

// ClearDiscount returns the booking to the no-discount state; valid from any
// state because toggling sharing off is always allowed.
func (s *Session) ClearDiscount() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discountStatus = rideshare.StatusNone
	s.discount = nil
}

// Sessions is the registry of live booking sessions keyed by user. Entries
// are evicted after a period of inactivity so the registry stays bounded.
type Sessions struct {
	mu   sync.Mutex
	byID map[types.ID]*sessionEntry
}

type sessionEntry struct {
	session  *Session
	lastSeen time.Time
}

func NewSessions() *Sessions {
	return &Sessions{byID: map[types.ID]*sessionEntry{}}
}

func (r *Sessions) Get(uid types.ID) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.byID[uid]
	if !ok {
		e = &sessionEntry{session: NewSession()}
		r.byID[uid] = e
	}
	e.lastSeen = time.Now()
	return e.session
}

// PurgeIdle drops sessions untouched for longer than maxIdle and reports how
// many were evicted.
func (r *Sessions) PurgeIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := time.Now().Add(-maxIdle)
	evicted := 0
	for uid, e := range r.byID {
		if e.lastSeen.Before(cutoff) {
			delete(r.byID, uid)
			evicted++
		}
	}
	return evicted
}
