package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"fareline/internal/maps"
	"fareline/internal/modules/pricing"
	"fareline/internal/modules/rideshare"
	"fareline/internal/types"
)

type memoryRecordStore struct {
	records map[types.ID]*Record
}

func newMemoryRecordStore() *memoryRecordStore {
	return &memoryRecordStore{records: map[types.ID]*Record{}}
}

func (m *memoryRecordStore) Create(_ context.Context, r *Record) error {
	if _, exists := m.records[r.ID]; exists {
		return errors.New("duplicate id")
	}
	m.records[r.ID] = r
	return nil
}

func (m *memoryRecordStore) Get(_ context.Context, id types.ID) (*Record, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

type stubRouteProvider struct {
	metrics *maps.Metrics
	err     error
}

func (s *stubRouteProvider) GetRouteMetrics(_ context.Context, origin, destination string) (*maps.Metrics, error) {
	if s.err != nil {
		return nil, s.err
	}
	m := *s.metrics
	m.Origin, m.Destination = origin, destination
	return &m, nil
}

func newTestService(store RecordStore, routes RouteProvider) *Service {
	return NewService(store, pricing.NewService(nil, pricing.DefaultCatalog()), routes)
}

func TestComputeAmountDue(t *testing.T) {
	svc := newTestService(newMemoryRecordStore(), nil)
	ctx := context.Background()
	route := &maps.Metrics{DistanceKm: 10, DurationMinutes: 20, Origin: "A", Destination: "B"}

	t.Run("base fare without discount", func(t *testing.T) {
		due, err := svc.ComputeAmountDue(ctx, route, "economy", nil)
		if err != nil {
			t.Fatalf("ComputeAmountDue() error = %v", err)
		}
		if due.Amount != 13.93 || due.BaseFare != 13.93 {
			t.Errorf("due = %+v, want amount and base 13.93", due)
		}
	})

	t.Run("shared ride halves the fare", func(t *testing.T) {
		d := &rideshare.Discount{OfferID: "o1", Percentage: 50}
		due, err := svc.ComputeAmountDue(ctx, route, "economy", d)
		if err != nil {
			t.Fatalf("ComputeAmountDue() error = %v", err)
		}
		if due.Amount != 6.97 {
			t.Errorf("discounted amount = %v, want 6.97", due.Amount)
		}
		if due.Amount > due.BaseFare {
			t.Errorf("payable %v exceeds base fare %v", due.Amount, due.BaseFare)
		}
	})

	t.Run("no route selected", func(t *testing.T) {
		_, err := svc.ComputeAmountDue(ctx, nil, "economy", nil)
		if err != ErrNoRouteSelected {
			t.Errorf("error = %v, want ErrNoRouteSelected", err)
		}
	})

	t.Run("unknown vehicle class", func(t *testing.T) {
		_, err := svc.ComputeAmountDue(ctx, route, "hovercraft", nil)
		if err != ErrInvalidVehicleClass {
			t.Errorf("error = %v, want ErrInvalidVehicleClass", err)
		}
	})

	t.Run("bad discount", func(t *testing.T) {
		d := &rideshare.Discount{Percentage: 120}
		_, err := svc.ComputeAmountDue(ctx, route, "economy", d)
		if err != ErrInvalidDiscount {
			t.Errorf("error = %v, want ErrInvalidDiscount", err)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		a, err := svc.ComputeAmountDue(ctx, route, "comfort", nil)
		if err != nil {
			t.Fatalf("ComputeAmountDue() error = %v", err)
		}
		b, err := svc.ComputeAmountDue(ctx, route, "comfort", nil)
		if err != nil {
			t.Fatalf("ComputeAmountDue() error = %v", err)
		}
		if a != b {
			t.Errorf("repeated derivation differs: %+v vs %+v", a, b)
		}
	})
}

func TestSession_RouteSupersession(t *testing.T) {
	sess := NewSession()

	stale := sess.BeginRouteRequest()
	fresh := sess.BeginRouteRequest()

	if sess.CompleteRouteRequest(stale, &maps.Metrics{DistanceKm: 1}) {
		t.Error("stale route response was accepted")
	}
	if snap := sess.Snapshot(); snap.Route != nil {
		t.Errorf("route set from stale response: %+v", snap.Route)
	}

	if !sess.CompleteRouteRequest(fresh, &maps.Metrics{DistanceKm: 2}) {
		t.Error("current route response was rejected")
	}
	if snap := sess.Snapshot(); snap.Route == nil || snap.Route.DistanceKm != 2 {
		t.Errorf("unexpected route after completion: %+v", sess.Snapshot().Route)
	}
}

func TestSession_DiscountStateMachine(t *testing.T) {
	sess := NewSession()

	// Cannot jump straight to joined.
	if err := sess.SetDiscount(rideshare.Discount{Percentage: 50}); err != ErrInvalidDiscountState {
		t.Fatalf("SetDiscount from none: error = %v, want ErrInvalidDiscountState", err)
	}

	if err := sess.MarkOffered(); err != nil {
		t.Fatalf("MarkOffered() error = %v", err)
	}
	if err := sess.SetDiscount(rideshare.Discount{OfferID: "o1", Percentage: 50}); err != nil {
		t.Fatalf("SetDiscount() error = %v", err)
	}
	if snap := sess.Snapshot(); snap.Discount == nil || snap.Discount.Percentage != 50 {
		t.Errorf("discount not installed: %+v", snap.Discount)
	}

	sess.ClearDiscount()
	if snap := sess.Snapshot(); snap.Discount != nil || snap.DiscountStatus != rideshare.StatusNone {
		t.Errorf("discount not cleared: %+v", snap)
	}
}

func TestService_Commit(t *testing.T) {
	store := newMemoryRecordStore()
	routes := &stubRouteProvider{metrics: &maps.Metrics{DistanceKm: 10, DurationMinutes: 20}}
	svc := newTestService(store, routes)
	ctx := context.Background()
	uid := types.ID("user-1")

	if _, err := svc.Commit(ctx, CommitCommand{UserID: uid}); err != ErrNoRouteSelected {
		t.Fatalf("commit without route: error = %v, want ErrNoRouteSelected", err)
	}

	if _, err := svc.UpdateRoute(ctx, uid, "123 Main St", "Downtown Plaza"); err != nil {
		t.Fatalf("UpdateRoute() error = %v", err)
	}
	if err := svc.SelectVehicle(uid, "economy"); err != nil {
		t.Fatalf("SelectVehicle() error = %v", err)
	}

	sess := svc.Session(uid)
	if err := sess.MarkOffered(); err != nil {
		t.Fatalf("MarkOffered() error = %v", err)
	}
	if err := sess.SetDiscount(rideshare.Discount{OfferID: "o1", Percentage: 50}); err != nil {
		t.Fatalf("SetDiscount() error = %v", err)
	}

	rec, err := svc.Commit(ctx, CommitCommand{UserID: uid, Driver: "Alex Johnson", PaymentMethod: "Credit Card"})
	if err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if rec.Amount.Amount != 697 {
		t.Errorf("committed amount = %d cents, want 697", rec.Amount.Amount)
	}
	if rec.Status != StatusCompleted {
		t.Errorf("status = %s, want completed", rec.Status)
	}
	if got, err := svc.Get(ctx, rec.ID); err != nil || got.ID != rec.ID {
		t.Errorf("Get() = %v, %v", got, err)
	}

	// The next booking starts with no discount.
	due, err := svc.AmountDue(ctx, uid)
	if err != nil {
		t.Fatalf("AmountDue() error = %v", err)
	}
	if due.Amount != 13.93 {
		t.Errorf("post-commit amount due = %v, want undiscounted 13.93", due.Amount)
	}
}

func TestService_UpdateRoute_Validation(t *testing.T) {
	svc := newTestService(newMemoryRecordStore(), &stubRouteProvider{metrics: &maps.Metrics{}})
	if _, err := svc.UpdateRoute(context.Background(), "u", "", "somewhere"); err != ErrBadRequest {
		t.Errorf("error = %v, want ErrBadRequest", err)
	}
}

func TestSession_MarkOfferedWhileJoined(t *testing.T) {
	sess := NewSession()
	if err := sess.MarkOffered(); err != nil {
		t.Fatalf("MarkOffered() error = %v", err)
	}
	if err := sess.SetDiscount(rideshare.Discount{OfferID: "o1", Percentage: 50}); err != nil {
		t.Fatalf("SetDiscount() error = %v", err)
	}

	// Browsing offers while joined is a no-op, not a forbidden transition.
	if err := sess.MarkOffered(); err != nil {
		t.Errorf("MarkOffered() while joined error = %v", err)
	}
	snap := sess.Snapshot()
	if snap.DiscountStatus != rideshare.StatusJoined || snap.Discount == nil || snap.Discount.Percentage != 50 {
		t.Errorf("joined state disturbed: %+v", snap)
	}
}

func TestSession_RefreshDiscount(t *testing.T) {
	sess := NewSession()

	// Nothing to refresh before joining.
	if sess.RefreshDiscount(rideshare.Discount{OfferID: "o1", Percentage: 50}) {
		t.Error("RefreshDiscount() succeeded on a non-joined session")
	}

	if err := sess.MarkOffered(); err != nil {
		t.Fatalf("MarkOffered() error = %v", err)
	}
	if err := sess.SetDiscount(rideshare.Discount{OfferID: "o1", Percentage: 0}); err != nil {
		t.Fatalf("SetDiscount() error = %v", err)
	}
	if !sess.RefreshDiscount(rideshare.Discount{OfferID: "o1", Percentage: 50}) {
		t.Fatal("RefreshDiscount() failed on a joined session")
	}
	snap := sess.Snapshot()
	if snap.Discount == nil || snap.Discount.Percentage != 50 {
		t.Errorf("refreshed discount = %+v, want 50", snap.Discount)
	}
	if snap.DiscountStatus != rideshare.StatusJoined {
		t.Errorf("status = %v, want joined", snap.DiscountStatus)
	}
}

func TestSessions_PurgeIdle(t *testing.T) {
	reg := NewSessions()
	stale := reg.Get("stale-user")
	if err := stale.MarkOffered(); err != nil {
		t.Fatalf("MarkOffered() error = %v", err)
	}
	reg.Get("fresh-user")

	reg.mu.Lock()
	reg.byID["stale-user"].lastSeen = time.Now().Add(-3 * time.Hour)
	reg.mu.Unlock()

	if n := reg.PurgeIdle(2 * time.Hour); n != 1 {
		t.Fatalf("PurgeIdle() = %d, want 1", n)
	}

	reg.mu.Lock()
	_, staleKept := reg.byID["stale-user"]
	_, freshKept := reg.byID["fresh-user"]
	reg.mu.Unlock()
	if staleKept {
		t.Error("stale session survived the purge")
	}
	if !freshKept {
		t.Error("fresh session was evicted")
	}

	// A purged user starts over with a clean session.
	if snap := reg.Get("stale-user").Snapshot(); snap.DiscountStatus != rideshare.StatusNone {
		t.Errorf("recreated session status = %v, want none", snap.DiscountStatus)
	}
}
