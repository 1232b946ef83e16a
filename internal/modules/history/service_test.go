package history

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sort"
	"strings"
	"testing"
	"time"

	"fareline/internal/types"
)

// memorySource mirrors the store's filter, search and sort semantics in
// memory so service behavior can be tested without a database.
type memorySource struct {
	rides    map[types.ID]Ride
	feedback map[types.ID]Feedback
}

func newMemorySource(rides ...Ride) *memorySource {
	m := &memorySource{rides: map[types.ID]Ride{}, feedback: map[types.ID]Feedback{}}
	for _, r := range rides {
		m.rides[r.ID] = r
	}
	return m
}

func (m *memorySource) Rides(_ context.Context, _ types.ID, q Query) ([]Ride, error) {
	var out []Ride
	for _, r := range m.rides {
		if q.Status != "" && q.Status != "all" && r.Status != q.Status {
			continue
		}
		if q.Search != "" {
			needle := strings.ToLower(q.Search)
			hay := strings.ToLower(r.Origin + " " + r.Destination + " " + r.Driver)
			if !strings.Contains(hay, needle) {
				continue
			}
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		switch q.Sort {
		case SortDateAsc:
			return out[i].Date.Before(out[j].Date)
		case SortAmountDesc:
			return out[i].Amount.Amount > out[j].Amount.Amount
		case SortAmountAsc:
			return out[i].Amount.Amount < out[j].Amount.Amount
		default:
			return out[i].Date.After(out[j].Date)
		}
	})
	return out, nil
}

func (m *memorySource) Ride(_ context.Context, _ types.ID, id types.ID) (Ride, error) {
	r, ok := m.rides[id]
	if !ok {
		return Ride{}, ErrRideNotFound
	}
	return r, nil
}

func (m *memorySource) SaveFeedback(_ context.Context, _ types.ID, fb Feedback) error {
	if _, ok := m.rides[fb.RideID]; !ok {
		return ErrRideNotFound
	}
	if _, ok := m.feedback[fb.RideID]; ok {
		return ErrAlreadyRated
	}
	m.feedback[fb.RideID] = fb
	return nil
}

func sampleRides() []Ride {
	base := time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC)
	return []Ride{
		{ID: "r1", Date: base, Origin: "123 Main St", Destination: "Airport", Amount: types.Money{Amount: 1393, Currency: "usd"}, Driver: "Alex Johnson", Status: "completed", PaymentMethod: "card", Rating: 5},
		{ID: "r2", Date: base.Add(24 * time.Hour), Origin: "Oak Ave", Destination: "Downtown Plaza", Amount: types.Money{Amount: 697, Currency: "usd"}, Driver: "Maria Garcia", Status: "completed", PaymentMethod: "card"},
		{ID: "r3", Date: base.Add(48 * time.Hour), Origin: "Pine Rd", Destination: "Stadium", Amount: types.Money{Amount: 275, Currency: "usd"}, Driver: "John D.", Status: "cancelled", PaymentMethod: "cash"},
	}
}

func TestService_List(t *testing.T) {
	svc := NewService(newMemorySource(sampleRides()...))
	ctx := context.Background()

	t.Run("default order is newest first", func(t *testing.T) {
		rides, err := svc.List(ctx, "u1", Query{})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(rides) != 3 || rides[0].ID != "r3" || rides[2].ID != "r1" {
			t.Errorf("unexpected order: %+v", rideIDs(rides))
		}
	})

	t.Run("status filter", func(t *testing.T) {
		rides, err := svc.List(ctx, "u1", Query{Status: "cancelled"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(rides) != 1 || rides[0].ID != "r3" {
			t.Errorf("filter returned %v", rideIDs(rides))
		}
	})

	t.Run("search matches driver", func(t *testing.T) {
		rides, err := svc.List(ctx, "u1", Query{Search: "maria"})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(rides) != 1 || rides[0].ID != "r2" {
			t.Errorf("search returned %v", rideIDs(rides))
		}
	})

	t.Run("amount ascending", func(t *testing.T) {
		rides, err := svc.List(ctx, "u1", Query{Sort: SortAmountAsc})
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if rides[0].ID != "r3" || rides[2].ID != "r1" {
			t.Errorf("unexpected order: %v", rideIDs(rides))
		}
	})

	t.Run("rejects unknown sort", func(t *testing.T) {
		if _, err := svc.List(ctx, "u1", Query{Sort: "price"}); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("List() error = %v, want ErrInvalidQuery", err)
		}
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		if _, err := svc.List(ctx, "u1", Query{Status: "pending"}); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("List() error = %v, want ErrInvalidQuery", err)
		}
	})
}

func TestService_SubmitFeedback(t *testing.T) {
	src := newMemorySource(sampleRides()...)
	svc := NewService(src)
	ctx := context.Background()

	if err := svc.SubmitFeedback(ctx, "u1", Feedback{RideID: "r2", Rating: 4, Comment: "smooth ride"}); err != nil {
		t.Fatalf("SubmitFeedback() error = %v", err)
	}
	if err := svc.SubmitFeedback(ctx, "u1", Feedback{RideID: "r2", Rating: 3}); !errors.Is(err, ErrAlreadyRated) {
		t.Errorf("second rating error = %v, want ErrAlreadyRated", err)
	}
	if err := svc.SubmitFeedback(ctx, "u1", Feedback{RideID: "nope", Rating: 4}); !errors.Is(err, ErrRideNotFound) {
		t.Errorf("unknown ride error = %v, want ErrRideNotFound", err)
	}
	for _, rating := range []int{0, 6, -1} {
		if err := svc.SubmitFeedback(ctx, "u1", Feedback{RideID: "r1", Rating: rating}); !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d error = %v, want ErrInvalidRating", rating, err)
		}
	}
}

func TestService_ExportCSV(t *testing.T) {
	svc := NewService(newMemorySource(sampleRides()...))

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), &buf, "u1", Query{Sort: SortDateAsc}); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parsing export: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("got %d rows, want header + 3", len(records))
	}
	header := strings.Join(records[0], ",")
	if header != "Date,From,To,Amount,Driver,Status,Payment Method,Rating" {
		t.Errorf("unexpected header %q", header)
	}
	first := records[1]
	if first[3] != "USD 13.93" {
		t.Errorf("amount column = %q, want USD 13.93", first[3])
	}
	if first[7] != "5" {
		t.Errorf("rating column = %q, want 5", first[7])
	}
	if records[2][7] != "" {
		t.Errorf("unrated ride should have empty rating, got %q", records[2][7])
	}
}

func TestWriteReceipt(t *testing.T) {
	ride := sampleRides()[0]
	var buf bytes.Buffer
	if err := WriteReceipt(&buf, ride); err != nil {
		t.Fatalf("WriteReceipt() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF document")
	}
}

func rideIDs(rides []Ride) []types.ID {
	ids := make([]types.ID, len(rides))
	for i, r := range rides {
		ids[i] = r.ID
	}
	return ids
}
