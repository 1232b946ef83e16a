package history

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"fareline/internal/types"
)

var (
	ErrRideNotFound  = errors.New("ride not found")
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrAlreadyRated  = errors.New("ride already rated")
	ErrInvalidQuery  = errors.New("invalid history query")
)

// Source is where ride history lives. Satisfied by *Store.
type Source interface {
	Rides(ctx context.Context, userID types.ID, q Query) ([]Ride, error)
	Ride(ctx context.Context, userID, id types.ID) (Ride, error)
	SaveFeedback(ctx context.Context, userID types.ID, fb Feedback) error
}

type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

func (s *Service) List(ctx context.Context, userID types.ID, q Query) ([]Ride, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	return s.source.Rides(ctx, userID, q)
}

func (s *Service) Get(ctx context.Context, userID, id types.ID) (Ride, error) {
	return s.source.Ride(ctx, userID, id)
}

func (s *Service) SubmitFeedback(ctx context.Context, userID types.ID, fb Feedback) error {
	if fb.Rating < 1 || fb.Rating > 5 {
		return ErrInvalidRating
	}
	return s.source.SaveFeedback(ctx, userID, fb)
}

// ExportCSV streams the rider's history as CSV, honoring the same query
// options as List.
func (s *Service) ExportCSV(ctx context.Context, w io.Writer, userID types.ID, q Query) error {
	rides, err := s.List(ctx, userID, q)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "From", "To", "Amount", "Driver", "Status", "Payment Method", "Rating"}); err != nil {
		return err
	}
	for _, r := range rides {
		rating := ""
		if r.Rating > 0 {
			rating = strconv.Itoa(r.Rating)
		}
		row := []string{
			r.Date.Format("2006-01-02 15:04"),
			r.Origin,
			r.Destination,
			formatAmount(r.Amount),
			r.Driver,
			r.Status,
			r.PaymentMethod,
			rating,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func validateQuery(q Query) error {
	switch q.Status {
	case "", "all", "completed", "cancelled":
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidQuery, q.Status)
	}
	switch q.Sort {
	case "", SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc:
	default:
		return fmt.Errorf("%w: sort %q", ErrInvalidQuery, q.Sort)
	}
	return nil
}

func formatAmount(m types.Money) string {
	return fmt.Sprintf("%s %.2f", strings.ToUpper(m.Currency), float64(m.Amount)/100)
}
