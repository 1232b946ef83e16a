package history

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fareline/internal/types"
)

// Store reads ride history out of the bookings table and keeps feedback
// in ride_feedback, one row per ride.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

var sortClauses = map[string]string{
	SortDateDesc:   "b.created_at DESC",
	SortDateAsc:    "b.created_at ASC",
	SortAmountDesc: "b.amount DESC",
	SortAmountAsc:  "b.amount ASC",
}

const rideColumns = `
	b.id, b.created_at, b.origin, b.destination,
	b.amount, b.currency, b.driver, b.status, b.payment_method,
	COALESCE(f.rating, 0), COALESCE(f.comment, '')`

func (s *Store) Rides(ctx context.Context, userID types.ID, q Query) ([]Ride, error) {
	clause, ok := sortClauses[q.Sort]
	if !ok {
		clause = sortClauses[SortDateDesc]
	}

	sql := `SELECT` + rideColumns + `
		FROM bookings b
		LEFT JOIN ride_feedback f ON f.booking_id = b.id
		WHERE b.user_id = $1`
	args := []any{string(userID)}

	if q.Status != "" && q.Status != "all" {
		args = append(args, q.Status)
		sql += fmt.Sprintf(" AND b.status = $%d", len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		sql += fmt.Sprintf(" AND (b.origin ILIKE $%d OR b.destination ILIKE $%d OR b.driver ILIKE $%d)", n, n, n)
	}
	sql += " ORDER BY " + clause

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list rides: %w", err)
	}
	defer rows.Close()

	var out []Ride
	for rows.Next() {
		r, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Ride(ctx context.Context, userID, id types.ID) (Ride, error) {
	row := s.pool.QueryRow(ctx, `SELECT`+rideColumns+`
		FROM bookings b
		LEFT JOIN ride_feedback f ON f.booking_id = b.id
		WHERE b.user_id = $1 AND b.id = $2`, string(userID), string(id))
	r, err := scanRide(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ride{}, ErrRideNotFound
	}
	return r, err
}

func (s *Store) SaveFeedback(ctx context.Context, userID types.ID, fb Feedback) error {
	tag, err := s.pool.Exec(ctx, `INSERT INTO ride_feedback (booking_id, rating, comment)
		SELECT b.id, $3, $4 FROM bookings b
		WHERE b.id = $1 AND b.user_id = $2
		ON CONFLICT (booking_id) DO NOTHING`,
		string(fb.RideID), string(userID), fb.Rating, fb.Comment)
	if err != nil {
		return fmt.Errorf("save feedback: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Either the ride does not exist for this rider or it was already
		// rated; disambiguate so the handler can answer precisely.
		if _, lookupErr := s.Ride(ctx, userID, fb.RideID); lookupErr != nil {
			return lookupErr
		}
		return ErrAlreadyRated
	}
	return nil
}

func scanRide(row pgx.Row) (Ride, error) {
	var r Ride
	err := row.Scan(&r.ID, &r.Date, &r.Origin, &r.Destination,
		&r.Amount.Amount, &r.Amount.Currency, &r.Driver, &r.Status, &r.PaymentMethod,
		&r.Rating, &r.Comment)
	return r, err
}
