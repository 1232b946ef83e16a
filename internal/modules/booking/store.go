// README: Booking record store backed by PostgreSQL; append-only.
package booking

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fareline/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, r *Record) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO bookings (
			id, user_id, origin, destination, vehicle_class,
			amount, currency, distance_km, duration_min, discount_pct,
			driver, payment_method, status, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8, $9, $10,
			$11, $12, $13, $14
		)`,
		string(r.ID),
		string(r.UserID),
		r.Origin, r.Destination, r.VehicleClass,
		r.Amount.Amount, r.Amount.Currency,
		r.DistanceKm, r.DurationMin, r.DiscountPct,
		r.Driver, r.PaymentMethod, string(r.Status), r.CreatedAt,
	)
	return err
}

func (s *Store) Get(ctx context.Context, id types.ID) (*Record, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, origin, destination, vehicle_class,
		       amount, currency, distance_km, duration_min, discount_pct,
		       driver, payment_method, status, created_at
		FROM bookings
		WHERE id = $1`, string(id),
	)
	var r Record
	err := row.Scan(
		&r.ID, &r.UserID, &r.Origin, &r.Destination, &r.VehicleClass,
		&r.Amount.Amount, &r.Amount.Currency,
		&r.DistanceKm, &r.DurationMin, &r.DiscountPct,
		&r.Driver, &r.PaymentMethod, &r.Status, &r.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}
