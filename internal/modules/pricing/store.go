// README: Vehicle rate store backed by PostgreSQL; overrides the built-in catalog.
package pricing

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRateNotFound = errors.New("vehicle rate not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// GetRate returns the per-kilometer rate override for a vehicle class, if one
// has been configured in the database.
func (s *Store) GetRate(ctx context.Context, vehicleID string) (VehicleClass, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, name, per_km_rate, currency
		FROM vehicle_rates
		WHERE id = $1 AND is_active`, vehicleID,
	)
	var vc VehicleClass
	err := row.Scan(&vc.ID, &vc.Name, &vc.PerKmRate, &vc.Currency)
	if errors.Is(err, pgx.ErrNoRows) {
		return VehicleClass{}, ErrRateNotFound
	}
	if err != nil {
		return VehicleClass{}, err
	}
	return vc, nil
}
