// README: Pricing service computes fare quotes from route metrics.
package pricing

import (
	"context"
	"errors"
	"math"

	"fareline/internal/maps"
)

var (
	ErrNoRoute        = errors.New("no route available")
	ErrInvalidInput   = errors.New("invalid route metrics")
	ErrInvalidRate    = errors.New("invalid vehicle rate")
	ErrUnknownVehicle = errors.New("unknown vehicle class")
)

const (
	baseFareFloor     = 2.5
	timeRateFraction  = 0.5
	trafficMultiplier = 1.1
)

type Service struct {
	store   *Store
	catalog *Catalog
}

func NewService(store *Store, catalog *Catalog) *Service {
	return &Service{store: store, catalog: catalog}
}

// Quote prices a route at the given per-kilometer rate. It is pure: same
// inputs always produce the same fare, and a missing route is an error,
// never a zero fare.
func (s *Service) Quote(route *maps.Metrics, ratePerKm float64) (Fare, error) {
	if route == nil {
		return Fare{}, ErrNoRoute
	}
	if !finiteNonNegative(route.DistanceKm) || !finiteNonNegative(route.DurationMinutes) {
		return Fare{}, ErrInvalidInput
	}
	if ratePerKm <= 0 || math.IsNaN(ratePerKm) || math.IsInf(ratePerKm, 0) {
		return Fare{}, ErrInvalidRate
	}

	distanceComponent := route.DistanceKm * ratePerKm
	timeComponent := (route.DurationMinutes / 60) * ratePerKm * timeRateFraction
	total := (baseFareFloor + distanceComponent + timeComponent) * trafficMultiplier

	return Fare{Amount: total}, nil
}

// QuoteVehicle resolves the vehicle class (database rate override first, then
// the static catalog) and prices the route with it.
func (s *Service) QuoteVehicle(ctx context.Context, route *maps.Metrics, vehicleID string) (Fare, VehicleClass, error) {
	vc, err := s.resolveVehicle(ctx, vehicleID)
	if err != nil {
		return Fare{}, VehicleClass{}, err
	}
	fare, err := s.Quote(route, vc.PerKmRate)
	if err != nil {
		return Fare{}, vc, err
	}
	fare.Currency = vc.Currency
	return fare, vc, nil
}

// Vehicles lists the selectable vehicle classes.
func (s *Service) Vehicles() []VehicleClass {
	return s.catalog.List()
}

func (s *Service) resolveVehicle(ctx context.Context, vehicleID string) (VehicleClass, error) {
	if vehicleID == "" {
		return VehicleClass{}, ErrUnknownVehicle
	}
	if s.store != nil {
		vc, err := s.store.GetRate(ctx, vehicleID)
		if err == nil {
			return vc, nil
		}
		if !errors.Is(err, ErrRateNotFound) {
			return VehicleClass{}, err
		}
	}
	vc, ok := s.catalog.Get(vehicleID)
	if !ok {
		return VehicleClass{}, ErrUnknownVehicle
	}
	return vc, nil
}

func finiteNonNegative(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
