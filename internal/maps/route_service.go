package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Metrics describes the route between two resolved endpoints. A trip with
// unresolved endpoints has no Metrics at all; callers never see zeroed values.
type Metrics struct {
	DistanceKm      float64
	DurationMinutes float64
	Origin          string
	Destination     string
}

// RouteService handles interactions with the Google Maps Directions API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// GetRouteMetrics resolves the driving route from origin to destination and
// returns its distance and duration.
func (s *RouteService) GetRouteMetrics(ctx context.Context, origin, destination string) (*Metrics, error) {
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("origin and destination are required")
	}

	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
	}

	routes, _, err := s.client.Directions(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return nil, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	return &Metrics{
		DistanceKm:      float64(leg.Distance.Meters) / 1000.0,
		DurationMinutes: leg.Duration.Minutes(),
		Origin:          leg.StartAddress,
		Destination:     leg.EndAddress,
	}, nil
}
