package maps

import (
	"context"
	"os"
	"testing"
)

// Live API tests run only when a key is present in the environment.
func liveClientKey(t *testing.T) string {
	t.Helper()
	key := os.Getenv("FARELINE_MAPS_API_KEY")
	if key == "" {
		t.Skip("FARELINE_MAPS_API_KEY not set; skipping live maps test")
	}
	return key
}

func TestGetRouteMetrics_Validation(t *testing.T) {
	s := &RouteService{}
	if _, err := s.GetRouteMetrics(context.Background(), "", "Airport"); err == nil {
		t.Error("expected error for empty origin")
	}
	if _, err := s.GetRouteMetrics(context.Background(), "Downtown", ""); err == nil {
		t.Error("expected error for empty destination")
	}
}

func TestGetRouteMetrics_Live(t *testing.T) {
	s, err := NewRouteService(liveClientKey(t))
	if err != nil {
		t.Fatalf("NewRouteService() error = %v", err)
	}
	m, err := s.GetRouteMetrics(context.Background(), "Taipei Main Station", "Taoyuan International Airport")
	if err != nil {
		t.Fatalf("GetRouteMetrics() error = %v", err)
	}
	if m.DistanceKm <= 0 || m.DurationMinutes <= 0 {
		t.Errorf("implausible metrics: %+v", m)
	}
}

func TestSuggest_Live(t *testing.T) {
	s, err := NewPlacesService(liveClientKey(t))
	if err != nil {
		t.Fatalf("NewPlacesService() error = %v", err)
	}
	got, err := s.Suggest(context.Background(), "Taipei 101")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if len(got) == 0 {
		t.Error("expected at least one suggestion")
	}
}

func TestSuggest_EmptyInput(t *testing.T) {
	s := &PlacesService{}
	got, err := s.Suggest(context.Background(), "")
	if err != nil || got != nil {
		t.Errorf("Suggest(\"\") = %v, %v; want nil, nil", got, err)
	}
}
