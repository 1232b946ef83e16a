package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Suggestion is one address completion for a partial search input.
type Suggestion struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}

// PlacesService handles interactions with the Google Places Autocomplete API.
type PlacesService struct {
	client *maps.Client
}

func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// Suggest completes a partial address. Empty input yields no suggestions
// rather than an error so the search box can call it on every keystroke.
func (s *PlacesService) Suggest(ctx context.Context, input string) ([]Suggestion, error) {
	if input == "" {
		return nil, nil
	}

	resp, err := s.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input: input,
		Types: maps.AutocompletePlaceTypeGeocode,
	})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}

	out := make([]Suggestion, 0, len(resp.Predictions))
	for _, p := range resp.Predictions {
		out = append(out, Suggestion{Description: p.Description, PlaceID: p.PlaceID})
	}
	return out, nil
}
