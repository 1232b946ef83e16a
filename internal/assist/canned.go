package assist

import (
	"context"
	"strings"
)

// CannedResponder answers with fixed keyword rules. It backs the assistant
// when no model API key is configured and keeps tests deterministic.
type CannedResponder struct{}

func NewCannedResponder() *CannedResponder {
	return &CannedResponder{}
}

func (CannedResponder) Respond(_ context.Context, message string, _ map[string]string) (*Suggestion, error) {
	lower := strings.ToLower(message)

	switch {
	case strings.Contains(lower, "share") || strings.Contains(lower, "split"):
		return &Suggestion{
			Intent: "share_question",
			Reply:  "Shared rides split the fare evenly: with one co-rider you each pay half, with three you pay a quarter. Open a quote and tap Share Ride to see offers on your route.",
		}, nil
	case strings.Contains(lower, "fare") || strings.Contains(lower, "price") || strings.Contains(lower, "cost"):
		return &Suggestion{
			Intent: "fare_question",
			Reply:  "Fares start from a base charge plus per-kilometer and per-minute components at your vehicle's rate. Pick a route and vehicle to see an exact quote.",
		}, nil
	case strings.Contains(lower, "book") || strings.Contains(lower, "ride to"):
		vc := "economy"
		return &Suggestion{
			Intent:       "book",
			VehicleClass: &vc,
			Reply:        "Sure. Set your pickup and destination and I'll quote an economy ride; you can switch vehicle class before checkout.",
		}, nil
	default:
		return &Suggestion{
			Intent: "chat",
			Reply:  "I can help you book a ride, explain fares, or find shared rides on your route. What do you need?",
		}, nil
	}
}
