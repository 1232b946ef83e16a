// README: In-app booking assistant abstraction.
package assist

import "context"

// Suggestion is the structured output of the assistant for one rider message.
type Suggestion struct {
	// Intent is the rider's primary goal: "book", "fare_question",
	// "share_question" or "chat".
	Intent string `json:"intent"`

	// Destination extracted from the message, when the rider named one.
	Destination *string `json:"destination,omitempty"`

	// VehicleClass is a catalog id ("economy", "comfort", "xl", "premium")
	// when the message implies a preference.
	VehicleClass *string `json:"vehicleClass,omitempty"`

	// Reply is a short answer shown in the chat panel.
	Reply string `json:"reply"`
}

// Responder turns a free-form rider message plus app context into a
// Suggestion. Implementations may call an external model or answer locally.
type Responder interface {
	Respond(ctx context.Context, message string, appContext map[string]string) (*Suggestion, error)
}
