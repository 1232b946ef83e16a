package assist

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiResponder answers rider messages with Google's Gemini models.
type GeminiResponder struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiResponder(ctx context.Context, apiKey string) (*GeminiResponder, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	// Flash keeps chat latency and cost low.
	model := client.GenerativeModel("gemini-2.0-flash")
	model.ResponseMIMEType = "application/json"
	model.SetTemperature(0.4)

	return &GeminiResponder{client: client, model: model}, nil
}

func (g *GeminiResponder) Close() {
	g.client.Close()
}

func (g *GeminiResponder) Respond(ctx context.Context, message string, appContext map[string]string) (*Suggestion, error) {
	prompt := buildPrompt(appContext) + "\n\nRider message: " + message

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no response candidates from gemini")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			text.WriteString(string(txt))
		}
	}

	var s Suggestion
	if err := json.Unmarshal([]byte(stripFences(text.String())), &s); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	if s.Reply == "" {
		return nil, fmt.Errorf("empty reply from gemini")
	}
	return &s, nil
}

func buildPrompt(appContext map[string]string) string {
	var b strings.Builder
	b.WriteString(`You are the in-app assistant of a ride-booking service.
Answer riders briefly and helpfully. Respond with a single JSON object:
{"intent": "book"|"fare_question"|"share_question"|"chat",
 "destination": string or null,
 "vehicleClass": "economy"|"comfort"|"xl"|"premium" or null,
 "reply": string}
Fares are base fare plus distance and time at the vehicle's rate, with a
traffic adjustment. Shared rides split the fare evenly across the party.`)
	if len(appContext) > 0 {
		b.WriteString("\n\nCurrent app context:")
		for k, v := range appContext {
			fmt.Fprintf(&b, "\n- %s: %s", k, v)
		}
	}
	return b.String()
}

// stripFences removes markdown code fences models sometimes wrap around JSON.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
