// README: Payment-intent provider client; the only outbound call of checkout.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrInvalidAmount = errors.New("invalid payment amount")
	ErrProvider      = errors.New("payment provider failure")
)

type Client struct {
	url   string
	httpc *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url:   url,
		httpc: &http.Client{Timeout: 10 * time.Second},
	}
}

type intentRequest struct {
	Amount int64 `json:"amount"`
}

type intentResponse struct {
	ClientSecret string `json:"clientSecret"`
	Error        string `json:"error"`
}

// CreateIntent asks the provider for a payment intent over the given amount
// in minor units. Non-positive amounts are rejected before any network call.
// Failures are surfaced to the caller; retrying is the caller's decision.
func (c *Client) CreateIntent(ctx context.Context, amountMinorUnits int64) (string, error) {
	if amountMinorUnits <= 0 {
		return "", ErrInvalidAmount
	}

	body, err := json.Marshal(intentRequest{Amount: amountMinorUnits})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	var out intentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && resp.StatusCode == http.StatusOK {
		return "", fmt.Errorf("%w: bad response body: %v", ErrProvider, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		if out.ClientSecret == "" {
			return "", fmt.Errorf("%w: missing client secret", ErrProvider)
		}
		return out.ClientSecret, nil
	case resp.StatusCode == http.StatusBadRequest:
		return "", fmt.Errorf("%w: %s", ErrInvalidAmount, out.Error)
	default:
		return "", fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, out.Error)
	}
}
