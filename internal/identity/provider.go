// README: Identity provider client and local credential cache.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"fareline/internal/types"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnknownUser        = errors.New("unknown user")
	ErrProvider           = errors.New("identity provider failure")
)

// Profile is the rider identity shared with the rest of the system.
type Profile struct {
	ID        types.ID `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Image     string   `json:"image,omitempty"`
}

// NewUser is a signup request forwarded to the provider.
type NewUser struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Provider talks to the upstream user directory. The wire shape follows the
// dummyjson-style API the product was originally built against.
type Provider struct {
	baseURL string
	httpc   *http.Client
}

func NewProvider(baseURL string) *Provider {
	return &Provider{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: 10 * time.Second},
	}
}

type providerUser struct {
	ID        json.Number `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Image     string      `json:"image"`
	Message   string      `json:"message"`
}

func (p *Provider) Login(ctx context.Context, username, password string) (Profile, error) {
	body := map[string]string{"username": username, "password": password}
	u, err := p.post(ctx, "/auth/login", body)
	if err != nil {
		return Profile{}, err
	}
	return u.profile(), nil
}

func (p *Provider) Register(ctx context.Context, nu NewUser) (Profile, error) {
	u, err := p.post(ctx, "/users/add", nu)
	if err != nil {
		return Profile{}, err
	}
	return u.profile(), nil
}

func (p *Provider) post(ctx context.Context, path string, body any) (providerUser, error) {
	var u providerUser

	raw, err := json.Marshal(body)
	if err != nil {
		return u, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return u, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpc.Do(req)
	if err != nil {
		return u, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil && resp.StatusCode < 300 {
		return u, fmt.Errorf("%w: bad response body: %v", ErrProvider, err)
	}
	switch {
	case resp.StatusCode < 300:
		return u, nil
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized:
		return u, ErrInvalidCredentials
	default:
		return u, fmt.Errorf("%w: status %d: %s", ErrProvider, resp.StatusCode, u.Message)
	}
}

func (u providerUser) profile() Profile {
	return Profile{
		ID:        types.ID(u.ID.String()),
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Image:     u.Image,
	}
}
