package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fareline/internal/infra"
)

type memoryCache struct {
	profiles map[string]Profile
	hashes   map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{profiles: map[string]Profile{}, hashes: map[string][]byte{}}
}

func (m *memoryCache) Save(_ context.Context, p Profile, hash []byte) error {
	m.profiles[p.Username] = p
	m.hashes[p.Username] = hash
	return nil
}

func (m *memoryCache) Lookup(_ context.Context, username string) (Profile, []byte, error) {
	p, ok := m.profiles[username]
	if !ok {
		return Profile{}, nil, ErrUnknownUser
	}
	return p, m.hashes[username], nil
}

func newDirectoryServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Username != "emilys" || req.Password != "emilyspass" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid credentials"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 1, "username": "emilys", "email": "emily@x.com",
			"firstName": "Emily", "lastName": "Johnson",
		})
	})
	mux.HandleFunc("/users/add", func(w http.ResponseWriter, r *http.Request) {
		var req NewUser
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 209, "username": req.Username, "email": req.Email,
			"firstName": req.FirstName, "lastName": req.LastName,
		})
	})
	return httptest.NewServer(mux)
}

func newTestService(t *testing.T, baseURL string, cache Cache) (*Service, *infra.TokenManager) {
	t.Helper()
	tm := infra.NewTokenManager("test-secret", time.Hour)
	return NewService(NewProvider(baseURL), cache, tm), tm
}

func TestService_Login(t *testing.T) {
	srv := newDirectoryServer(t)
	defer srv.Close()

	cache := newMemoryCache()
	svc, tm := newTestService(t, srv.URL, cache)
	ctx := context.Background()

	sess, err := svc.Login(ctx, "emilys", "emilyspass")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if sess.Profile.Username != "emilys" || sess.Profile.ID != "1" {
		t.Errorf("unexpected profile %+v", sess.Profile)
	}

	tok, err := tm.VerifyToken(ctx, sess.Token)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if tok.UID != "1" {
		t.Errorf("token uid = %q, want 1", tok.UID)
	}

	if _, ok := cache.profiles["emilys"]; !ok {
		t.Error("login did not cache the profile")
	}
}

func TestService_Login_BadCredentials(t *testing.T) {
	srv := newDirectoryServer(t)
	defer srv.Close()

	svc, _ := newTestService(t, srv.URL, newMemoryCache())
	if _, err := svc.Login(context.Background(), "emilys", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_Login_FallsBackToCache(t *testing.T) {
	srv := newDirectoryServer(t)
	cache := newMemoryCache()
	svc, _ := newTestService(t, srv.URL, cache)
	ctx := context.Background()

	if _, err := svc.Login(ctx, "emilys", "emilyspass"); err != nil {
		t.Fatalf("warm-up login error = %v", err)
	}

	// Directory goes away; the cached credentials still work.
	srv.Close()

	sess, err := svc.Login(ctx, "emilys", "emilyspass")
	if err != nil {
		t.Fatalf("offline login error = %v", err)
	}
	if sess.Profile.Username != "emilys" {
		t.Errorf("offline profile = %+v", sess.Profile)
	}

	// A wrong password must not slip through the fallback.
	if _, err := svc.Login(ctx, "emilys", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("offline bad-password error = %v, want ErrInvalidCredentials", err)
	}
}

func TestService_Register(t *testing.T) {
	srv := newDirectoryServer(t)
	defer srv.Close()

	cache := newMemoryCache()
	svc, _ := newTestService(t, srv.URL, cache)

	sess, err := svc.Register(context.Background(), NewUser{
		Username: "newrider", Password: "pw12345",
		Email: "n@x.com", FirstName: "New", LastName: "Rider",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if sess.Profile.ID != "209" || sess.Token == "" {
		t.Errorf("unexpected session %+v", sess)
	}
	if _, ok := cache.profiles["newrider"]; !ok {
		t.Error("register did not cache the profile")
	}
}
