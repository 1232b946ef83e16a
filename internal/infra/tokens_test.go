package infra

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	raw, err := m.Issue("rider-7", map[string]interface{}{"username": "emilys"})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	tok, err := m.VerifyToken(context.Background(), raw)
	if err != nil {
		t.Fatalf("VerifyToken() error = %v", err)
	}
	if tok.UID != "rider-7" {
		t.Errorf("uid = %q, want rider-7", tok.UID)
	}
	if tok.Claims["username"] != "emilys" {
		t.Errorf("username claim = %v", tok.Claims["username"])
	}
}

func TestTokenManager_RejectsForeignSignature(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Hour)
	verifier := NewTokenManager("secret-b", time.Hour)

	raw, err := issuer.Issue("rider-7", nil)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := verifier.VerifyToken(context.Background(), raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", -time.Minute)
	raw, err := m.Issue("rider-7", nil)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if _, err := m.VerifyToken(context.Background(), raw); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	if _, err := m.VerifyToken(context.Background(), "not.a.jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("VerifyToken() error = %v, want ErrInvalidToken", err)
	}
}
