package identity

import (
	"context"
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
)

// Directory is the upstream user API. Satisfied by *Provider.
type Directory interface {
	Login(ctx context.Context, username, password string) (Profile, error)
	Register(ctx context.Context, nu NewUser) (Profile, error)
}

// Cache is the local profile store. Satisfied by *Store.
type Cache interface {
	Save(ctx context.Context, p Profile, passwordHash []byte) error
	Lookup(ctx context.Context, username string) (Profile, []byte, error)
}

// TokenIssuer mints session tokens for authenticated riders.
type TokenIssuer interface {
	Issue(uid string, extra map[string]interface{}) (string, error)
}

// Session is a signed-in rider.
type Session struct {
	Token   string  `json:"token"`
	Profile Profile `json:"profile"`
}

type Service struct {
	directory Directory
	cache     Cache
	tokens    TokenIssuer
}

func NewService(directory Directory, cache Cache, tokens TokenIssuer) *Service {
	return &Service{directory: directory, cache: cache, tokens: tokens}
}

// Login authenticates against the upstream directory and falls back to the
// local cache when the directory is unreachable. Bad credentials never fall
// back: only transport failures do.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	p, err := s.directory.Login(ctx, username, password)
	switch {
	case err == nil:
		s.cacheProfile(ctx, p, password)
	case errors.Is(err, ErrInvalidCredentials):
		return Session{}, ErrInvalidCredentials
	default:
		cached, hash, lookupErr := s.cache.Lookup(ctx, username)
		if lookupErr != nil {
			return Session{}, err
		}
		if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
			return Session{}, ErrInvalidCredentials
		}
		p = cached
	}
	return s.session(p)
}

// Register creates the account upstream, caches it, and signs the rider in.
func (s *Service) Register(ctx context.Context, nu NewUser) (Session, error) {
	p, err := s.directory.Register(ctx, nu)
	if err != nil {
		return Session{}, err
	}
	s.cacheProfile(ctx, p, nu.Password)
	return s.session(p)
}

func (s *Service) session(p Profile) (Session, error) {
	token, err := s.tokens.Issue(string(p.ID), map[string]interface{}{
		"username": p.Username,
	})
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Profile: p}, nil
}

func (s *Service) cacheProfile(ctx context.Context, p Profile, password string) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return
	}
	if err := s.cache.Save(ctx, p, hash); err != nil {
		log.Printf("identity: caching profile %s: %v", p.Username, err)
	}
}
