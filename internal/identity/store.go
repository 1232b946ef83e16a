package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store caches profiles and bcrypt password hashes locally so sign-in keeps
// working when the upstream directory is unreachable.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Save(ctx context.Context, p Profile, passwordHash []byte) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO profiles
		(id, username, email, first_name, last_name, image, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (username) DO UPDATE SET
			email = EXCLUDED.email,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			image = EXCLUDED.image,
			password_hash = EXCLUDED.password_hash`,
		string(p.ID), p.Username, p.Email, p.FirstName, p.LastName, p.Image, passwordHash)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *Store) Lookup(ctx context.Context, username string) (Profile, []byte, error) {
	var p Profile
	var hash []byte
	err := s.pool.QueryRow(ctx, `SELECT id, username, email, first_name, last_name, image, password_hash
		FROM profiles WHERE username = $1`, username).
		Scan(&p.ID, &p.Username, &p.Email, &p.FirstName, &p.LastName, &p.Image, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, nil, ErrUnknownUser
	}
	if err != nil {
		return Profile{}, nil, fmt.Errorf("lookup profile: %w", err)
	}
	return p, hash, nil
}
