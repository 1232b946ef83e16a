// README: Offer store backed by Redis hashes with per-route TTL.
package rideshare

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"fareline/internal/types"
)

const routeKeyPrefix = "rideshare:route:%s"

type Store struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{redis: rdb, ttl: ttl}
}

func (s *Store) Offers(ctx context.Context, origin, destination string) ([]Offer, error) {
	vals, err := s.redis.HGetAll(ctx, routeKey(origin, destination)).Result()
	if err != nil {
		return nil, err
	}
	offers := make([]Offer, 0, len(vals))
	for _, raw := range vals {
		var o Offer
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			continue // skip corrupt entries rather than failing the listing
		}
		offers = append(offers, o)
	}
	return offers, nil
}

func (s *Store) Save(ctx context.Context, origin, destination string, o Offer) error {
	raw, err := json.Marshal(o)
	if err != nil {
		return err
	}
	key := routeKey(origin, destination)
	pipe := s.redis.Pipeline()
	pipe.HSet(ctx, key, string(o.ID), raw)
	pipe.Expire(ctx, key, s.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// RouteOfferID derives a stable offer id from the route and a slot index, so
// the demo seeder stays idempotent per route.
func RouteOfferID(origin, destination string, slot int) types.ID {
	return types.ID(fmt.Sprintf("%s-%d", routeHash(origin, destination), slot))
}

func routeKey(origin, destination string) string {
	return fmt.Sprintf(routeKeyPrefix, routeHash(origin, destination))
}

func routeHash(origin, destination string) string {
	h := sha1.Sum([]byte(strings.ToLower(strings.TrimSpace(origin)) + "|" + strings.ToLower(strings.TrimSpace(destination))))
	return hex.EncodeToString(h[:8])
}
