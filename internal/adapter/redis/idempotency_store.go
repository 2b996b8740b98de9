// Package redis keeps the ledger's idempotency records. Keys are laid out as
//
//	inventory:idempotency:<key>          "processing" while a reserve runs, then the reservation id
//	inventory:idempotency:release:<key>  id of the reservation the release applied to
//
// Both values expire after IDEMPOTENCY_KEY_TTL.
package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "inventory:idempotency:"

var ErrKeyNotFound = errors.New("idempotency key not found")

// IdempotencyStore remembers reserve and release calls by caller-supplied key
// so that a retry resolves to the reservation the first call produced.
type IdempotencyStore struct {
	client redis.UniversalClient
	prefix string
}

func NewIdempotencyStore(client redis.UniversalClient, prefix string) *IdempotencyStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &IdempotencyStore{
		client: client,
		prefix: prefix,
	}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *IdempotencyStore) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return s.client.SetNX(ctx, s.prefix+key, value, ttl).Result()
}

func (s *IdempotencyStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+key, value, ttl).Err()
}

func (s *IdempotencyStore) Del(ctx context.Context, key string) error {
	return s.client.Del(ctx, s.prefix+key).Err()
}

// Ping reports whether Redis is reachable; used by the readiness probe.
func (s *IdempotencyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
