package redis

import (
	"context"
	"time"
)

// NoopIdempotencyStore accepts every key and remembers none. Retried reserve
// calls are not de-duplicated while it is in use.
type NoopIdempotencyStore struct{}

func NewNoopIdempotencyStore() *NoopIdempotencyStore {
	return &NoopIdempotencyStore{}
}

func (s *NoopIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	return "", ErrKeyNotFound
}

func (s *NoopIdempotencyStore) SetNX(ctx context.Context, key string, value string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (s *NoopIdempotencyStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return nil
}

func (s *NoopIdempotencyStore) Del(ctx context.Context, key string) error {
	return nil
}

func (s *NoopIdempotencyStore) Ping(ctx context.Context) error {
	return nil
}
