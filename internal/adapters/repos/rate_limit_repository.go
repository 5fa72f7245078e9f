package repos

import (
	"context"
	"time"

	"github.com/throttled/throttled/v2"
)

const (
	rateLimitKeyPrefix = "loaner:ratelimit:"
)

// Int64Store is the subset of a Redis-compatible client the GCRA limiter needs.
type Int64Store interface {
	GetInt64(ctx context.Context, key string) (int64, time.Time, error)
	SetInt64NX(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error)
	CompareAndSwapInt64(ctx context.Context, key string, old, new int64, ttl time.Duration) (bool, error)
}

// RateLimitStore implements throttled.GCRAStoreCtx on a shared cache so
// every replica draws from the same quota.
type RateLimitStore struct {
	client Int64Store
	prefix string
}

var _ throttled.GCRAStoreCtx = (*RateLimitStore)(nil)

func NewRateLimitStore(client Int64Store) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		prefix: rateLimitKeyPrefix,
	}
}

func (s *RateLimitStore) GetWithTime(ctx context.Context, key string) (int64, time.Time, error) {
	value, at, err := s.client.GetInt64(ctx, s.prefix+key)
	if err != nil {
		return 0, time.Time{}, err
	}

	// throttled treats a negative value as a missing key.
	if at.IsZero() {
		return -1, time.Now(), nil
	}

	return value, at, nil
}

func (s *RateLimitStore) SetIfNotExistsWithTTL(ctx context.Context, key string, value int64, ttl time.Duration) (bool, error) {
	return s.client.SetInt64NX(ctx, s.prefix+key, value, ttl)
}

func (s *RateLimitStore) CompareAndSwapWithTTL(ctx context.Context, key string, old, new int64, ttl time.Duration) (bool, error) {
	return s.client.CompareAndSwapInt64(ctx, s.prefix+key, old, new, ttl)
}
