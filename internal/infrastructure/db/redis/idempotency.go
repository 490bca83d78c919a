package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	pendingTTL            = time.Minute
	pendingMarker         = "pending"
)

// IdempotencyStore remembers which sale an Idempotency-Key produced.
// Key format: idem:sale:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. A non-positive ttl falls back to 24h.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key with a pending marker. When another request holds it,
// the stored sale id is returned, or 0 while that request is still running.
// The marker expires after pendingTTL so a crashed request cannot hold the
// key for the full ttl.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (int64, bool, error) {
	k := s.key(key)
	for range 2 {
		ok, err := s.client.SetNX(ctx, k, pendingMarker, pendingTTL).Result()
		if err != nil {
			return 0, false, fmt.Errorf("idempotency reserve: %w", err)
		}
		if ok {
			return 0, true, nil
		}

		raw, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			// expired between SETNX and GET
			continue
		}
		if err != nil {
			return 0, false, fmt.Errorf("idempotency reserve: %w", err)
		}
		return parseSaleID(raw)
	}
	return 0, false, nil
}

// Complete replaces the pending marker with saleID for the full ttl.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, saleID int64) error {
	if err := s.client.Set(ctx, s.key(key), strconv.FormatInt(saleID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a reservation whose request failed so the key can be retried.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func parseSaleID(raw string) (int64, bool, error) {
	if raw == pendingMarker {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false, fmt.Errorf("idempotency reserve: corrupt value %q", raw)
	}
	return id, false, nil
}

func (s *IdempotencyStore) key(key string) string {
	return "idem:sale:" + key
}
