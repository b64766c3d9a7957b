// Package session provides the Redis-backed record of each user's single
// active token. At most one record exists per user: registering a new token
// overwrites the previous one, which implicitly revokes any earlier token
// even if it has not expired yet.
package session

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "user_token:"

// redisAPI is the subset of *redis.Client used by the store. Kept narrow so
// tests can substitute a fake.
type redisAPI interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Store keeps session records in Redis. Every operation is a single keyed
// round-trip; Redis guarantees per-key atomicity for the primitives used.
type Store struct {
	rdb redisAPI
}

// NewStore constructs a Store over the given Redis client.
func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// Register unconditionally overwrites the record for userID with the new
// token. The record expires together with the token, so cache eviction and
// token expiry stay in sync.
func (s *Store) Register(ctx context.Context, userID, token string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, sessionKey(userID), token, ttl).Err(); err != nil {
		return fmt.Errorf("session register: %w", err)
	}
	return nil
}

// Validate reports whether a record exists for userID and its stored token
// equals the presented one. A record holding a different token (superseded
// by a later login) fails validation even though it is itself unexpired.
// Store round-trip errors are returned so callers can fail closed.
func (s *Store) Validate(ctx context.Context, userID, token string) (bool, error) {
	stored, err := s.rdb.Get(ctx, sessionKey(userID)).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("session lookup: %w", err)
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(token)) == 1, nil
}

// Revoke deletes the record for userID. Deleting an absent record is not an
// error.
func (s *Store) Revoke(ctx context.Context, userID string) error {
	if err := s.rdb.Del(ctx, sessionKey(userID)).Err(); err != nil {
		return fmt.Errorf("session revoke: %w", err)
	}
	return nil
}

func sessionKey(userID string) string {
	return keyPrefix + userID
}
