package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MeiJie12/siwesession/core"
	"github.com/MeiJie12/siwesession/ports"
)

const defaultSessionKey = "siwesession:session"

// RedisStore is a Redis implementation of the SessionStore interface.
// The session is stored as a JSON blob under a single key without a TTL:
// expiry is the client's concern and stale sessions are only ever
// replaced by the next login's write.
type RedisStore struct {
	client *redis.Client
	key    string
}

var _ ports.SessionStore = (*RedisStore)(nil)

// NewRedisStore creates a new Redis store on an existing client
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		key:    defaultSessionKey,
	}
}

// NewRedisStoreWithKey creates a Redis store using a custom session key,
// for running several clients against one Redis instance
func NewRedisStoreWithKey(client *redis.Client, key string) *RedisStore {
	return &RedisStore{
		client: client,
		key:    key,
	}
}

// Load returns the stored session
func (s *RedisStore) Load(ctx context.Context) (core.Session, error) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return core.Session{}, core.ErrNoSession
		}
		return core.Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	var session core.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return core.Session{}, fmt.Errorf("failed to decode session: %w", err)
	}

	return session, nil
}

// Save overwrites the stored session
func (s *RedisStore) Save(ctx context.Context, session core.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}

	return nil
}
