package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// DefaultKeyPrefix namespaces session keys in Redis.
const DefaultKeyPrefix = "sessionkit:session:"

// RedisStore implements Store on Redis. Values are stored as a JSON object
// with the TTL as the key expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix sets the key prefix.
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// NewRedisStore creates a store on top of an existing client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: DefaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the Redis key for id.
func (s *RedisStore) Key(id string) string {
	return s.prefix + id
}

// Load reads and decodes the values stored under id.
func (s *RedisStore) Load(ctx context.Context, id string) (*session.Data, error) {
	if id == "" {
		return nil, ErrInvalidID
	}

	payload, err := s.client.Get(ctx, s.Key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sessionstore: load %s: %w", id, err)
	}

	var values map[string]any
	if err := json.Unmarshal(payload, &values); err != nil {
		return nil, errors.Join(ErrEncoding, err)
	}
	return session.NewDataFrom(values)
}

// Save encodes values as JSON and stores them with ttl.
func (s *RedisStore) Save(ctx context.Context, id string, values map[string]any, ttl time.Duration) error {
	if id == "" {
		return ErrInvalidID
	}
	if ttl < 0 {
		ttl = 0
	}

	payload, err := json.Marshal(values)
	if err != nil {
		return errors.Join(ErrEncoding, err)
	}

	if err := s.client.Set(ctx, s.Key(id), payload, ttl).Err(); err != nil {
		return fmt.Errorf("sessionstore: save %s: %w", id, err)
	}
	return nil
}

// Delete removes id.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.Key(id)).Err(); err != nil {
		return fmt.Errorf("sessionstore: delete %s: %w", id, err)
	}
	return nil
}
