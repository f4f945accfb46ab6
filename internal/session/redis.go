package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each session in one Redis hash whose TTL is refreshed on
// every write.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a new Redis-backed session store
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

// Get returns one value of a session
func (s *RedisStore) Get(ctx context.Context, sid string, key Key) (string, bool, error) {
	if err := validate(sid, key); err != nil {
		return "", false, err
	}
	v, err := s.client.HGet(ctx, RedisKey(sid), string(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get session value: %w", err)
	}
	return v, true, nil
}

// Set stores a value and refreshes the session TTL
func (s *RedisStore) Set(ctx context.Context, sid string, key Key, value string) error {
	if err := validate(sid, key); err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, RedisKey(sid), string(key), value)
	pipe.Expire(ctx, RedisKey(sid), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save session value: %w", err)
	}
	return nil
}

// Delete removes one value
func (s *RedisStore) Delete(ctx context.Context, sid string, key Key) error {
	if err := validate(sid, key); err != nil {
		return err
	}
	if err := s.client.HDel(ctx, RedisKey(sid), string(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session value: %w", err)
	}
	return nil
}

// All returns every value of a session
func (s *RedisStore) All(ctx context.Context, sid string) (map[Key]string, error) {
	if sid == "" {
		return nil, ErrInvalidID
	}
	raw, err := s.client.HGetAll(ctx, RedisKey(sid)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	out := make(map[Key]string, len(raw))
	for k, v := range raw {
		out[Key(k)] = v
	}
	return out, nil
}

// Clear removes the whole session (logout)
func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	if sid == "" {
		return ErrInvalidID
	}
	if err := s.client.Del(ctx, RedisKey(sid)).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// Ping checks the Redis connection
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
