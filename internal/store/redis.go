package store

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps secrets as plain strings and rooms as RedisJSON documents.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(ctx context.Context, redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	// JSON.GET replies are read as bulk strings.
	opts.Protocol = 2

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return &RedisStore{client: client}, nil
}

// Client exposes the underlying client for the rate limiter.
func (s *RedisStore) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Backend() string { return "redis" }

// GetString returns the string at key.
func (s *RedisStore) GetString(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return val, err
}

// SetString stores value at key without expiry.
func (s *RedisStore) SetString(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

// SetStringIfAbsent stores value with SET NX.
func (s *RedisStore) SetStringIfAbsent(ctx context.Context, key, value string) (bool, error) {
	return s.client.SetNX(ctx, key, value, 0).Result()
}

// GetJSON reads a document or array element with JSON.GET.
func (s *RedisStore) GetJSON(ctx context.Context, key string, path Path) (json.RawMessage, error) {
	if _, err := path.arrayIndex(); err != nil {
		return nil, err
	}

	res, err := s.client.JSONGet(ctx, key, string(path)).Result()
	if errors.Is(err, redis.Nil) || (err == nil && res == "") {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	// JSONPath queries reply with an array of matches.
	var matches []json.RawMessage
	if err := json.Unmarshal([]byte(res), &matches); err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	return matches[0], nil
}

// SetJSON writes a document or an existing array element with JSON.SET.
func (s *RedisStore) SetJSON(ctx context.Context, key string, path Path, value json.RawMessage) error {
	idx, err := path.arrayIndex()
	if err != nil {
		return err
	}
	if !json.Valid(value) {
		return ErrInvalidJSON
	}

	if idx >= 0 {
		// JSON.SET on a missing element is a silent no-op.
		if _, err := s.GetJSON(ctx, key, path); err != nil {
			return err
		}
	}

	return s.client.JSONSet(ctx, key, string(path), []byte(value)).Err()
}
