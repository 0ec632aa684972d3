// Package redis keeps session entries in Redis so several portal processes
// can share one login.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emailportal/portal-client/internal/core/domain"
)

const (
	defaultTimeout = 5 * time.Second
	defaultPrefix  = "portal:session"
)

// Config captures the settings for the Redis session store.
type Config struct {
	Addr    string
	DB      int
	Prefix  string
	Timeout time.Duration
}

// SessionStore is a ports.KeyValueStore keyed as <prefix>:<key>.
type SessionStore struct {
	client redis.UniversalClient
	prefix string
}

// Open connects to Redis, validates connectivity with a ping and returns a
// store owning the client.
func Open(ctx context.Context, cfg Config) (*SessionStore, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		DB:           cfg.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return NewSessionStore(client, cfg.Prefix), nil
}

// NewSessionStore wraps an existing client.
func NewSessionStore(client redis.UniversalClient, prefix string) *SessionStore {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &SessionStore{client: client, prefix: prefix}
}

func (s *SessionStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrEntryNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

// Set stores value without expiry; the session lives until logout.
func (s *SessionStore) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = s.key(k)
	}
	if err := s.client.Del(ctx, full...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *SessionStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *SessionStore) Close() error {
	return s.client.Close()
}

func (s *SessionStore) key(k string) string {
	return s.prefix + ":" + k
}
