package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kontrollapro/backend/internal/application/checkout"
	"github.com/redis/go-redis/v9"
)

// RedisSessionStore implements checkout.SessionStore using Redis
// This is suitable for distributed deployments where multiple instances
// need to share checkout sessions
type RedisSessionStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSessionStore creates a store backed by an existing Redis client
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{
		client:    client,
		keyPrefix: "checkout:session:",
		ttl:       ttl,
	}
}

// Get loads a session by ID, returning ErrSessionNotFound on miss or expiry
func (s *RedisSessionStore) Get(ctx context.Context, id uuid.UUID) (*checkout.Session, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, checkout.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return decodeSession(payload)
}

// Save stores a session and refreshes its TTL
func (s *RedisSessionStore) Save(ctx context.Context, session *checkout.Session) error {
	payload, err := encodeSession(session)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key(session.ID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error
func (s *RedisSessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func (s *RedisSessionStore) key(id uuid.UUID) string {
	return s.keyPrefix + id.String()
}

func encodeSession(session *checkout.Session) ([]byte, error) {
	payload, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session: %w", err)
	}
	return payload, nil
}

func decodeSession(payload []byte) (*checkout.Session, error) {
	var session checkout.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Ensure RedisSessionStore implements checkout.SessionStore
var _ checkout.SessionStore = (*RedisSessionStore)(nil)
