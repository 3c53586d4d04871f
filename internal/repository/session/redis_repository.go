package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"file-concierge-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

type RedisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisRepository builds a Redis-backed session store so sessions
// survive restarts and are shared across instances.
func NewRedisRepository(client *redis.Client, ttl time.Duration) *RedisRepository {
	return &RedisRepository{
		client: client,
		ttl:    ttl,
	}
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func (r *RedisRepository) Save(ctx context.Context, session *store.Session) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	return r.client.Set(ctx, sessionKey(session.ID), payload, r.ttl).Err()
}

func (r *RedisRepository) Get(ctx context.Context, sessionID string) (*store.Session, bool, error) {
	payload, err := r.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var session store.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, true, nil
}

func (r *RedisRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, sessionKey(sessionID)).Err()
}
