// Copyright (c) 2026 Minbar. All rights reserved.

package session

import (
	stdctx "context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minbarhq/minbar/internal/platform/constants"
)

// ErrNotFound is returned by a [Backend] when the session record is missing or expired.
var ErrNotFound = errors.New("session: not found")

// Backend persists serialized session records keyed by session ID.
//
// Each record is also indexed by its owner so all sessions of a user can be revoked at once.
type Backend interface {
	Load(context stdctx.Context, sessionID string) ([]byte, error)
	Save(context stdctx.Context, sessionID, userID string, payload []byte, ttl time.Duration) error
	Delete(context stdctx.Context, sessionID, userID string) error
	DeleteAll(context stdctx.Context, userID string) (int, error)
}

// RedisBackend stores session records in Redis with a TTL.
//
// Layout:
//
//	auth:session:<id>            -> JSON record (EX ttl)
//	auth:user_sessions:<userID>  -> SET of session IDs (EX ttl, refreshed on every save)
type RedisBackend struct {
	client *redis.Client
}

// NewRedisBackend wraps a connected go-redis client.
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func sessionKey(sessionID string) string {
	return constants.RedisPrefixSession + sessionID
}

func userIndexKey(userID string) string {
	return constants.RedisPrefixUserSessions + userID
}

// Load fetches the serialized record for sessionID.
func (backend *RedisBackend) Load(context stdctx.Context, sessionID string) ([]byte, error) {
	payload, err := backend.client.Get(context, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	return payload, nil
}

// Save writes the record and registers it in the owner's index within one MULTI block.
func (backend *RedisBackend) Save(context stdctx.Context, sessionID, userID string, payload []byte, ttl time.Duration) error {
	_, err := backend.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Set(context, sessionKey(sessionID), payload, ttl)
		if userID != "" {
			pipe.SAdd(context, userIndexKey(userID), sessionID)
			pipe.Expire(context, userIndexKey(userID), ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	return nil
}

// Delete removes one session and its index entry.
func (backend *RedisBackend) Delete(context stdctx.Context, sessionID, userID string) error {
	_, err := backend.client.TxPipelined(context, func(pipe redis.Pipeliner) error {
		pipe.Del(context, sessionKey(sessionID))
		if userID != "" {
			pipe.SRem(context, userIndexKey(userID), sessionID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

// DeleteAll removes every session of userID and returns how many were indexed.
func (backend *RedisBackend) DeleteAll(context stdctx.Context, userID string) (int, error) {
	indexKey := userIndexKey(userID)

	sessionIDs, err := backend.client.SMembers(context, indexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("session: list user sessions: %w", err)
	}

	keys := make([]string, 0, len(sessionIDs)+1)
	for _, sessionID := range sessionIDs {
		keys = append(keys, sessionKey(sessionID))
	}
	keys = append(keys, indexKey)

	if err := backend.client.Del(context, keys...).Err(); err != nil {
		return 0, fmt.Errorf("session: delete user sessions: %w", err)
	}
	return len(sessionIDs), nil
}
