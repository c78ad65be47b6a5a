package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trapwire-labs/trapwire/pkg/logger"
)

// redisKeyPrefix namespaces session keys in a shared Redis.
const redisKeyPrefix = "trapwire:session:"

// RedisStore keeps sessions in Redis so multiple engine nodes can
// share them. Active sessions carry the configured TTL; archiving
// persists the key so terminated sessions survive for audit.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration, log *logger.Logger) (*RedisStore, error) {
	log = log.WithComponent("redis_store")
	log.Info().Str("addr", addr).Int("db", db).Msg("connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return &RedisStore{client: client, ttl: ttl, log: log}, nil
}

func (s *RedisStore) key(sessionID string) string {
	return redisKeyPrefix + sessionID
}

// Get retrieves a session. Unknown or expired ids read as absent.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*State, error) {
	data, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var state State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("unmarshal session %s: %w", sessionID, err)
	}
	return &state, nil
}

// Put stores a session. Archived sessions are persisted without a TTL
// so the expiry sweep cannot reclaim them.
func (s *RedisStore) Put(ctx context.Context, state *State) error {
	if state == nil {
		return fmt.Errorf("session state is nil")
	}
	if state.SessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", state.SessionID, err)
	}

	ttl := s.ttl
	if state.Archived {
		ttl = 0
	}
	if err := s.client.Set(ctx, s.key(state.SessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	s.log.Info().Msg("closing Redis connection")
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
