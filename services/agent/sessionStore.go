package agent

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"calendra/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "agent:session:"

// SessionStore persists one ConversationState per session between turns.
// Get returns (nil, nil) when no state exists yet.
type SessionStore interface {
	Get(ctx context.Context, sessionID string) (*models.ConversationState, error)
	Set(ctx context.Context, sessionID string, state *models.ConversationState) error
	Clear(ctx context.Context, sessionID string) error
}

// RedisSessionStore keeps conversation state in Redis with a TTL, so an
// abandoned session expires on its own.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	data, err := s.client.Get(ctx, sessionPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state models.ConversationState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *RedisSessionStore) Set(ctx context.Context, sessionID string, state *models.ConversationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, sessionPrefix+sessionID, b, s.ttl).Err()
}

func (s *RedisSessionStore) Clear(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, sessionPrefix+sessionID).Err()
}

// MemorySessionStore is a process-local store for tests and single-node runs.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*models.ConversationState
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*models.ConversationState)}
}

func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (*models.ConversationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.sessions[sessionID]
	if !ok {
		return nil, nil
	}
	clone := *state
	return &clone, nil
}

func (s *MemorySessionStore) Set(ctx context.Context, sessionID string, state *models.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *state
	s.sessions[sessionID] = &clone
	return nil
}

func (s *MemorySessionStore) Clear(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}
