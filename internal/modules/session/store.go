package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store holds the in-flight gate and the latest-result slot per session.
// The gate is owned by the token that acquired it.
type Store interface {
	// TryAcquire sets the in-flight gate to token and reports whether it was free.
	TryAcquire(ctx context.Context, sid, token string) (bool, error)
	// Complete overwrites the slot and releases the gate if token still holds
	// it. Otherwise it changes nothing and returns ErrGateLost.
	Complete(ctx context.Context, sid, token string, snap Snapshot) error
	Get(ctx context.Context, sid string) (Snapshot, bool, error)
	InFlight(ctx context.Context, sid string) (bool, error)
}

const (
	inFlightKeyPrefix = "session:%s:inflight"
	resultKeyPrefix   = "session:%s:latest"
)

// completeScript writes the slot and deletes the gate only when the gate
// still holds the caller's token.
var completeScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "EX", ARGV[3])
redis.call("DEL", KEYS[1])
return 1
`)

// RedisStore backs the gate with SETNX and the slot with a JSON value.
type RedisStore struct {
	redis *redis.Client
}

func NewRedisStore(redis *redis.Client) *RedisStore {
	return &RedisStore{redis: redis}
}

func (s *RedisStore) TryAcquire(ctx context.Context, sid, token string) (bool, error) {
	return s.redis.SetNX(ctx, inFlightKey(sid), token, GateTTL).Result()
}

func (s *RedisStore) Complete(ctx context.Context, sid, token string, snap Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("session: marshal snapshot: %w", err)
	}
	held, err := completeScript.Run(ctx, s.redis,
		[]string{inFlightKey(sid), resultKey(sid)},
		token, payload, int(resultTTL.Seconds()),
	).Int()
	if err != nil {
		return err
	}
	if held == 0 {
		return ErrGateLost
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (Snapshot, bool, error) {
	val, err := s.redis.Get(ctx, resultKey(sid)).Bytes()
	if err == redis.Nil {
		return Snapshot{}, false, nil
	}
	if err != nil {
		return Snapshot{}, false, err
	}
	var snap Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return Snapshot{}, false, fmt.Errorf("session: decode snapshot: %w", err)
	}
	return snap, true, nil
}

func (s *RedisStore) InFlight(ctx context.Context, sid string) (bool, error) {
	n, err := s.redis.Exists(ctx, inFlightKey(sid)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func inFlightKey(sid string) string {
	return fmt.Sprintf(inFlightKeyPrefix, sid)
}

func resultKey(sid string) string {
	return fmt.Sprintf(resultKeyPrefix, sid)
}

type gate struct {
	token string
	since time.Time
}

// MemoryStore is used when no Redis address is configured.
type MemoryStore struct {
	mu       sync.Mutex
	now      func() time.Time
	inFlight map[string]gate
	results  map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:      time.Now,
		inFlight: make(map[string]gate),
		results:  make(map[string]Snapshot),
	}
}

// held reports whether sid has an unexpired gate. Caller holds mu.
func (s *MemoryStore) held(sid string) (gate, bool) {
	g, ok := s.inFlight[sid]
	if !ok {
		return gate{}, false
	}
	if s.now().Sub(g.since) >= GateTTL {
		delete(s.inFlight, sid)
		return gate{}, false
	}
	return g, true
}

func (s *MemoryStore) TryAcquire(_ context.Context, sid, token string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.held(sid); ok {
		return false, nil
	}
	s.inFlight[sid] = gate{token: token, since: s.now()}
	return true, nil
}

func (s *MemoryStore) Complete(_ context.Context, sid, token string, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.held(sid); !ok || g.token != token {
		return ErrGateLost
	}
	s.results[sid] = snap
	delete(s.inFlight, sid)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sid string) (Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.results[sid]
	return snap, ok, nil
}

func (s *MemoryStore) InFlight(_ context.Context, sid string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.held(sid)
	return ok, nil
}
