package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"wanderlust/internal/modules/itinerary"
)

type Store interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, id string) (*Record, error)
}

// PGStore persists itineraries in Postgres with the plan as JSONB.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Save(ctx context.Context, rec *Record) error {
	payload, err := json.Marshal(rec.Itinerary)
	if err != nil {
		return fmt.Errorf("history: marshal itinerary: %w", err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO itineraries (id, destination, duration, interests, currency, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID,
		rec.Preferences.Destination,
		rec.Preferences.Duration,
		rec.Preferences.Interests,
		rec.Itinerary.Currency,
		payload,
		rec.CreatedAt,
	)
	return err
}

func (s *PGStore) Get(ctx context.Context, id string) (*Record, error) {
	var rec Record
	var payload []byte
	err := s.db.QueryRow(ctx, `
		SELECT id, destination, duration, interests, payload, created_at
		FROM itineraries
		WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Preferences.Destination, &rec.Preferences.Duration, &rec.Preferences.Interests, &payload, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var it itinerary.ItineraryResponse
	if err := json.Unmarshal(payload, &it); err != nil {
		return nil, fmt.Errorf("history: decode itinerary %s: %w", id, err)
	}
	rec.Itinerary = &it
	return &rec, nil
}

// MemoryStore is used when no DSN is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

func (s *MemoryStore) Save(_ context.Context, rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *rec
	s.records[rec.ID] = &cp
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}
