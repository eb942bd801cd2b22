package budget

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store interface {
	Get(ctx context.Context, itineraryID string) (Budget, error)
	SetTotal(ctx context.Context, itineraryID string, total float64) error
	SetCost(ctx context.Context, itineraryID string, key ActivityKey, amount float64) error
	ClearCost(ctx context.Context, itineraryID string, key ActivityKey) error
}

// PGStore keeps budgets in trip_budgets and activity_costs.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

func (s *PGStore) Get(ctx context.Context, itineraryID string) (Budget, error) {
	b := Budget{Costs: make(map[ActivityKey]float64)}

	err := s.db.QueryRow(ctx, `
		SELECT COALESCE((SELECT total FROM trip_budgets WHERE itinerary_id = $1), 0)`, itineraryID,
	).Scan(&b.Total)
	if err != nil {
		return Budget{}, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT day_index, activity_index, amount
		FROM activity_costs
		WHERE itinerary_id = $1`, itineraryID)
	if err != nil {
		return Budget{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var k ActivityKey
		var amount float64
		if err := rows.Scan(&k.DayIndex, &k.ActivityIndex, &amount); err != nil {
			return Budget{}, err
		}
		b.Costs[k] = amount
	}
	return b, rows.Err()
}

func (s *PGStore) SetTotal(ctx context.Context, itineraryID string, total float64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO trip_budgets (itinerary_id, total, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (itinerary_id) DO UPDATE SET total = EXCLUDED.total, updated_at = now()`,
		itineraryID, total)
	return err
}

func (s *PGStore) SetCost(ctx context.Context, itineraryID string, key ActivityKey, amount float64) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO activity_costs (itinerary_id, day_index, activity_index, amount, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (itinerary_id, day_index, activity_index)
		DO UPDATE SET amount = EXCLUDED.amount, updated_at = now()`,
		itineraryID, key.DayIndex, key.ActivityIndex, amount)
	return err
}

func (s *PGStore) ClearCost(ctx context.Context, itineraryID string, key ActivityKey) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM activity_costs
		WHERE itinerary_id = $1 AND day_index = $2 AND activity_index = $3`,
		itineraryID, key.DayIndex, key.ActivityIndex)
	return err
}

type MemoryStore struct {
	mu      sync.Mutex
	budgets map[string]Budget
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{budgets: make(map[string]Budget)}
}

func (s *MemoryStore) Get(_ context.Context, itineraryID string) (Budget, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.budgets[itineraryID]
	out := Budget{Total: b.Total, Costs: make(map[ActivityKey]float64, len(b.Costs))}
	for k, v := range b.Costs {
		out.Costs[k] = v
	}
	return out, nil
}

func (s *MemoryStore) SetTotal(_ context.Context, itineraryID string, total float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.entry(itineraryID)
	b.Total = total
	s.budgets[itineraryID] = b
	return nil
}

func (s *MemoryStore) SetCost(_ context.Context, itineraryID string, key ActivityKey, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entry(itineraryID).Costs[key] = amount
	return nil
}

func (s *MemoryStore) ClearCost(_ context.Context, itineraryID string, key ActivityKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entry(itineraryID).Costs, key)
	return nil
}

// entry must be called with mu held.
func (s *MemoryStore) entry(id string) Budget {
	b, ok := s.budgets[id]
	if !ok || b.Costs == nil {
		b.Costs = make(map[ActivityKey]float64)
		s.budgets[id] = b
	}
	return b
}
