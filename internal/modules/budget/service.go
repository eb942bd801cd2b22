package budget

import (
	"context"
	"math"

	"wanderlust/internal/modules/history"
)

// Itineraries resolves stored itineraries by id.
type Itineraries interface {
	Get(ctx context.Context, id string) (*history.Record, error)
}

type Service struct {
	store       Store
	itineraries Itineraries
}

func NewService(store Store, itineraries Itineraries) *Service {
	return &Service{store: store, itineraries: itineraries}
}

func (s *Service) Summary(ctx context.Context, itineraryID string) (Summary, error) {
	rec, err := s.itineraries.Get(ctx, itineraryID)
	if err != nil {
		return Summary{}, err
	}
	b, err := s.store.Get(ctx, itineraryID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(itineraryID, rec.Itinerary, b), nil
}

func (s *Service) SetTotal(ctx context.Context, itineraryID string, total float64) (Summary, error) {
	if !validAmount(total) {
		return Summary{}, ErrInvalidAmount
	}
	if _, err := s.itineraries.Get(ctx, itineraryID); err != nil {
		return Summary{}, err
	}
	if err := s.store.SetTotal(ctx, itineraryID, total); err != nil {
		return Summary{}, err
	}
	return s.Summary(ctx, itineraryID)
}

// SetActivityCost records the actual cost of one activity. A nil amount
// clears the entry, which counts as zero.
func (s *Service) SetActivityCost(ctx context.Context, itineraryID string, key ActivityKey, amount *float64) (Summary, error) {
	rec, err := s.itineraries.Get(ctx, itineraryID)
	if err != nil {
		return Summary{}, err
	}
	days := rec.Itinerary.Days
	if key.DayIndex < 0 || key.DayIndex >= len(days) ||
		key.ActivityIndex < 0 || key.ActivityIndex >= len(days[key.DayIndex].Activities) {
		return Summary{}, ErrActivityOutOfRange
	}

	if amount == nil {
		err = s.store.ClearCost(ctx, itineraryID, key)
	} else if !validAmount(*amount) {
		return Summary{}, ErrInvalidAmount
	} else {
		err = s.store.SetCost(ctx, itineraryID, key, *amount)
	}
	if err != nil {
		return Summary{}, err
	}
	return s.Summary(ctx, itineraryID)
}

func validAmount(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
