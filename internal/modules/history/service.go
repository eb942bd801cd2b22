package history

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"wanderlust/internal/modules/itinerary"
)

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Save stores a generated itinerary and returns its new id.
func (s *Service) Save(ctx context.Context, prefs itinerary.TravelPreferences, it *itinerary.ItineraryResponse) (string, error) {
	rec := &Record{
		ID:          uuid.NewString(),
		Preferences: prefs,
		Itinerary:   it,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.Save(ctx, rec); err != nil {
		return "", err
	}
	return rec.ID, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Record, error) {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return nil, ErrNotFound
	}
	return s.store.Get(ctx, id)
}
