package session

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"wanderlust/internal/modules/itinerary"
)

// Service enforces at most one in-flight generation per session.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Begin moves the session to Requesting and returns the token that owns the
// gate. It returns ErrRequestInFlight when a previous submission has not
// resolved yet.
func (s *Service) Begin(ctx context.Context, sid string) (string, error) {
	if strings.TrimSpace(sid) == "" {
		return "", ErrMissingSession
	}
	token := uuid.NewString()
	ok, err := s.store.TryAcquire(ctx, sid, token)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrRequestInFlight
	}
	return token, nil
}

// Succeed records the itinerary as the latest result and releases the gate.
func (s *Service) Succeed(ctx context.Context, sid, token, itineraryID string, it *itinerary.ItineraryResponse) error {
	return s.store.Complete(ctx, sid, token, Snapshot{
		State:       StateSuccess,
		ItineraryID: itineraryID,
		Itinerary:   it,
		UpdatedAt:   s.now().UTC(),
	})
}

// Fail records a user-safe failure message and releases the gate.
func (s *Service) Fail(ctx context.Context, sid, token, message string) error {
	return s.store.Complete(ctx, sid, token, Snapshot{
		State:     StateFailed,
		Error:     message,
		UpdatedAt: s.now().UTC(),
	})
}

// Latest returns the current state of the session. An in-flight request
// reports Requesting even when an older result is stored.
func (s *Service) Latest(ctx context.Context, sid string) (Snapshot, error) {
	if strings.TrimSpace(sid) == "" {
		return Snapshot{}, ErrMissingSession
	}
	inFlight, err := s.store.InFlight(ctx, sid)
	if err != nil {
		return Snapshot{}, err
	}
	if inFlight {
		return Snapshot{State: StateRequesting, UpdatedAt: s.now().UTC()}, nil
	}
	snap, ok, err := s.store.Get(ctx, sid)
	if err != nil {
		return Snapshot{}, err
	}
	if !ok {
		return Snapshot{State: StateIdle}, nil
	}
	return snap, nil
}
