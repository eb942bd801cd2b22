package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"wanderlust/internal/config"
	"wanderlust/internal/modules/history"
	"wanderlust/internal/modules/itinerary"
	"wanderlust/internal/modules/preferences"
	"wanderlust/internal/modules/quota"
	"wanderlust/internal/modules/session"
)

// stubGenerator is a test double for Generator.
type stubGenerator struct {
	mu      sync.Mutex
	it      *itinerary.ItineraryResponse
	err     error
	calls   int
	release chan struct{}
	started chan struct{}
}

func (s *stubGenerator) Generate(ctx context.Context, prefs itinerary.TravelPreferences) (*itinerary.ItineraryResponse, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, itinerary.ErrGenerationFailed
		}
	}
	return s.it, s.err
}

func lisbon() *itinerary.ItineraryResponse {
	return &itinerary.ItineraryResponse{
		Destination: "Lisbon, Portugal",
		Currency:    "EUR",
		Days: []itinerary.DayPlan{{
			DayNumber:  1,
			Theme:      "Alfama",
			Activities: []itinerary.Activity{{PlaceName: "Castelo de S. Jorge", Description: "Castle views", TimeSlot: "10:00 - 12:00", Cost: "€15"}},
		}},
	}
}

func form(dest string, days int) preferences.Form {
	return preferences.Form{Destination: dest, Duration: preferences.DurationValue(days), Interests: "history"}
}

func newPlanner(gen Generator, limit int) (*TripPlanner, *history.Service) {
	hist := history.NewService(history.NewMemoryStore())
	return NewTripPlanner(Deps{
		Generator: gen,
		Sessions:  session.NewService(session.NewMemoryStore()),
		Quota:     quota.NewService(quota.NewMemoryCounter(), limit),
		History:   hist,
		Timeout:   time.Second,
	}), hist
}

func TestPlan_Success(t *testing.T) {
	gen := &stubGenerator{it: lisbon()}
	p, hist := newPlanner(gen, 0)
	ctx := context.Background()

	res, err := p.Plan(ctx, "s1", "1.2.3.4", form(" Lisbon, Portugal ", 1))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if res.Preferences.Destination != "Lisbon, Portugal" {
		t.Errorf("destination not trimmed: %q", res.Preferences.Destination)
	}
	rec, err := hist.Get(ctx, res.ID)
	if err != nil || rec.Itinerary.Destination != "Lisbon, Portugal" {
		t.Fatalf("history: %+v, %v", rec, err)
	}
	snap, _ := p.Latest(ctx, "s1")
	if snap.State != session.StateSuccess || snap.ItineraryID != res.ID {
		t.Errorf("unexpected snapshot %+v", snap)
	}
}

func TestPlan_InvalidFormNeverGenerates(t *testing.T) {
	gen := &stubGenerator{it: lisbon()}
	p, _ := newPlanner(gen, 0)

	for _, f := range []preferences.Form{form("", 3), form("Lisbon", 0), form("Lisbon", 31)} {
		if _, err := p.Plan(context.Background(), "s1", "ip", f); !errors.Is(err, preferences.ErrInvalidPreferences) {
			t.Errorf("form %+v: expected ErrInvalidPreferences, got %v", f, err)
		}
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times for invalid forms", gen.calls)
	}
	if snap, _ := p.Latest(context.Background(), "s1"); snap.State != session.StateIdle {
		t.Errorf("invalid form changed session state to %s", snap.State)
	}
}

func TestPlan_FailureStoresUserMessage(t *testing.T) {
	gen := &stubGenerator{err: itinerary.ErrInvalidResponseFormat}
	p, _ := newPlanner(gen, 0)

	_, err := p.Plan(context.Background(), "s1", "ip", form("Lisbon", 1))
	if !errors.Is(err, itinerary.ErrInvalidResponseFormat) {
		t.Fatalf("expected ErrInvalidResponseFormat, got %v", err)
	}
	snap, _ := p.Latest(context.Background(), "s1")
	if snap.State != session.StateFailed || snap.Error != itinerary.UserMessage {
		t.Errorf("unexpected snapshot %+v", snap)
	}

	// A later success replaces the failure.
	gen.err, gen.it = nil, lisbon()
	if _, err := p.Plan(context.Background(), "s1", "ip", form("Lisbon", 1)); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if snap, _ := p.Latest(context.Background(), "s1"); snap.State != session.StateSuccess || snap.Error != "" {
		t.Errorf("unexpected snapshot after retry %+v", snap)
	}
}

func TestPlan_RejectsSecondSubmissionWhileInFlight(t *testing.T) {
	gen := &stubGenerator{it: lisbon(), release: make(chan struct{}), started: make(chan struct{}, 1)}
	p, _ := newPlanner(gen, 0)

	errc := make(chan error, 1)
	go func() {
		_, err := p.Plan(context.Background(), "s1", "ip", form("Lisbon", 1))
		errc <- err
	}()
	<-gen.started

	if snap, _ := p.Latest(context.Background(), "s1"); snap.State != session.StateRequesting {
		t.Errorf("expected requesting while in flight, got %s", snap.State)
	}
	if _, err := p.Plan(context.Background(), "s1", "ip", form("Porto", 1)); !errors.Is(err, session.ErrRequestInFlight) {
		t.Errorf("expected ErrRequestInFlight, got %v", err)
	}
	// Other sessions are independent.
	gen2 := &stubGenerator{it: lisbon()}
	p.generator = gen2
	if _, err := p.Plan(context.Background(), "s2", "ip", form("Porto", 1)); err != nil {
		t.Errorf("independent session: %v", err)
	}
	p.generator = gen

	close(gen.release)
	if err := <-errc; err != nil {
		t.Fatalf("first Plan: %v", err)
	}
	if gen.calls != 1 {
		t.Errorf("expected one generation for s1, got %d", gen.calls)
	}
}

func TestPlan_Quota(t *testing.T) {
	gen := &stubGenerator{it: lisbon()}
	p, _ := newPlanner(gen, 2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := p.Plan(ctx, "s1", "9.9.9.9", form("Lisbon", 1)); err != nil {
			t.Fatalf("plan %d: %v", i, err)
		}
	}
	if _, err := p.Plan(ctx, "s1", "9.9.9.9", form("Lisbon", 1)); !errors.Is(err, quota.ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	snap, _ := p.Latest(ctx, "s1")
	if snap.State != session.StateFailed || snap.Error != QuotaMessage {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	// The gate was released.
	if _, err := p.Plan(ctx, "s1", "8.8.8.8", form("Lisbon", 1)); err != nil {
		t.Errorf("other client: %v", err)
	}
	if gen.calls != 3 {
		t.Errorf("expected 3 generations, got %d", gen.calls)
	}
}

// successFailingStore rejects success snapshots, as a Redis outage during
// the final write would.
type successFailingStore struct {
	session.Store
}

func (s successFailingStore) Complete(ctx context.Context, sid, token string, snap session.Snapshot) error {
	if snap.State == session.StateSuccess {
		return errors.New("redis: connection reset by peer")
	}
	return s.Store.Complete(ctx, sid, token, snap)
}

func TestPlan_SucceedErrorReleasesGate(t *testing.T) {
	gen := &stubGenerator{it: lisbon()}
	p := NewTripPlanner(Deps{
		Generator: gen,
		Sessions:  session.NewService(successFailingStore{session.NewMemoryStore()}),
		History:   history.NewService(history.NewMemoryStore()),
	})
	ctx := context.Background()

	if _, err := p.Plan(ctx, "s1", "ip", form("Lisbon", 1)); err == nil {
		t.Fatal("expected error when the success snapshot cannot be written")
	}
	snap, err := p.Latest(ctx, "s1")
	if err != nil || snap.State != session.StateFailed || snap.Error != itinerary.UserMessage {
		t.Fatalf("expected failed snapshot, got %+v (%v)", snap, err)
	}
	// The gate is free for the next submission, which reaches the generator again.
	if _, err := p.Plan(ctx, "s1", "ip", form("Lisbon", 1)); errors.Is(err, session.ErrRequestInFlight) {
		t.Fatalf("gate still held: %v", err)
	}
	if gen.calls != 2 {
		t.Errorf("expected 2 generations, got %d", gen.calls)
	}
}

func TestNewTripPlanner_TimeoutStaysBelowGate(t *testing.T) {
	for _, d := range []time.Duration{0, -5 * time.Second, session.GateTTL, 10 * time.Minute} {
		p := NewTripPlanner(Deps{Timeout: d})
		if p.timeout != DefaultTimeout {
			t.Errorf("timeout %s: expected default %s, got %s", d, DefaultTimeout, p.timeout)
		}
	}
	if p := NewTripPlanner(Deps{Timeout: 90 * time.Second}); p.timeout != 90*time.Second {
		t.Errorf("expected configured timeout, got %s", p.timeout)
	}
	if config.MaxGenerationTimeout >= session.GateTTL {
		t.Errorf("max generation timeout %s must stay below gate TTL %s", config.MaxGenerationTimeout, session.GateTTL)
	}
}
