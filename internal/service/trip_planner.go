// README: Trip planner orchestrates one itinerary submission end to end.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"wanderlust/internal/modules/history"
	"wanderlust/internal/modules/itinerary"
	"wanderlust/internal/modules/preferences"
	"wanderlust/internal/modules/quota"
	"wanderlust/internal/modules/session"
)

// QuotaMessage is stored on the session when the daily allowance is used up.
const QuotaMessage = "Daily itinerary limit reached. Try again tomorrow."

// DefaultTimeout applies when Deps.Timeout is unset or would outlive the
// session gate.
const DefaultTimeout = 60 * time.Second

// Generator is satisfied by *itinerary.Generator.
type Generator interface {
	Generate(ctx context.Context, prefs itinerary.TravelPreferences) (*itinerary.ItineraryResponse, error)
}

type Deps struct {
	Collector *preferences.Collector
	Generator Generator
	Sessions  *session.Service
	Quota     *quota.Service
	History   *history.Service
	// Timeout bounds a single generation. It must be below session.GateTTL.
	Timeout time.Duration
}

// TripPlanner runs validation, the session gate, quota, generation and
// persistence for a submitted form.
type TripPlanner struct {
	collector *preferences.Collector
	generator Generator
	sessions  *session.Service
	quota     *quota.Service
	history   *history.Service
	timeout   time.Duration
}

func NewTripPlanner(deps Deps) *TripPlanner {
	collector := deps.Collector
	if collector == nil {
		collector = preferences.NewCollector()
	}
	timeout := deps.Timeout
	if timeout <= 0 || timeout >= session.GateTTL {
		timeout = DefaultTimeout
	}
	return &TripPlanner{
		collector: collector,
		generator: deps.Generator,
		sessions:  deps.Sessions,
		quota:     deps.Quota,
		history:   deps.History,
		timeout:   timeout,
	}
}

type PlanResult struct {
	ID          string                       `json:"id"`
	Preferences itinerary.TravelPreferences  `json:"preferences"`
	Itinerary   *itinerary.ItineraryResponse `json:"itinerary"`
}

// Plan validates form and generates an itinerary for sessionID. clientID
// keys the daily quota.
func (p *TripPlanner) Plan(ctx context.Context, sessionID, clientID string, form preferences.Form) (*PlanResult, error) {
	prefs, err := p.collector.Validate(form)
	if err != nil {
		return nil, err
	}

	token, err := p.sessions.Begin(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	// The gate must be released even if the client goes away.
	done := context.WithoutCancel(ctx)

	if err := p.quota.UseGeneration(ctx, clientID); err != nil {
		msg := itinerary.UserMessage
		if errors.Is(err, quota.ErrQuotaExceeded) {
			msg = QuotaMessage
		}
		p.fail(done, sessionID, token, msg)
		return nil, err
	}

	genCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	it, err := p.generator.Generate(genCtx, prefs)
	if err != nil {
		log.Printf("plan: session=%s destination=%q days=%d failed after %s: %v",
			sessionID, prefs.Destination, prefs.Duration, time.Since(start).Round(time.Millisecond), err)
		p.fail(done, sessionID, token, itinerary.UserMessage)
		return nil, err
	}

	id, err := p.history.Save(done, prefs, it)
	if err != nil {
		log.Printf("plan: save itinerary for session=%s: %v", sessionID, err)
		p.fail(done, sessionID, token, itinerary.UserMessage)
		return nil, err
	}

	if err := p.sessions.Succeed(done, sessionID, token, id, it); err != nil {
		log.Printf("plan: record success for session=%s itinerary=%s: %v", sessionID, id, err)
		p.fail(done, sessionID, token, itinerary.UserMessage)
		return nil, err
	}
	log.Printf("plan: session=%s itinerary=%s destination=%q days=%d in %s",
		sessionID, id, prefs.Destination, prefs.Duration, time.Since(start).Round(time.Millisecond))
	return &PlanResult{ID: id, Preferences: prefs, Itinerary: it}, nil
}

// Latest returns the session's current state and last result.
func (p *TripPlanner) Latest(ctx context.Context, sessionID string) (session.Snapshot, error) {
	return p.sessions.Latest(ctx, sessionID)
}

func (p *TripPlanner) fail(ctx context.Context, sessionID, token, msg string) {
	if err := p.sessions.Fail(ctx, sessionID, token, msg); err != nil {
		log.Printf("plan: release session=%s: %v", sessionID, err)
	}
}
