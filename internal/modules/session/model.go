// README: Per-session submission state and the latest-result slot.
package session

import (
	"errors"
	"time"

	"wanderlust/internal/modules/itinerary"
)

var (
	ErrRequestInFlight = errors.New("a generation request is already in flight for this session")
	ErrMissingSession  = errors.New("missing session id")
	// ErrGateLost means the gate expired or was taken by a newer submission
	// before this one completed. The result slot is left untouched.
	ErrGateLost = errors.New("session gate no longer held by this request")
)

type State string

const (
	StateIdle       State = "idle"
	StateRequesting State = "requesting"
	StateSuccess    State = "success"
	StateFailed     State = "failed"
)

// Snapshot is the content of the latest-result slot.
type Snapshot struct {
	State       State                        `json:"state"`
	ItineraryID string                       `json:"itinerary_id,omitempty"`
	Itinerary   *itinerary.ItineraryResponse `json:"itinerary,omitempty"`
	Error       string                       `json:"error,omitempty"`
	UpdatedAt   time.Time                    `json:"updated_at"`
}

// GateTTL bounds how long a crashed request can hold the gate. Generation
// timeouts must stay below it.
const GateTTL = 5 * time.Minute

const resultTTL = 24 * time.Hour
