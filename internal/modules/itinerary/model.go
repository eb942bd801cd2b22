// README: Itinerary data model, error kinds and the user-facing failure message.
package itinerary

import "errors"

const (
	MinDuration = 1
	MaxDuration = 30
)

// UserMessage is the only failure text shown to end users.
const UserMessage = "Failed to generate itinerary. Check your API key or model settings."

var (
	// ErrGenerationFailed covers every failure of the service call itself.
	// The underlying transport error is logged and never wrapped.
	ErrGenerationFailed = errors.New("itinerary generation failed")
	// ErrInvalidResponseFormat is returned when the output is not valid JSON
	// even after the repair pass, or does not match the itinerary shape.
	ErrInvalidResponseFormat = errors.New("invalid itinerary response format")
	ErrShapeMismatch         = errors.New("itinerary shape mismatch")
)

// TravelPreferences is one submission from the preference form.
type TravelPreferences struct {
	Destination string `json:"destination"`
	Duration    int    `json:"duration"`
	Interests   string `json:"interests"`
}

type Activity struct {
	PlaceName   string `json:"placeName"`
	Description string `json:"description"`
	// TimeSlot is free text, e.g. "09:00 - 11:00".
	TimeSlot string `json:"timeSlot"`
	// Cost is free text in the itinerary currency, e.g. "¥500" or "Free".
	Cost string `json:"cost"`
}

type DayPlan struct {
	DayNumber  int        `json:"dayNumber"`
	Theme      string     `json:"theme"`
	Activities []Activity `json:"activities"`
}

type ItineraryResponse struct {
	Destination string    `json:"destination"`
	Currency    string    `json:"currency"`
	Days        []DayPlan `json:"days"`
}

// IsGenerationError reports whether err is one of the generator's error kinds.
func IsGenerationError(err error) bool {
	return errors.Is(err, ErrGenerationFailed) || errors.Is(err, ErrInvalidResponseFormat)
}
