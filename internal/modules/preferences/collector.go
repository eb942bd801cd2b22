// README: Preference collector validates the trip form and emits immutable TravelPreferences.
package preferences

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"wanderlust/internal/modules/itinerary"
)

var ErrInvalidPreferences = errors.New("invalid travel preferences")

// Form is the raw submission. Duration accepts a JSON number or a numeric
// string because browser number inputs post either.
type Form struct {
	Destination string          `json:"destination"`
	Duration    json.RawMessage `json:"duration"`
	Interests   string          `json:"interests"`
}

// Collector has no state; it exists so callers depend on a value they can swap in tests.
type Collector struct{}

func NewCollector() *Collector {
	return &Collector{}
}

// Submit validates form and, when valid, invokes onSubmit exactly once with
// the resulting preferences. An invalid form never reaches onSubmit.
func (c *Collector) Submit(form Form, onSubmit func(itinerary.TravelPreferences)) (itinerary.TravelPreferences, error) {
	prefs, err := c.Validate(form)
	if err != nil {
		return itinerary.TravelPreferences{}, err
	}
	if onSubmit != nil {
		onSubmit(prefs)
	}
	return prefs, nil
}

// Validate trims text fields and checks every constraint of TravelPreferences.
func (c *Collector) Validate(form Form) (itinerary.TravelPreferences, error) {
	dest := strings.TrimSpace(form.Destination)
	if dest == "" {
		return itinerary.TravelPreferences{}, fmt.Errorf("%w: destination is required", ErrInvalidPreferences)
	}
	interests := strings.TrimSpace(form.Interests)
	if interests == "" {
		return itinerary.TravelPreferences{}, fmt.Errorf("%w: interests are required", ErrInvalidPreferences)
	}
	days, err := parseDuration(form.Duration)
	if err != nil {
		return itinerary.TravelPreferences{}, fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	return itinerary.TravelPreferences{Destination: dest, Duration: days, Interests: interests}, nil
}

// CanSubmit mirrors the disabled state of the submit control.
func (c *Collector) CanSubmit(form Form, inFlight bool) bool {
	if inFlight {
		return false
	}
	_, err := c.Validate(form)
	return err == nil
}

func parseDuration(raw json.RawMessage) (int, error) {
	v := strings.TrimSpace(string(raw))
	v = strings.Trim(v, `"`)
	v = strings.TrimSpace(v)
	if v == "" || v == "null" {
		return 0, errors.New("duration is required")
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("duration %q is not a whole number of days", v)
	}
	if n < itinerary.MinDuration || n > itinerary.MaxDuration {
		return 0, fmt.Errorf("duration must be between %d and %d days", itinerary.MinDuration, itinerary.MaxDuration)
	}
	return n, nil
}

// DurationValue builds the Duration field from an int, for callers that
// construct forms in code.
func DurationValue(n int) json.RawMessage {
	return json.RawMessage(strconv.Itoa(n))
}
