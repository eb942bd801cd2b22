package itinerary

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errNoJSONObject = errors.New("no brace-delimited JSON object in output")

// wireDay keeps activities as a pointer so a missing or null list is
// distinguishable from an empty one.
type wireDay struct {
	DayNumber  int         `json:"dayNumber"`
	Theme      string      `json:"theme"`
	Activities *[]Activity `json:"activities"`
}

type wireItinerary struct {
	Destination string    `json:"destination"`
	Currency    string    `json:"currency"`
	Days        []wireDay `json:"days"`
}

// decodeOutput decodes raw model text. When direct decoding fails it makes a
// single repair attempt on the span from the first '{' to the last '}'.
func decodeOutput(raw string) (*wireItinerary, error) {
	text := strings.TrimSpace(raw)

	var out wireItinerary
	directErr := json.Unmarshal([]byte(text), &out)
	if directErr == nil {
		return &out, nil
	}

	span, ok := extractObject(text)
	if !ok {
		return nil, fmt.Errorf("%w (direct decode: %v)", errNoJSONObject, directErr)
	}
	out = wireItinerary{}
	if err := json.Unmarshal([]byte(span), &out); err != nil {
		return nil, fmt.Errorf("repair pass: %w", err)
	}
	return &out, nil
}

// extractObject returns the largest substring anchored at the first '{'
// and the last '}' in text.
func extractObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// validateShape converts the decoded value into an ItineraryResponse, failing
// closed on any missing or malformed required field.
func validateShape(w *wireItinerary, duration int) (*ItineraryResponse, error) {
	if strings.TrimSpace(w.Destination) == "" {
		return nil, fmt.Errorf("%w: missing destination", ErrShapeMismatch)
	}
	if strings.TrimSpace(w.Currency) == "" {
		return nil, fmt.Errorf("%w: missing currency", ErrShapeMismatch)
	}
	if len(w.Days) != duration {
		return nil, fmt.Errorf("%w: got %d days, want %d", ErrShapeMismatch, len(w.Days), duration)
	}

	resp := &ItineraryResponse{
		Destination: w.Destination,
		Currency:    w.Currency,
		Days:        make([]DayPlan, 0, len(w.Days)),
	}
	for i, d := range w.Days {
		if d.DayNumber != i+1 {
			return nil, fmt.Errorf("%w: day at index %d has dayNumber %d, want %d", ErrShapeMismatch, i, d.DayNumber, i+1)
		}
		if strings.TrimSpace(d.Theme) == "" {
			return nil, fmt.Errorf("%w: day %d missing theme", ErrShapeMismatch, d.DayNumber)
		}
		if d.Activities == nil {
			return nil, fmt.Errorf("%w: day %d missing activities", ErrShapeMismatch, d.DayNumber)
		}
		for j, a := range *d.Activities {
			if missing := missingActivityField(a); missing != "" {
				return nil, fmt.Errorf("%w: day %d activity %d missing %s", ErrShapeMismatch, d.DayNumber, j, missing)
			}
		}
		resp.Days = append(resp.Days, DayPlan{
			DayNumber:  d.DayNumber,
			Theme:      d.Theme,
			Activities: *d.Activities,
		})
	}
	return resp, nil
}

func missingActivityField(a Activity) string {
	switch {
	case strings.TrimSpace(a.PlaceName) == "":
		return "placeName"
	case strings.TrimSpace(a.Description) == "":
		return "description"
	case strings.TrimSpace(a.TimeSlot) == "":
		return "timeSlot"
	case strings.TrimSpace(a.Cost) == "":
		return "cost"
	}
	return ""
}
