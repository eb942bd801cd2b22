// README: Stored itineraries referenced by budget tracking and PDF export.
package history

import (
	"errors"
	"time"

	"wanderlust/internal/modules/itinerary"
)

var ErrNotFound = errors.New("itinerary not found")

type Record struct {
	ID          string                       `json:"id"`
	Preferences itinerary.TravelPreferences  `json:"preferences"`
	Itinerary   *itinerary.ItineraryResponse `json:"itinerary"`
	CreatedAt   time.Time                    `json:"created_at"`
}
