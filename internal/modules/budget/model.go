// README: Per-activity budget tracker: entered costs, remaining budget and estimates.
package budget

import "errors"

var (
	ErrInvalidAmount      = errors.New("amount must be a non-negative number")
	ErrActivityOutOfRange = errors.New("activity does not exist in itinerary")
)

// ActivityKey addresses one activity by its position in the itinerary.
type ActivityKey struct {
	DayIndex      int `json:"day_index"`
	ActivityIndex int `json:"activity_index"`
}

// Budget is the traveller's input for one itinerary.
type Budget struct {
	Total float64
	Costs map[ActivityKey]float64
}

type ActivityLine struct {
	ActivityKey
	PlaceName      string   `json:"place_name"`
	Quoted         string   `json:"quoted_cost"`
	Estimate       *float64 `json:"estimate,omitempty"`
	Actual         float64  `json:"actual"`
	PriceSearchURL string   `json:"price_search_url"`
}

type Summary struct {
	ItineraryID           string         `json:"itinerary_id"`
	Currency              string         `json:"currency"`
	Total                 float64        `json:"total_budget"`
	Spent                 float64        `json:"total_spent"`
	Remaining             float64        `json:"remaining"`
	DailyAverageRemaining float64        `json:"daily_average_remaining"`
	EstimatedTotal        float64        `json:"estimated_total"`
	UnpricedActivities    int            `json:"unpriced_activities"`
	Activities            []ActivityLine `json:"activities"`
}
