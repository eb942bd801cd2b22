package itinerary

import (
	"fmt"

	"wanderlust/internal/ai"
)

const systemInstruction = "You are a world-class travel planner. Respond in JSON ONLY."

const jsonFormat = `{
  "destination": "",
  "currency": "",
  "days": [
    {
      "dayNumber": 1,
      "theme": "",
      "activities": [
        {
          "placeName": "",
          "description": "",
          "timeSlot": "",
          "cost": ""
        }
      ]
    }
  ]
}`

// buildPrompt embeds the preferences into the generation instructions.
func buildPrompt(prefs TravelPreferences) string {
	return fmt.Sprintf(`Create a detailed %d-day travel itinerary for %s.
User Interests: %s

You MUST return ONLY valid JSON.
No markdown (no `+"```"+`).
No explanation.
No reasoning steps.

JSON FORMAT (STRICT):
%s

Rules:
- Output must be valid JSON only.
- "days" must contain exactly %d entries with "dayNumber" running 1 to %d.
- "currency" is the local currency code or symbol used for every "cost".
- All fields must be filled.
- Use simple clean strings.
- No trailing commas.
`, prefs.Duration, prefs.Destination, prefs.Interests, jsonFormat, prefs.Duration, prefs.Duration)
}

// itinerarySchema constrains structured output to the ItineraryResponse shape.
func itinerarySchema() *ai.Schema {
	str := func() *ai.Schema { return &ai.Schema{Type: ai.TypeString} }

	activity := &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"placeName":   str(),
			"description": str(),
			"timeSlot":    str(),
			"cost":        str(),
		},
		Required: []string{"placeName", "description", "timeSlot", "cost"},
	}
	day := &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"dayNumber":  {Type: ai.TypeInteger},
			"theme":      str(),
			"activities": {Type: ai.TypeArray, Items: activity},
		},
		Required: []string{"dayNumber", "theme", "activities"},
	}
	return &ai.Schema{
		Type: ai.TypeObject,
		Properties: map[string]*ai.Schema{
			"destination": str(),
			"currency":    str(),
			"days":        {Type: ai.TypeArray, Items: day},
		},
		Required: []string{"destination", "currency", "days"},
	}
}
