package itinerary

import (
	"context"
	"fmt"
	"log"

	"wanderlust/internal/ai"
)

// Options are the consolidated knobs of the generator. Model and temperature
// live on the ai provider settings.
type Options struct {
	EnforceSchema bool
}

// Generator turns TravelPreferences into an ItineraryResponse via a generation service.
type Generator struct {
	llm  ai.TextGenerator
	opts Options
}

func NewGenerator(llm ai.TextGenerator, opts Options) *Generator {
	return &Generator{llm: llm, opts: opts}
}

// Generate makes exactly one call to the generation service. prefs must
// already satisfy the collector's validation.
// Returned errors always match ErrGenerationFailed or ErrInvalidResponseFormat.
func (g *Generator) Generate(ctx context.Context, prefs TravelPreferences) (*ItineraryResponse, error) {
	req := ai.Request{
		SystemInstruction: systemInstruction,
		Prompt:            buildPrompt(prefs),
	}
	if g.opts.EnforceSchema {
		req.Schema = itinerarySchema()
	}

	raw, err := g.llm.GenerateText(ctx, req)
	if err != nil {
		log.Printf("itinerary: generation service error for %q (%d days): %v", prefs.Destination, prefs.Duration, err)
		return nil, ErrGenerationFailed
	}

	decoded, err := decodeOutput(raw)
	if err != nil {
		log.Printf("itinerary: invalid JSON from generation service: %v; raw response: %s", err, raw)
		return nil, ErrInvalidResponseFormat
	}

	it, err := validateShape(decoded, prefs.Duration)
	if err != nil {
		log.Printf("itinerary: %v; raw response: %s", err, raw)
		return nil, fmt.Errorf("%w: %w", ErrInvalidResponseFormat, err)
	}
	return it, nil
}
