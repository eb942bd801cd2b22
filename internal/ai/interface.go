package ai

import (
	"context"
	"errors"
)

// ErrEmptyOutput is returned when the service answers without any text.
var ErrEmptyOutput = errors.New("ai: empty output")

// TextGenerator defines the contract for one call to a generation service.
// Gemini and OpenAI implementations differ only in client construction;
// model, temperature and schema enforcement are configuration.
type TextGenerator interface {
	// GenerateText sends req and returns the raw text of the first candidate.
	GenerateText(ctx context.Context, req Request) (string, error)
}
