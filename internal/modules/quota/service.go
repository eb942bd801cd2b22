package quota

import (
	"context"
	"time"
)

// Service orchestrates the daily generation allowance.
type Service struct {
	counter Counter
	limit   int
	now     func() time.Time
}

// NewService returns a Service allowing limit generations per client per UTC day.
// A limit of 0 or less disables the quota.
func NewService(counter Counter, limit int) *Service {
	return &Service{counter: counter, limit: limit, now: time.Now}
}

// UseGeneration consumes one generation for clientID.
func (s *Service) UseGeneration(ctx context.Context, clientID string) error {
	if s == nil || s.limit <= 0 {
		return nil
	}
	return s.counter.Take(ctx, clientID, s.now().UTC().Format("2006-01-02"), s.limit)
}
