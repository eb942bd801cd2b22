// README: Quota tests (daily boundary, rejected calls not counted, disabled limit).
package quota

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func counters(t *testing.T) map[string]Counter {
	t.Helper()
	out := map[string]Counter{"memory": NewMemoryCounter()}
	if addr := os.Getenv("WANDER_TEST_REDIS"); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr})
		t.Cleanup(func() { client.Close() })
		out["redis"] = NewRedisCounter(client)
	}
	return out
}

func TestUseGeneration_Limit(t *testing.T) {
	for name, counter := range counters(t) {
		t.Run(name, func(t *testing.T) {
			svc := NewService(counter, 2)
			svc.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
			ctx := context.Background()
			client := fmt.Sprintf("client-%d", time.Now().UnixNano())

			for i := 0; i < 2; i++ {
				if err := svc.UseGeneration(ctx, client); err != nil {
					t.Fatalf("use %d: %v", i+1, err)
				}
			}
			for i := 0; i < 3; i++ {
				if err := svc.UseGeneration(ctx, client); err != ErrQuotaExceeded {
					t.Fatalf("expected ErrQuotaExceeded, got %v", err)
				}
			}

			// Next day resets.
			svc.now = func() time.Time { return time.Date(2026, 3, 2, 0, 0, 1, 0, time.UTC) }
			if err := svc.UseGeneration(ctx, client); err != nil {
				t.Fatalf("next day: %v", err)
			}
		})
	}
}

func TestUseGeneration_Disabled(t *testing.T) {
	svc := NewService(NewMemoryCounter(), 0)
	for i := 0; i < 100; i++ {
		if err := svc.UseGeneration(context.Background(), "c"); err != nil {
			t.Fatalf("disabled quota should never reject: %v", err)
		}
	}
	var nilSvc *Service
	if err := nilSvc.UseGeneration(context.Background(), "c"); err != nil {
		t.Fatalf("nil service should allow: %v", err)
	}
}

func TestMemoryCounter_DropsPreviousDays(t *testing.T) {
	c := NewMemoryCounter()
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		if err := c.Take(ctx, fmt.Sprintf("10.0.0.%d", i), "2026-03-01", 5); err != nil {
			t.Fatalf("take: %v", err)
		}
	}
	if len(c.counts) != 50 {
		t.Fatalf("expected 50 entries, got %d", len(c.counts))
	}

	if err := c.Take(ctx, "10.0.0.1", "2026-03-02", 5); err != nil {
		t.Fatalf("next day: %v", err)
	}
	if len(c.counts) != 1 || c.counts["10.0.0.1"] != 1 {
		t.Errorf("expected only today's entry, got %v", c.counts)
	}
}
