// README: Budget tracker tests; Postgres-backed cases skip unless WANDER_TEST_DSN is set.
package budget

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"wanderlust/internal/infra"
	"wanderlust/internal/modules/history"
	"wanderlust/internal/modules/itinerary"
)

func TestEstimateCost(t *testing.T) {
	cases := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"Free", 0, true},
		{"Free entry", 0, true},
		{"Gratis", 0, true},
		{"¥500", 500, true},
		{"Rp 50.000", 50000, true},
		{"IDR 150.000", 150000, true},
		{"VND 90,000", 90000, true},
		{"$10-20", 10, true},
		{"$12.50", 12.5, true},
		{"€1.234,50", 1234.5, true},
		{"$1,234.50 per person", 1234.5, true},
		{"1.000.000 IDR", 1000000, true},
		{"Around 15 EUR.", 15, true},
		{"Varies", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := EstimateCost(tc.in)
		if ok != tc.ok || math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("EstimateCost(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func sampleItinerary() *itinerary.ItineraryResponse {
	return &itinerary.ItineraryResponse{
		Destination: "Tokyo, Japan",
		Currency:    "JPY",
		Days: []itinerary.DayPlan{
			{DayNumber: 1, Theme: "Asakusa", Activities: []itinerary.Activity{
				{PlaceName: "Senso-ji", Description: "Temple", TimeSlot: "09:00 - 10:00", Cost: "Free"},
				{PlaceName: "Tokyo Skytree", Description: "View", TimeSlot: "11:00 - 12:00", Cost: "¥2,100"},
			}},
			{DayNumber: 2, Theme: "Shibuya", Activities: []itinerary.Activity{
				{PlaceName: "Shibuya Crossing", Description: "Walk", TimeSlot: "18:00 - 19:00", Cost: "Varies"},
			}},
		},
	}
}

func TestSummarize(t *testing.T) {
	b := Budget{
		Total: 10000,
		Costs: map[ActivityKey]float64{
			{DayIndex: 0, ActivityIndex: 1}: 2100,
			{DayIndex: 1, ActivityIndex: 0}: 900,
		},
	}
	s := Summarize("id-1", sampleItinerary(), b)

	if s.Spent != 3000 || s.Remaining != 7000 {
		t.Errorf("spent/remaining = %v/%v", s.Spent, s.Remaining)
	}
	if s.DailyAverageRemaining != 3500 {
		t.Errorf("daily average = %v, want 3500", s.DailyAverageRemaining)
	}
	if s.EstimatedTotal != 2100 || s.UnpricedActivities != 1 {
		t.Errorf("estimate = %v, unpriced = %d", s.EstimatedTotal, s.UnpricedActivities)
	}
	if len(s.Activities) != 3 || s.Activities[1].Actual != 2100 {
		t.Errorf("unexpected activity lines %+v", s.Activities)
	}
	if s.Currency != "JPY" {
		t.Errorf("currency = %q", s.Currency)
	}
	if got := s.Activities[1].PriceSearchURL; got != "https://www.google.com/search?q=Tokyo+Skytree+ticket+price" {
		t.Errorf("price search url = %q", got)
	}
}

func TestSummarize_OverBudget(t *testing.T) {
	b := Budget{Total: 100, Costs: map[ActivityKey]float64{{DayIndex: 0, ActivityIndex: 0}: 300}}
	s := Summarize("id-1", sampleItinerary(), b)
	if s.Remaining != -200 {
		t.Errorf("remaining = %v, want -200", s.Remaining)
	}
	if s.DailyAverageRemaining != 0 {
		t.Errorf("daily average must not go negative, got %v", s.DailyAverageRemaining)
	}
}

type fixture struct {
	svc *Service
	id  string
}

func fixtures(t *testing.T) map[string]fixture {
	t.Helper()
	ctx := context.Background()
	out := make(map[string]fixture)

	hist := history.NewService(history.NewMemoryStore())
	id, err := hist.Save(ctx, itinerary.TravelPreferences{Destination: "Tokyo, Japan", Duration: 2, Interests: "food"}, sampleItinerary())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	out["memory"] = fixture{svc: NewService(NewMemoryStore(), hist), id: id}

	dsn := os.Getenv("WANDER_TEST_DSN")
	if dsn == "" {
		return out
	}
	db, err := infra.NewDB(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	root, err := infra.RepoRoot()
	if err != nil {
		t.Fatalf("repo root: %v", err)
	}
	if err := infra.ApplyMigrations(ctx, db, filepath.Join(root, "migrations")); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	pgHist := history.NewService(history.NewPGStore(db))
	pgID, err := pgHist.Save(ctx, itinerary.TravelPreferences{Destination: "Tokyo, Japan", Duration: 2, Interests: "food"}, sampleItinerary())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	out["postgres"] = fixture{svc: NewService(NewPGStore(db), pgHist), id: pgID}
	return out
}

func ptr(v float64) *float64 { return &v }

func TestService_TrackCosts(t *testing.T) {
	for name, fx := range fixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			s, err := fx.svc.SetTotal(ctx, fx.id, 5000)
			if err != nil {
				t.Fatalf("SetTotal: %v", err)
			}
			if s.Total != 5000 || s.Remaining != 5000 {
				t.Fatalf("unexpected summary %+v", s)
			}

			s, err = fx.svc.SetActivityCost(ctx, fx.id, ActivityKey{DayIndex: 0, ActivityIndex: 1}, ptr(2100))
			if err != nil {
				t.Fatalf("SetActivityCost: %v", err)
			}
			if s.Spent != 2100 || s.Remaining != 2900 || s.DailyAverageRemaining != 1450 {
				t.Fatalf("unexpected summary %+v", s)
			}

			// Updating replaces the previous amount.
			s, _ = fx.svc.SetActivityCost(ctx, fx.id, ActivityKey{DayIndex: 0, ActivityIndex: 1}, ptr(2000))
			if s.Spent != 2000 {
				t.Errorf("spent after update = %v", s.Spent)
			}

			// Clearing counts as zero.
			s, err = fx.svc.SetActivityCost(ctx, fx.id, ActivityKey{DayIndex: 0, ActivityIndex: 1}, nil)
			if err != nil {
				t.Fatalf("clear: %v", err)
			}
			if s.Spent != 0 || s.Remaining != 5000 {
				t.Errorf("unexpected summary after clear %+v", s)
			}
		})
	}
}

func TestService_Rejects(t *testing.T) {
	for name, fx := range fixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			if _, err := fx.svc.SetTotal(ctx, fx.id, -1); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("negative total: got %v", err)
			}
			if _, err := fx.svc.SetActivityCost(ctx, fx.id, ActivityKey{0, 0}, ptr(-5)); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("negative cost: got %v", err)
			}
			if _, err := fx.svc.SetActivityCost(ctx, fx.id, ActivityKey{0, 0}, ptr(math.NaN())); !errors.Is(err, ErrInvalidAmount) {
				t.Errorf("NaN cost: got %v", err)
			}
			for _, key := range []ActivityKey{{2, 0}, {1, 1}, {-1, 0}} {
				if _, err := fx.svc.SetActivityCost(ctx, fx.id, key, ptr(1)); !errors.Is(err, ErrActivityOutOfRange) {
					t.Errorf("key %+v: got %v", key, err)
				}
			}
			if _, err := fx.svc.Summary(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, history.ErrNotFound) {
				t.Errorf("unknown itinerary: got %v", err)
			}
		})
	}
}
