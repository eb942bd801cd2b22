package export

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"wanderlust/internal/modules/budget"
	"wanderlust/internal/modules/history"
	"wanderlust/internal/modules/itinerary"
)

func record(days int) *history.Record {
	it := &itinerary.ItineraryResponse{Destination: "Kyoto, Japan", Currency: "JPY"}
	for i := 1; i <= days; i++ {
		it.Days = append(it.Days, itinerary.DayPlan{
			DayNumber: i,
			Theme:     fmt.Sprintf("Day %d temples", i),
			Activities: []itinerary.Activity{
				{PlaceName: "Kinkaku-ji", Description: "Golden Pavilion", TimeSlot: "09:00 - 10:30", Cost: "¥500"},
				{PlaceName: "Nishiki Market", Description: "Street food lunch", TimeSlot: "12:00 - 13:30", Cost: "¥2,000-3,000"},
			},
		})
	}
	return &history.Record{
		ID:          "b3c1a2b4-0000-4000-8000-000000000001",
		Preferences: itinerary.TravelPreferences{Destination: "Kyoto, Japan", Duration: days, Interests: "temples, food"},
		Itinerary:   it,
		CreatedAt:   time.Now(),
	}
}

func TestRenderPDF(t *testing.T) {
	rec := record(2)
	s := budget.Summarize(rec.ID, rec.Itinerary, budget.Budget{
		Total: 20000,
		Costs: map[budget.ActivityKey]float64{{DayIndex: 0, ActivityIndex: 0}: 500},
	})

	var buf bytes.Buffer
	if err := RenderPDF(&buf, rec, &s); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output is not a PDF: %q", buf.Bytes()[:min(16, buf.Len())])
	}
	if !bytes.Contains(buf.Bytes(), []byte("%%EOF")) {
		t.Error("missing PDF trailer")
	}
}

func TestRenderPDF_WithoutBudget(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderPDF(&buf, record(1), nil); err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("empty output")
	}
}

func TestBuild_LongTripPaginates(t *testing.T) {
	pdf := build(record(30), nil)
	if pdf.Err() {
		t.Fatalf("pdf error: %v", pdf.Error())
	}
	if pdf.PageNo() < 2 {
		t.Errorf("expected multiple pages for a 30-day trip, got %d", pdf.PageNo())
	}
}
