// README: Printable PDF rendering of a stored itinerary with its budget figures.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/phpdave11/gofpdf"

	"wanderlust/internal/modules/budget"
	"wanderlust/internal/modules/history"
)

// RenderPDF writes rec as an A4 document. summary may be nil when no budget
// figures should be printed.
func RenderPDF(w io.Writer, rec *history.Record, summary *budget.Summary) error {
	pdf := build(rec, summary)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func build(rec *history.Record, summary *budget.Summary) *gofpdf.Fpdf {
	it := rec.Itinerary

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetMargins(20, 20, 20)
	pdf.SetTitle(tr(fmt.Sprintf("%d days in %s", len(it.Days), it.Destination)), false)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 20)
	pdf.CellFormat(0, 12, tr(it.Destination), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, tr(fmt.Sprintf("%d-day itinerary  |  Interests: %s  |  Currency: %s",
		len(it.Days), rec.Preferences.Interests, it.Currency)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	actual := map[budget.ActivityKey]float64{}
	if summary != nil {
		for _, line := range summary.Activities {
			actual[line.ActivityKey] = line.Actual
		}
	}

	for di, day := range it.Days {
		pdf.SetFillColor(230, 240, 250)
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("Day %d: %s", day.DayNumber, day.Theme)), "", 1, "L", true, 0, "")
		pdf.Ln(1)

		for ai, act := range day.Activities {
			pdf.SetFont("Arial", "B", 11)
			pdf.CellFormat(40, 6, tr(act.TimeSlot), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, tr(act.PlaceName), "", 1, "L", false, 0, "")

			pdf.SetFont("Arial", "", 10)
			pdf.SetX(60)
			pdf.MultiCell(0, 5, tr(act.Description), "", "L", false)

			cost := "Cost: " + act.Cost
			if v, ok := actual[budget.ActivityKey{DayIndex: di, ActivityIndex: ai}]; ok && v > 0 {
				cost += fmt.Sprintf("  |  Spent: %s", money(v, it.Currency))
			}
			pdf.SetFont("Arial", "I", 9)
			pdf.SetX(60)
			pdf.CellFormat(0, 5, tr(cost), "", 1, "L", false, 0, "")
			pdf.Ln(2)
		}
		pdf.Ln(3)
	}

	if summary != nil && summary.Total > 0 {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, "Budget", "T", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		rows := [][2]string{
			{"Total budget", money(summary.Total, summary.Currency)},
			{"Spent", money(summary.Spent, summary.Currency)},
			{"Remaining", money(summary.Remaining, summary.Currency)},
			{"Daily average remaining", money(summary.DailyAverageRemaining, summary.Currency)},
			{"Estimated from quoted costs", money(summary.EstimatedTotal, summary.Currency)},
		}
		for _, r := range rows {
			pdf.CellFormat(70, 6, r[0], "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, tr(r[1]), "", 1, "R", false, 0, "")
		}
	}
	return pdf
}

func money(v float64, currency string) string {
	return strings.TrimSpace(fmt.Sprintf("%s %.2f", currency, v))
}
