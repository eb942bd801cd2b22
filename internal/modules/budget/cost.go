package budget

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"wanderlust/internal/maps"
	"wanderlust/internal/modules/itinerary"
)

var numberPattern = regexp.MustCompile(`\d[\d.,]*`)

var freeWords = []string{"free", "gratis", "no charge", "no cost"}

// EstimateCost reads a number out of a free-text cost such as "¥500",
// "Rp 50.000", "$10-20" (lower bound) or "Free". ok is false when the text
// holds no price.
func EstimateCost(cost string) (float64, bool) {
	text := strings.ToLower(strings.TrimSpace(cost))
	if text == "" {
		return 0, false
	}
	for _, w := range freeWords {
		if strings.Contains(text, w) {
			return 0, true
		}
	}
	token := numberPattern.FindString(text)
	if token == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(normalizeNumber(strings.TrimRight(token, ".,")), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// normalizeNumber converts a token using either ',' or '.' as thousands
// separator into a plain decimal string.
func normalizeNumber(tok string) string {
	lastDot := strings.LastIndex(tok, ".")
	lastComma := strings.LastIndex(tok, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		dec, thou := ".", ","
		if lastComma > lastDot {
			dec, thou = ",", "."
		}
		tok = strings.ReplaceAll(tok, thou, "")
		return strings.Replace(tok, dec, ".", 1)
	case lastDot >= 0:
		return oneSeparator(tok, ".")
	case lastComma >= 0:
		return oneSeparator(tok, ",")
	}
	return tok
}

func oneSeparator(tok, sep string) string {
	parts := strings.Split(tok, sep)
	if len(parts) > 2 || len(parts[len(parts)-1]) == 3 {
		return strings.Join(parts, "")
	}
	return strings.Join(parts, ".")
}

// Summarize computes totals for it. Remaining may be negative; the daily
// average never is.
func Summarize(id string, it *itinerary.ItineraryResponse, b Budget) Summary {
	s := Summary{
		ItineraryID: id,
		Currency:    it.Currency,
		Total:       b.Total,
		Activities:  []ActivityLine{},
	}
	for di, day := range it.Days {
		for ai, act := range day.Activities {
			key := ActivityKey{DayIndex: di, ActivityIndex: ai}
			line := ActivityLine{
				ActivityKey:    key,
				PlaceName:      act.PlaceName,
				Quoted:         act.Cost,
				Actual:         b.Costs[key],
				PriceSearchURL: maps.PriceSearchURL(act.PlaceName),
			}
			if v, ok := EstimateCost(act.Cost); ok {
				line.Estimate = &v
				s.EstimatedTotal += v
			} else {
				s.UnpricedActivities++
			}
			s.Activities = append(s.Activities, line)
		}
	}
	for _, v := range b.Costs {
		s.Spent += v
	}
	s.Remaining = s.Total - s.Spent
	if n := len(it.Days); n > 0 {
		s.DailyAverageRemaining = math.Max(0, s.Remaining/float64(n))
	}
	return s
}
