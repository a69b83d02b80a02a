package window

import (
	"time"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

// Dates lists every local calendar date from the After bound's date through
// the Before bound's date, inclusive. Empty or inverted windows yield nil.
func Dates(w domain.TimeWindow) []string {
	if w.Empty() {
		return nil
	}
	start := civil(*w.After)
	end := civil(*w.Before)

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
