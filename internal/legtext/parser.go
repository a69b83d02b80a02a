// Package legtext parses the free-text time descriptions that flight-data
// sources attach to each leg, e.g. "2:30 PM on Tue, Mar 10".
package legtext

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

var (
	ErrEmptyClock   = errors.New("time of day is empty")
	ErrInvalidClock = errors.New("time of day is not recognised")
)

// Sources separate the meridiem with U+202F and sometimes pad with U+00A0.
const space = `[\s\x{00A0}\x{202F}]`

var (
	stampRe = regexp.MustCompile(`(?i)^` + space + `*(\d{1,2}:\d{2}(?:` + space + `*[AP]M)?)` + space + `+on` + space + `+(.*\S)` + space + `*$`)
	clockRe = regexp.MustCompile(`(?i)^` + space + `*(\d{1,2})(?::(\d{2}))?` + space + `*([AP]M)?` + space + `*$`)
	dayRe   = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?` + space + `+(\d{1,2})\b`)
	digitRe = regexp.MustCompile(`\D`)
)

var months = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Stamp is the structured form of "<time> on <date-description>".
type Stamp struct {
	Time   string
	Date   string
	Hour   int
	Minute int
}

// Parse extracts the time and date parts of a leg description. It reports
// false when the text has neither the 12-hour nor the 24-hour shape.
func Parse(text string) (Stamp, bool) {
	m := stampRe.FindStringSubmatch(text)
	if m == nil {
		return Stamp{}, false
	}
	h, mi, err := ParseClock(m[1])
	if err != nil {
		return Stamp{}, false
	}
	return Stamp{
		Time:   strings.TrimSpace(m[1]),
		Date:   strings.TrimSpace(m[2]),
		Hour:   h,
		Minute: mi,
	}, true
}

// ParseClock accepts "2:30 PM", "2 pm", "14:30" and "14". A missing minute
// means :00.
func ParseClock(s string) (hour, minute int, err error) {
	if strings.TrimSpace(s) == "" {
		return 0, 0, ErrEmptyClock
	}
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, _ = strconv.Atoi(m[1])
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	if minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}

	switch strings.ToUpper(m[3]) {
	case "":
		if hour > 23 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	case "AM":
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour < 1 || hour > 12 {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
		if hour != 12 {
			hour += 12
		}
	}
	return hour, minute, nil
}

// MonthDay finds the first "<Mon> <day>" pair in a date description.
func MonthDay(desc string) (time.Month, int, bool) {
	m := dayRe.FindStringSubmatch(desc)
	if m == nil {
		return 0, 0, false
	}
	day, err := strconv.Atoi(m[2])
	if err != nil || day < 1 {
		return 0, 0, false
	}
	return months[strings.ToLower(m[1])], day, true
}

// In resolves the stamp to an instant in loc. The year is inferred from ref,
// the date that was queried.
func (s Stamp) In(ref time.Time, loc *time.Location) (time.Time, bool) {
	month, day, ok := MonthDay(s.Date)
	if !ok {
		return time.Time{}, false
	}
	year := InferYear(month, ref)
	if day > daysIn(year, month) {
		return time.Time{}, false
	}
	return time.Date(year, month, day, s.Hour, s.Minute, 0, 0, loc), true
}

// InferYear places month in the year of ref, rolling forward or back when the
// month is more than six months away (a Dec 31 query arriving on Jan 1).
func InferYear(month time.Month, ref time.Time) int {
	diff := int(month) - int(ref.Month())
	switch {
	case diff < -6:
		return ref.Year() + 1
	case diff > 6:
		return ref.Year() - 1
	default:
		return ref.Year()
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParsePrice keeps only the digits of a price text. Texts without digits
// yield domain.UnknownPrice.
func ParsePrice(s string) int {
	digits := digitRe.ReplaceAllString(s, "")
	if digits == "" {
		return domain.UnknownPrice
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		return domain.UnknownPrice
	}
	return v
}

// Build converts a raw record into a Leg. Departure is localised at depLoc and
// arrival at arrLoc; either instant stays nil when its text does not parse.
func Build(raw domain.RawLeg, queried time.Time, depLoc, arrLoc *time.Location) domain.Leg {
	leg := domain.Leg{
		Airline:       raw.Airline,
		DepartureText: raw.Departure,
		ArrivalText:   raw.Arrival,
		Duration:      raw.Duration,
		Stops:         raw.Stops,
		PriceText:     raw.Price,
		Price:         ParsePrice(raw.Price),
	}
	if st, ok := Parse(raw.Departure); ok {
		leg.DepartureTime, leg.DepartureDate = st.Time, st.Date
		if at, ok := st.In(queried, depLoc); ok {
			leg.DepartureAt = &at
		}
	}
	if st, ok := Parse(raw.Arrival); ok {
		leg.ArrivalTime, leg.ArrivalDate = st.Time, st.Date
		if at, ok := st.In(queried, arrLoc); ok {
			leg.ArrivalAt = &at
		}
	}
	return leg
}
