// Package timeline computes proportional geometry for a two-zone Gantt row
// per itinerary: the outbound zone on the left and the return zone on the
// right, each normalised to 0-100%.
package timeline

import (
	"fmt"
	"time"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

// Bar places one leg inside its zone. Pre, Width and Post are percentages of
// the zone and sum to 100.
type Bar struct {
	Pre         float64 `json:"pre"`
	Width       float64 `json:"width"`
	Post        float64 `json:"post"`
	DepartLabel string  `json:"depart_label"`
	ArriveLabel string  `json:"arrive_label"`
	Stops       int     `json:"stops"`
	Severity    string  `json:"severity"`
	Airline     string  `json:"airline"`
}

type Row struct {
	Index     int     `json:"index"`
	Price     int     `json:"price"`
	DestHours float64 `json:"dest_hours"`
	Outbound  Bar     `json:"outbound"`
	Return    Bar     `json:"return"`
}

// Layout is shared by every row: OutboundFlex and ReturnFlex split the row
// width between the two zones in proportion to their durations.
type Layout struct {
	OutboundFlex  float64   `json:"outbound_flex"`
	ReturnFlex    float64   `json:"return_flex"`
	OutboundStart time.Time `json:"outbound_start"`
	OutboundEnd   time.Time `json:"outbound_end"`
	ReturnStart   time.Time `json:"return_start"`
	ReturnEnd     time.Time `json:"return_end"`
	Rows          []Row     `json:"rows"`
}

type zone struct {
	start, end time.Time
}

// span is the zone duration in seconds; a zero-length zone counts as one
// second so proportions stay finite.
func (z zone) span() float64 {
	s := z.end.Sub(z.start).Seconds()
	if s == 0 {
		return 1
	}
	return s
}

func (z zone) place(dep, arr time.Time) (pre, width, post float64) {
	s := z.span()
	pre = dep.Sub(z.start).Seconds() / s * 100
	width = arr.Sub(dep).Seconds() / s * 100
	post = z.end.Sub(arr).Seconds() / s * 100
	return pre, width, post
}

// Build lays out the itineraries selected by indices. Itineraries with any
// missing instant are skipped. The returned Layout has no rows when nothing
// can be placed.
func Build(its []domain.Itinerary, indices []int) Layout {
	var entries []int
	for _, i := range indices {
		if i < 0 || i >= len(its) {
			continue
		}
		if !its[i].Outbound.Timed() || !its[i].Return.Timed() {
			continue
		}
		entries = append(entries, i)
	}
	if len(entries) == 0 {
		return Layout{}
	}

	first := its[entries[0]]
	out := zone{start: first.Outbound.DepartureAt.UTC(), end: first.Outbound.ArrivalAt.UTC()}
	ret := zone{start: first.Return.DepartureAt.UTC(), end: first.Return.ArrivalAt.UTC()}
	for _, i := range entries[1:] {
		it := its[i]
		out.start = earliest(out.start, it.Outbound.DepartureAt.UTC())
		out.end = latest(out.end, it.Outbound.ArrivalAt.UTC())
		ret.start = earliest(ret.start, it.Return.DepartureAt.UTC())
		ret.end = latest(ret.end, it.Return.ArrivalAt.UTC())
	}

	total := out.span() + ret.span()
	layout := Layout{
		OutboundFlex:  out.span() / total * 100,
		ReturnFlex:    ret.span() / total * 100,
		OutboundStart: out.start,
		OutboundEnd:   out.end,
		ReturnStart:   ret.start,
		ReturnEnd:     ret.end,
		Rows:          make([]Row, 0, len(entries)),
	}
	for _, i := range entries {
		it := its[i]
		layout.Rows = append(layout.Rows, Row{
			Index:     i,
			Price:     it.TotalPrice,
			DestHours: it.DestHours,
			Outbound:  bar(out, it.Outbound),
			Return:    bar(ret, it.Return),
		})
	}
	return layout
}

func bar(z zone, l domain.Leg) Bar {
	pre, width, post := z.place(l.DepartureAt.UTC(), l.ArrivalAt.UTC())
	return Bar{
		Pre:         pre,
		Width:       width,
		Post:        post,
		DepartLabel: ShortTime(*l.DepartureAt),
		ArriveLabel: ShortTime(*l.ArrivalAt),
		Stops:       l.Stops,
		Severity:    Severity(l.Stops),
		Airline:     l.Airline,
	}
}

// ShortTime renders the local wall clock compactly: "9:30a", "10p", "12a".
func ShortTime(t time.Time) string {
	suffix := "a"
	if t.Hour() >= 12 {
		suffix = "p"
	}
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	if t.Minute() != 0 {
		return fmt.Sprintf("%d:%02d%s", h, t.Minute(), suffix)
	}
	return fmt.Sprintf("%d%s", h, suffix)
}

// Severity classes stop counts for styling: s0 nonstop through s3 for three
// or more stops.
func Severity(stops int) string {
	switch {
	case stops <= 0:
		return "s0"
	case stops == 1:
		return "s1"
	case stops == 2:
		return "s2"
	default:
		return "s3"
	}
}

func earliest(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func latest(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
