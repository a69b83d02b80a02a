// Package window turns loosely specified "depart after / arrive before" form
// values into concrete, timezone-anchored bounds and the calendar dates that
// must be queried to cover them.
package window

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/roundtrip/internal/domain"
	"github.com/Domenick1991/roundtrip/internal/legtext"
)

const DateLayout = "2006-01-02"

var ErrInvalidBound = errors.New("invalid window bound")

// Bound is one form edge: an ISO date and an optional time of day.
type Bound struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

func (b Bound) Given() bool {
	return strings.TrimSpace(b.Date) != ""
}

// Input holds the two raw edges of one direction.
type Input struct {
	After  Bound `json:"after"`
	Before Bound `json:"before"`
}

// Anchors are the zones of the physical events each edge constrains: the
// departure airport for After and the arrival airport for Before.
type Anchors struct {
	Depart *time.Location
	Arrive *time.Location
}

type completion int

const (
	completeNone completion = iota
	completeBoth
	completeBefore
	completeAfter
)

// decision maps (after given, before given) to the completion applied.
var decision = map[[2]bool]completion{
	{true, true}:   completeBoth,
	{true, false}:  completeBefore,
	{false, true}:  completeAfter,
	{false, false}: completeNone,
}

// Resolve produces the window for one direction. A direction with neither
// edge yields an empty window and no error; callers must reject it.
func Resolve(in Input, anchors Anchors) (domain.TimeWindow, error) {
	var w domain.TimeWindow
	if anchors.Depart == nil {
		anchors.Depart = time.UTC
	}
	if anchors.Arrive == nil {
		anchors.Arrive = time.UTC
	}

	after, err := instant(in.After, anchors.Depart)
	if err != nil {
		return w, fmt.Errorf("after: %w", err)
	}
	before, err := instant(in.Before, anchors.Arrive)
	if err != nil {
		return w, fmt.Errorf("before: %w", err)
	}

	switch decision[[2]bool{after != nil, before != nil}] {
	case completeBoth:
		if strings.TrimSpace(in.Before.Time) == "" {
			eod := time.Date(before.Year(), before.Month(), before.Day(), 23, 59, 0, 0, before.Location())
			before = &eod
		}
		w.After, w.Before = after, before
	case completeBefore:
		d := after.AddDate(0, 0, 1)
		synth := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 0, 0, anchors.Arrive)
		w.After, w.Before = after, &synth
	case completeAfter:
		d := before.AddDate(0, 0, -1)
		synth := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, anchors.Depart)
		w.After, w.Before = &synth, before
	}
	return w, nil
}

// instant localises b at loc. An omitted time of day means 00:00.
func instant(b Bound, loc *time.Location) (*time.Time, error) {
	if !b.Given() {
		return nil, nil
	}
	d, err := time.Parse(DateLayout, strings.TrimSpace(b.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: date %q", ErrInvalidBound, b.Date)
	}
	var h, m int
	if strings.TrimSpace(b.Time) != "" {
		h, m, err = legtext.ParseClock(b.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidBound, err)
		}
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, loc)
	return &t, nil
}
