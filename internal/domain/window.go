package domain

import "time"

// TimeWindow bounds one direction of travel. After constrains the departure
// and Before constrains the arrival; both bounds are inclusive.
type TimeWindow struct {
	After  *time.Time `json:"after,omitempty"`
	Before *time.Time `json:"before,omitempty"`
}

func (w TimeWindow) Empty() bool {
	return w.After == nil || w.Before == nil
}

// Admits reports whether a timed leg departs no earlier than After and
// arrives no later than Before. Untimed legs are never admitted.
func (w TimeWindow) Admits(l Leg) bool {
	if !l.Timed() {
		return false
	}
	if w.After != nil && l.DepartureAt.Before(*w.After) {
		return false
	}
	if w.Before != nil && l.ArrivalAt.After(*w.Before) {
		return false
	}
	return true
}
