// Package itinerary pairs outbound and return legs into round trips and picks
// the subset worth displaying.
package itinerary

import "github.com/Domenick1991/roundtrip/internal/domain"

type legKey struct {
	airline   string
	departure string
	arrival   string
	price     string
}

func keyOf(l domain.Leg) legKey {
	dep := l.DepartureText
	if dep == "" {
		dep = l.DepartureTime
	}
	arr := l.ArrivalText
	if arr == "" {
		arr = l.ArrivalTime
	}
	return legKey{airline: l.Airline, departure: dep, arrival: arr, price: l.PriceText}
}

// Dedup drops repeated legs, keeping the first occurrence of each
// (airline, departure, arrival, price) key in input order. When the full
// arrival text is missing the arrival time alone is used.
func Dedup(legs []domain.Leg) []domain.Leg {
	seen := make(map[legKey]struct{}, len(legs))
	out := make([]domain.Leg, 0, len(legs))
	for _, l := range legs {
		k := keyOf(l)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, l)
	}
	return out
}
