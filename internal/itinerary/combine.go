package itinerary

import (
	"math"
	"sort"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

// Combine cross-joins outbound and return legs. A pair survives only when the
// return departs strictly after the outbound arrives. The result is ordered by
// total price; equal totals keep outbound-then-return discovery order.
func Combine(outbound, returns []domain.Leg) []domain.Itinerary {
	pairs := make([]domain.Itinerary, 0)
	for _, o := range outbound {
		if o.ArrivalAt == nil {
			continue
		}
		for _, r := range returns {
			if r.DepartureAt == nil {
				continue
			}
			gap := r.DepartureAt.Sub(*o.ArrivalAt)
			if gap <= 0 {
				continue
			}
			pairs = append(pairs, domain.Itinerary{
				Outbound:   o,
				Return:     r,
				TotalPrice: o.Price + r.Price,
				DestHours:  math.Round(gap.Hours()*10) / 10,
			})
		}
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].TotalPrice < pairs[j].TotalPrice
	})
	return pairs
}
