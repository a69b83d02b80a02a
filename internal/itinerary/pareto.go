package itinerary

import (
	"sort"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

const DefaultDisplayCap = 50

// Select bounds a price-sorted list to the cheapest limit itineraries that
// have a stop, plus every itinerary that is nonstop in both directions. The
// nonstop set is never truncated, so the result may exceed limit.
func Select(sorted []domain.Itinerary, limit int) []domain.Itinerary {
	if limit < 0 {
		limit = 0
	}
	var nonstop, withStops []domain.Itinerary
	for _, it := range sorted {
		if it.BothNonstop() {
			nonstop = append(nonstop, it)
			continue
		}
		withStops = append(withStops, it)
	}
	if len(withStops) > limit {
		withStops = withStops[:limit]
	}

	kept := make([]domain.Itinerary, 0, len(withStops)+len(nonstop))
	kept = append(kept, withStops...)
	kept = append(kept, nonstop...)
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].TotalPrice < kept[j].TotalPrice
	})
	return kept
}

// Frontier returns indices into its such that each listed itinerary offers
// strictly more time at the destination than every cheaper one. Candidates
// are scanned by price with ties favouring more dest-hours; the indices come
// back ordered by dest-hours so the frontier can be drawn left to right.
func Frontier(its []domain.Itinerary) []int {
	order := make([]int, len(its))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		x, y := its[order[a]], its[order[b]]
		if x.TotalPrice != y.TotalPrice {
			return x.TotalPrice < y.TotalPrice
		}
		return x.DestHours > y.DestHours
	})

	frontier := make([]int, 0)
	maxHours := -1.0
	for _, i := range order {
		if its[i].DestHours > maxHours {
			frontier = append(frontier, i)
			maxHours = its[i].DestHours
		}
	}

	sort.SliceStable(frontier, func(a, b int) bool {
		x, y := its[frontier[a]], its[frontier[b]]
		if x.DestHours != y.DestHours {
			return x.DestHours < y.DestHours
		}
		return x.TotalPrice < y.TotalPrice
	})
	return frontier
}
