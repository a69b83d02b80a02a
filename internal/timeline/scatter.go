package timeline

import (
	"fmt"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

// Point is one itinerary on the price vs. dest-hours chart.
type Point struct {
	Index     int     `json:"index"`
	DestHours float64 `json:"x"`
	Price     int     `json:"y"`
	Severity  string  `json:"severity"`
	Label     string  `json:"label"`
}

type Chart struct {
	Points   []Point `json:"points"`
	Frontier []Point `json:"frontier"`
}

// Scatter plots every itinerary, coloured by the total stop count of the
// round trip, and lists the frontier points in the order given.
func Scatter(its []domain.Itinerary, frontier []int) Chart {
	chart := Chart{
		Points:   make([]Point, 0, len(its)),
		Frontier: make([]Point, 0, len(frontier)),
	}
	for i, it := range its {
		chart.Points = append(chart.Points, point(i, it))
	}
	for _, i := range frontier {
		if i < 0 || i >= len(its) {
			continue
		}
		chart.Frontier = append(chart.Frontier, point(i, its[i]))
	}
	return chart
}

func point(i int, it domain.Itinerary) Point {
	return Point{
		Index:     i,
		DestHours: it.DestHours,
		Price:     it.TotalPrice,
		Severity:  Severity(it.TotalStops()),
		Label:     fmt.Sprintf("$%d %s/%s", it.TotalPrice, it.Outbound.Airline, it.Return.Airline),
	}
}
