package domain

import "time"

// Itinerary pairs an outbound leg with a return leg.
type Itinerary struct {
	Outbound   Leg     `json:"outbound"`
	Return     Leg     `json:"return"`
	TotalPrice int     `json:"total_price"`
	DestHours  float64 `json:"dest_hours"`
}

func (i Itinerary) TotalStops() int {
	return i.Outbound.Stops + i.Return.Stops
}

func (i Itinerary) BothNonstop() bool {
	return i.Outbound.Nonstop() && i.Return.Nonstop()
}

// Search is the stored outcome of one round-trip search.
type Search struct {
	ID              string      `json:"id"`
	Origin          string      `json:"origin"`
	Destination     string      `json:"destination"`
	DepartDate      string      `json:"depart_date"`
	ReturnDate      string      `json:"return_date"`
	BookingURL      string      `json:"booking_url"`
	OutboundWindow  TimeWindow  `json:"outbound_window"`
	ReturnWindow    TimeWindow  `json:"return_window"`
	OutboundMatched int         `json:"outbound_matched"`
	ReturnMatched   int         `json:"return_matched"`
	Combinations    int         `json:"combinations"`
	NonstopCount    int         `json:"nonstop_count"`
	Itineraries     []Itinerary `json:"itineraries"`
	Frontier        []int       `json:"frontier"`
	Empty           bool        `json:"empty"`
	Message         string      `json:"message,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
}
