package domain

import "time"

// UnknownPrice is assigned to legs whose price text carries no digits so they
// sort after every priced leg.
const UnknownPrice = 999999

type Direction string

const (
	DirectionOutbound Direction = "outbound"
	DirectionReturn   Direction = "return"
)

// RawLeg is one record as delivered by the flight-data source for a queried date.
type RawLeg struct {
	Airline   string `json:"airline" yaml:"airline"`
	Departure string `json:"departure" yaml:"departure"`
	Arrival   string `json:"arrival" yaml:"arrival"`
	Duration  string `json:"duration" yaml:"duration"`
	Stops     int    `json:"stops" yaml:"stops"`
	Price     string `json:"price" yaml:"price"`
}

// Leg is a parsed one-way flight. DepartureAt and ArrivalAt are nil when the
// corresponding text could not be parsed.
type Leg struct {
	Airline       string     `json:"airline"`
	DepartureText string     `json:"departure_text"`
	ArrivalText   string     `json:"arrival_text"`
	DepartureTime string     `json:"departure_time,omitempty"`
	DepartureDate string     `json:"departure_date,omitempty"`
	ArrivalTime   string     `json:"arrival_time,omitempty"`
	ArrivalDate   string     `json:"arrival_date,omitempty"`
	DepartureAt   *time.Time `json:"departure_at,omitempty"`
	ArrivalAt     *time.Time `json:"arrival_at,omitempty"`
	Duration      string     `json:"duration"`
	Stops         int        `json:"stops"`
	PriceText     string     `json:"price_text"`
	Price         int        `json:"price"`
}

func (l Leg) Timed() bool {
	return l.DepartureAt != nil && l.ArrivalAt != nil
}

func (l Leg) Nonstop() bool {
	return l.Stops == 0
}
