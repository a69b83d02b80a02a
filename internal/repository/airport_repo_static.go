package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Domenick1991/roundtrip/internal/domain"
)

// DefaultAirports covers common hubs when no directory is configured.
var DefaultAirports = []domain.Airport{
	{Code: "SFO", City: "San Francisco", Name: "San Francisco International Airport", Timezone: "America/Los_Angeles"},
	{Code: "LAX", City: "Los Angeles", Name: "Los Angeles International Airport", Timezone: "America/Los_Angeles"},
	{Code: "SEA", City: "Seattle", Name: "Seattle-Tacoma International Airport", Timezone: "America/Los_Angeles"},
	{Code: "DEN", City: "Denver", Name: "Denver International Airport", Timezone: "America/Denver"},
	{Code: "ORD", City: "Chicago", Name: "Chicago O'Hare International Airport", Timezone: "America/Chicago"},
	{Code: "BOS", City: "Boston", Name: "General Edward Lawrence Logan International Airport", Timezone: "America/New_York"},
	{Code: "JFK", City: "New York", Name: "John F Kennedy International Airport", Timezone: "America/New_York"},
	{Code: "LHR", City: "London", Name: "London Heathrow Airport", Timezone: "Europe/London"},
	{Code: "CDG", City: "Paris", Name: "Charles de Gaulle International Airport", Timezone: "Europe/Paris"},
	{Code: "NRT", City: "Tokyo", Name: "Narita International Airport", Timezone: "Asia/Tokyo"},
	{Code: "HNL", City: "Honolulu", Name: "Daniel K Inouye International Airport", Timezone: "Pacific/Honolulu"},
}

type StaticAirportRepository struct {
	airports map[string]domain.Airport
}

func NewStaticAirportRepository(airports []domain.Airport) AirportRepository {
	r := &StaticAirportRepository{airports: make(map[string]domain.Airport, len(airports))}
	for _, a := range airports {
		a.Code = strings.ToUpper(a.Code)
		r.airports[a.Code] = a
	}
	return r
}

func (r *StaticAirportRepository) GetByCode(_ context.Context, code string) (*domain.Airport, error) {
	a, ok := r.airports[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, ErrAirportNotFound
	}
	return &a, nil
}

// Fallback consults primary first and falls back to secondary only when
// primary does not know the airport.
func Fallback(primary, secondary AirportRepository) AirportRepository {
	return &fallbackRepository{primary: primary, secondary: secondary}
}

type fallbackRepository struct {
	primary, secondary AirportRepository
}

func (r *fallbackRepository) GetByCode(ctx context.Context, code string) (*domain.Airport, error) {
	a, err := r.primary.GetByCode(ctx, code)
	if err == nil || !errors.Is(err, ErrAirportNotFound) {
		return a, err
	}
	return r.secondary.GetByCode(ctx, code)
}

var _ AirportRepository = (*StaticAirportRepository)(nil)
