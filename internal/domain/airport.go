package domain

import (
	"fmt"
	"time"
)

type Airport struct {
	Code     string `json:"code" yaml:"code"`
	City     string `json:"city" yaml:"city"`
	Name     string `json:"name" yaml:"name"`
	Timezone string `json:"timezone" yaml:"timezone"`
}

// DisplayName prefers the city, as travellers know airports by it.
func (a Airport) DisplayName() string {
	if a.City != "" {
		return a.City
	}
	return a.Name
}

func (a Airport) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(a.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q for %s: %w", a.Timezone, a.Code, err)
	}
	return loc, nil
}
