package domain

import (
	"strings"

	"github.com/lukegrady1/Roomify/internal/search/geo"
)

// Campus is a university used as a search anchor. Campuses are reference
// data: loaded once at start-up and never mutated.
type Campus struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	City    string   `json:"city,omitempty"`
	State   string   `json:"state,omitempty"`
	Country string   `json:"country,omitempty"`
	Lat     *float64 `json:"lat,omitempty"`
	Lng     *float64 `json:"lng,omitempty"`
	Slug    string   `json:"slug,omitempty"`
}

// Location returns the campus coordinates when both are known.
func (c *Campus) Location() (geo.LatLng, bool) {
	if c == nil || c.Lat == nil || c.Lng == nil {
		return geo.LatLng{}, false
	}
	return geo.LatLng{Lat: *c.Lat, Lng: *c.Lng}, true
}

// SharesRegion reports whether city or state matches the campus, ignoring case.
// Empty values never match.
func (c *Campus) SharesRegion(city, state string) bool {
	if c == nil {
		return false
	}
	if c.City != "" && city != "" && strings.EqualFold(c.City, city) {
		return true
	}
	return c.State != "" && state != "" && strings.EqualFold(c.State, state)
}
