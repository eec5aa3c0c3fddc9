// Package engine evaluates search filters over a listing snapshot. It is
// pure: no I/O, no shared mutable state, safe for concurrent use.
package engine

import (
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/lukegrady1/Roomify/internal/search/format"
	"github.com/lukegrady1/Roomify/internal/search/geo"
)

// CampusLookup resolves the free-text campus filter. campus.Directory and
// campus.Service satisfy it.
type CampusLookup interface {
	FindByName(query string) *domain.Campus
}

// Criteria carries per-request context that is not part of the filters.
type Criteria struct {
	// ExcludeUserID drops listings owned by this user when set.
	ExcludeUserID string
}

type Item struct {
	Listing       *domain.Listing `json:"listing"`
	DistanceMiles *float64        `json:"distance_miles,omitempty"`
}

// Marker is a map pin for a result listing with known coordinates.
type Marker struct {
	ListingID string     `json:"listing_id"`
	Position  geo.LatLng `json:"position"`
	Label     string     `json:"label"`
}

type Result struct {
	Campus  *domain.Campus `json:"campus,omitempty"`
	Items   []Item         `json:"items"`
	Markers []Marker       `json:"markers"`
}

type Engine struct {
	campuses     CampusLookup
	proximity    ProximityFilter
	availability AvailabilityPolicy
}

type Option func(*Engine)

// WithProximity replaces the default SameRegion strategy.
func WithProximity(p ProximityFilter) Option {
	return func(e *Engine) {
		if p != nil {
			e.proximity = p
		}
	}
}

// WithAvailability replaces the default IgnoreDates policy.
func WithAvailability(a AvailabilityPolicy) Option {
	return func(e *Engine) {
		if a != nil {
			e.availability = a
		}
	}
}

func New(campuses CampusLookup, opts ...Option) *Engine {
	e := &Engine{
		campuses:     campuses,
		proximity:    SameRegion{},
		availability: IgnoreDates{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveCampus returns the campus named by the filter, or nil when the
// filter is empty or matches nothing.
func (e *Engine) ResolveCampus(name string) *domain.Campus {
	if name == "" || e.campuses == nil {
		return nil
	}
	return e.campuses.FindByName(name)
}

// RegionScoped reports whether every listing this engine could match for
// campus shares its city or state, so callers may prefetch by region.
func (e *Engine) RegionScoped(campus *domain.Campus) bool {
	if campus == nil {
		return false
	}
	if s, ok := e.proximity.(regionScoper); ok {
		return s.regionScoped(campus)
	}
	return false
}

// Search resolves the campus filter and evaluates f over listings. An
// unresolved campus imposes no location constraint.
func (e *Engine) Search(listings []*domain.Listing, f domain.SearchFilters, c Criteria) Result {
	return e.SearchCampus(listings, e.ResolveCampus(f.Campus), f, c)
}

// SearchCampus is Search with the campus already resolved.
func (e *Engine) SearchCampus(listings []*domain.Listing, campus *domain.Campus, f domain.SearchFilters, c Criteria) Result {
	match := e.predicate(campus, f, c)
	origin, hasOrigin := campus.Location()

	items := make([]Item, 0, len(listings))
	for _, l := range listings {
		if l == nil || !match(l) {
			continue
		}
		item := Item{Listing: l}
		if hasOrigin {
			if p, ok := l.Location(); ok {
				d := geo.Distance(origin, p)
				item.DistanceMiles = &d
			}
		}
		items = append(items, item)
	}

	sortItems(items, f.Sort)

	return Result{
		Campus:  campus,
		Items:   items,
		Markers: markers(items),
	}
}

// predicate builds the conjunction of every active constraint, cheapest
// first. Absent constraints are skipped entirely.
func (e *Engine) predicate(campus *domain.Campus, f domain.SearchFilters, c Criteria) func(*domain.Listing) bool {
	var checks []func(*domain.Listing) bool

	if campus != nil {
		checks = append(checks, e.proximity.ForCampus(campus))
	}
	if f.Min != nil {
		lo := *f.Min
		checks = append(checks, func(l *domain.Listing) bool { return l.Price >= lo })
	}
	if f.Max != nil {
		hi := *f.Max
		checks = append(checks, func(l *domain.Listing) bool { return l.Price <= hi })
	}
	if f.Room != "" {
		room := f.Room
		checks = append(checks, func(l *domain.Listing) bool { return l.RoomType == room })
	}
	if f.Beds != nil {
		beds := *f.Beds
		checks = append(checks, func(l *domain.Listing) bool { return l.BedroomCount() >= beds })
	}
	if f.Baths != nil {
		baths := *f.Baths
		checks = append(checks, func(l *domain.Listing) bool { return l.BathroomCount() >= baths })
	}
	if len(f.Amenities) > 0 {
		tags := f.Amenities
		checks = append(checks, func(l *domain.Listing) bool { return l.HasAnyAmenity(tags) })
	}
	if f.Start != nil || f.End != nil {
		start, end := f.Start, f.End
		checks = append(checks, func(l *domain.Listing) bool { return e.availability.Available(l, start, end) })
	}
	if c.ExcludeUserID != "" {
		owner := c.ExcludeUserID
		checks = append(checks, func(l *domain.Listing) bool { return l.UserID != owner })
	}

	return func(l *domain.Listing) bool {
		for _, check := range checks {
			if !check(l) {
				return false
			}
		}
		return true
	}
}

func markers(items []Item) []Marker {
	out := make([]Marker, 0, len(items))
	for _, it := range items {
		p, ok := it.Listing.Location()
		if !ok {
			continue
		}
		out = append(out, Marker{
			ListingID: it.Listing.ID,
			Position:  p,
			Label:     format.FormatPrice(it.Listing.Price),
		})
	}
	return out
}
