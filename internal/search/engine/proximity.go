package engine

import (
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/lukegrady1/Roomify/internal/search/geo"
)

// ProximityFilter decides which listings count as near a resolved campus.
type ProximityFilter interface {
	ForCampus(campus *domain.Campus) func(*domain.Listing) bool
}

type regionScoper interface {
	regionScoped(campus *domain.Campus) bool
}

// SameRegion matches listings in the campus city or state, ignoring case.
type SameRegion struct{}

func (SameRegion) ForCampus(campus *domain.Campus) func(*domain.Listing) bool {
	return func(l *domain.Listing) bool {
		return campus.SharesRegion(l.City, l.State)
	}
}

func (SameRegion) regionScoped(*domain.Campus) bool { return true }

// WithinRadius matches listings no further than Miles from the campus.
// Listings without coordinates never match. A campus without coordinates
// degrades to SameRegion.
type WithinRadius struct {
	Miles float64
}

func (w WithinRadius) ForCampus(campus *domain.Campus) func(*domain.Listing) bool {
	center, ok := campus.Location()
	if !ok {
		return SameRegion{}.ForCampus(campus)
	}
	box := geo.BoundsAround(center, w.Miles)
	return func(l *domain.Listing) bool {
		p, ok := l.Location()
		if !ok || !geo.InBounds(p, box) {
			return false
		}
		return geo.Distance(center, p) <= w.Miles
	}
}

func (w WithinRadius) regionScoped(campus *domain.Campus) bool {
	_, ok := campus.Location()
	return !ok
}
