package engine

import (
	"time"

	"github.com/lukegrady1/Roomify/internal/search/domain"
)

// AvailabilityPolicy decides whether a listing satisfies the requested
// move-in window. start and end may each be nil.
type AvailabilityPolicy interface {
	Available(l *domain.Listing, start, end *time.Time) bool
}

// IgnoreDates accepts every listing. Date filters round-trip through the
// query string but do not narrow results.
type IgnoreDates struct{}

func (IgnoreDates) Available(*domain.Listing, *time.Time, *time.Time) bool { return true }

// OverlapDates requires the listing window [MoveIn, MoveOut] to intersect
// the requested window. Missing bounds on either side are open-ended.
type OverlapDates struct{}

func (OverlapDates) Available(l *domain.Listing, start, end *time.Time) bool {
	if end != nil && l.MoveIn != nil && l.MoveIn.After(*end) {
		return false
	}
	if start != nil && l.MoveOut != nil && l.MoveOut.Before(*start) {
		return false
	}
	return true
}
