package engine

import (
	"cmp"
	"slices"

	"github.com/lukegrady1/Roomify/internal/search/domain"
)

// sortItems orders items in place. Every ordering is stable, so ties keep
// the snapshot order.
func sortItems(items []Item, by domain.SortOption) {
	switch by {
	case domain.SortPriceAsc:
		slices.SortStableFunc(items, func(a, b Item) int {
			return cmp.Compare(a.Listing.Price, b.Listing.Price)
		})
	case domain.SortPriceDesc:
		slices.SortStableFunc(items, func(a, b Item) int {
			return cmp.Compare(b.Listing.Price, a.Listing.Price)
		})
	case domain.SortNewest:
		slices.SortStableFunc(items, func(a, b Item) int {
			return b.Listing.CreatedAt.Compare(a.Listing.CreatedAt)
		})
	case domain.SortDistance:
		slices.SortStableFunc(items, compareDistance)
	}
}

// compareDistance puts listings without a distance after all others.
func compareDistance(a, b Item) int {
	switch {
	case a.DistanceMiles == nil && b.DistanceMiles == nil:
		return 0
	case a.DistanceMiles == nil:
		return 1
	case b.DistanceMiles == nil:
		return -1
	}
	return cmp.Compare(*a.DistanceMiles, *b.DistanceMiles)
}
