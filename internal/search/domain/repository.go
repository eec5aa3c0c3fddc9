package domain

import (
	"context"
	"time"
)

// ListingStore serves read-only snapshots of the listing collection.
type ListingStore interface {
	FindAll(ctx context.Context) ([]*Listing, error)
	// FindByID returns ErrNotFound when no listing has id.
	FindByID(ctx context.Context, id string) (*Listing, error)
	// FindByRegion returns listings whose city or state matches. It is a
	// coarse prefilter; callers still apply their own predicates.
	FindByRegion(ctx context.Context, city, state string) ([]*Listing, error)
}

// FavoriteRepository stores per-user saved listings. Add returns
// ErrFavoriteExists for a duplicate and Remove returns ErrNotFound when
// nothing was saved.
type FavoriteRepository interface {
	Add(ctx context.Context, favorite *Favorite) error
	Remove(ctx context.Context, userID, listingID string) error
	ListingIDsByUser(ctx context.Context, userID string) ([]string, error)
}

// CampusProvider is a live campus directory that may fail or time out.
type CampusProvider interface {
	Search(ctx context.Context, text string, limit int) ([]Campus, error)
}

type SearchCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}
