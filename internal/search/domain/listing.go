package domain

import (
	"time"

	"github.com/lukegrady1/Roomify/internal/search/geo"
)

type RoomType string

const (
	RoomEntire  RoomType = "entire"
	RoomPrivate RoomType = "private"
	RoomShared  RoomType = "shared"
)

// ParseRoomType accepts only the three enumerated room types.
func ParseRoomType(s string) (RoomType, bool) {
	switch rt := RoomType(s); rt {
	case RoomEntire, RoomPrivate, RoomShared:
		return rt, true
	}
	return "", false
}

// Listing is a rentable unit owned by a host. The search core only reads it.
type Listing struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	CampusID    string     `json:"campus_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Price       int        `json:"price"` // whole dollars per month
	RoomType    RoomType   `json:"room_type"`
	Bedrooms    *int       `json:"bedrooms,omitempty"`
	Bathrooms   *int       `json:"bathrooms,omitempty"`
	City        string     `json:"city,omitempty"`
	State       string     `json:"state,omitempty"`
	Lat         *float64   `json:"lat,omitempty"`
	Lng         *float64   `json:"lng,omitempty"`
	MoveIn      *time.Time `json:"move_in,omitempty"`
	MoveOut     *time.Time `json:"move_out,omitempty"`
	Amenities   []string   `json:"amenities,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Location returns the listing coordinates when both are known.
func (l *Listing) Location() (geo.LatLng, bool) {
	if l == nil || l.Lat == nil || l.Lng == nil {
		return geo.LatLng{}, false
	}
	return geo.LatLng{Lat: *l.Lat, Lng: *l.Lng}, true
}

// BedroomCount treats an unset bedroom count as zero.
func (l *Listing) BedroomCount() int {
	if l.Bedrooms == nil {
		return 0
	}
	return *l.Bedrooms
}

// BathroomCount treats an unset bathroom count as zero.
func (l *Listing) BathroomCount() int {
	if l.Bathrooms == nil {
		return 0
	}
	return *l.Bathrooms
}

// HasAnyAmenity reports whether the listing carries at least one of tags.
func (l *Listing) HasAnyAmenity(tags []string) bool {
	for _, have := range l.Amenities {
		for _, want := range tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

type Favorite struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ListingID string    `json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
}
