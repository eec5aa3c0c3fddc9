package mongodb

import (
	"fmt"
	"time"

	"github.com/lukegrady1/Roomify/internal/search/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// pointDocument is a GeoJSON point. Coordinates are [lng, lat].
type pointDocument struct {
	Type        string    `bson:"type"`
	Coordinates []float64 `bson:"coordinates"`
}

type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"user_id"`
	CampusID    string             `bson:"campus_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Price       int                `bson:"price"`
	RoomType    string             `bson:"room_type"`
	Bedrooms    *int               `bson:"bedrooms,omitempty"`
	Bathrooms   *int               `bson:"bathrooms,omitempty"`
	City        string             `bson:"city,omitempty"`
	State       string             `bson:"state,omitempty"`
	Location    *pointDocument     `bson:"location,omitempty"`
	MoveIn      *time.Time         `bson:"move_in,omitempty"`
	MoveOut     *time.Time         `bson:"move_out,omitempty"`
	Amenities   []string           `bson:"amenities,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}

type favoriteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    string             `bson:"user_id"`
	ListingID string             `bson:"listing_id"`
	CreatedAt time.Time          `bson:"created_at"`
}

// toListingDocument keeps an existing hex id and leaves a blank one for the
// server to fill.
func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	doc := &listingDocument{
		UserID:      l.UserID,
		CampusID:    l.CampusID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		RoomType:    string(l.RoomType),
		Bedrooms:    l.Bedrooms,
		Bathrooms:   l.Bathrooms,
		City:        l.City,
		State:       l.State,
		MoveIn:      l.MoveIn,
		MoveOut:     l.MoveOut,
		Amenities:   l.Amenities,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
	if l.ID != "" {
		oid, err := primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("listing id %q: %w", l.ID, domain.ErrInvalidListingID)
		}
		doc.ID = oid
	}
	if p, ok := l.Location(); ok {
		doc.Location = &pointDocument{Type: "Point", Coordinates: []float64{p.Lng, p.Lat}}
	}
	return doc, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	l := &domain.Listing{
		ID:          d.ID.Hex(),
		UserID:      d.UserID,
		CampusID:    d.CampusID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		RoomType:    domain.RoomType(d.RoomType),
		Bedrooms:    d.Bedrooms,
		Bathrooms:   d.Bathrooms,
		City:        d.City,
		State:       d.State,
		MoveIn:      d.MoveIn,
		MoveOut:     d.MoveOut,
		Amenities:   d.Amenities,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if d.Location != nil && len(d.Location.Coordinates) == 2 {
		lng, lat := d.Location.Coordinates[0], d.Location.Coordinates[1]
		l.Lat, l.Lng = &lat, &lng
	}
	return l
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	out := make([]*domain.Listing, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDomainListing(d))
	}
	return out
}

func toFavoriteDocument(f *domain.Favorite) *favoriteDocument {
	return &favoriteDocument{
		UserID:    f.UserID,
		ListingID: f.ListingID,
		CreatedAt: f.CreatedAt,
	}
}
