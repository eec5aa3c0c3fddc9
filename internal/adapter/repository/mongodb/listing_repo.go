package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const listingCollectionName = "listings"

// Case-insensitive comparison for city and state lookups. Queries must use
// the same collation as the index to hit it.
var regionCollation = &options.Collation{Locale: "en", Strength: 2}

// ListingRepository is the read side of the listings collection.
type ListingRepository struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewListingRepository(db *mongo.Database, log *logger.Logger) (*ListingRepository, error) {
	collection := db.Collection(listingCollectionName)

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "city", Value: 1}}, Options: options.Index().SetCollation(regionCollation)},
		{Keys: bson.D{{Key: "state", Value: 1}}, Options: options.Index().SetCollation(regionCollation)},
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		// Indexes may already exist or be managed elsewhere.
		log.Error("Failed to create indexes for listings collection", zap.Error(err))
	} else {
		log.Info("Ensured indexes for listings collection")
	}

	return &ListingRepository{
		collection: collection,
		logger:     log.Named("ListingRepository"),
	}, nil
}

// Insert stores l and writes the generated id back.
func (r *ListingRepository) Insert(ctx context.Context, l *domain.Listing) error {
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now

	doc, err := toListingDocument(l)
	if err != nil {
		return err
	}
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		r.logger.Error("Failed to insert listing", zap.String("title", l.Title), zap.Error(err))
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	l.ID = doc.ID.Hex()
	return nil
}

// FindAll returns every listing in insertion order.
func (r *ListingRepository) FindAll(ctx context.Context) ([]*domain.Listing, error) {
	return r.find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("listing id %q: %w", id, domain.ErrInvalidListingID)
	}

	var doc listingDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to find listing", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to find listing: %w", err)
	}
	return toDomainListing(&doc), nil
}

// FindByRegion matches city or state case-insensitively. Blank arguments
// are ignored, and with both blank nothing matches.
func (r *ListingRepository) FindByRegion(ctx context.Context, city, state string) ([]*domain.Listing, error) {
	var or bson.A
	if city != "" {
		or = append(or, bson.M{"city": city})
	}
	if state != "" {
		or = append(or, bson.M{"state": state})
	}
	if len(or) == 0 {
		return []*domain.Listing{}, nil
	}

	opts := options.Find().
		SetCollation(regionCollation).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	return r.find(ctx, bson.M{"$or": or}, opts)
}

func (r *ListingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*domain.Listing, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		r.logger.Error("Listing query failed", zap.Any("filter", filter), zap.Error(err))
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []*listingDocument
	if err := cursor.All(ctx, &docs); err != nil {
		r.logger.Error("Failed to decode listings", zap.Error(err))
		return nil, fmt.Errorf("failed to decode listings: %w", err)
	}
	r.logger.Debug("Listings loaded", zap.Int("count", len(docs)))
	return toDomainListings(docs), nil
}
