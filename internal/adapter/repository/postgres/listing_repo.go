package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"go.uber.org/zap"
)

const listingColumns = `id, user_id, campus_id, title, description, price, room_type,
	bedrooms, bathrooms, city, state, lat, lng, move_in, move_out, amenities,
	created_at, updated_at`

type listingRow struct {
	ID          string     `db:"id"`
	UserID      string     `db:"user_id"`
	CampusID    *string    `db:"campus_id"`
	Title       string     `db:"title"`
	Description *string    `db:"description"`
	Price       int        `db:"price"`
	RoomType    string     `db:"room_type"`
	Bedrooms    *int       `db:"bedrooms"`
	Bathrooms   *int       `db:"bathrooms"`
	City        *string    `db:"city"`
	State       *string    `db:"state"`
	Lat         *float64   `db:"lat"`
	Lng         *float64   `db:"lng"`
	MoveIn      *time.Time `db:"move_in"`
	MoveOut     *time.Time `db:"move_out"`
	Amenities   []string   `db:"amenities"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}

func (r *listingRow) toDomain() *domain.Listing {
	return &domain.Listing{
		ID:          r.ID,
		UserID:      r.UserID,
		CampusID:    deref(r.CampusID),
		Title:       r.Title,
		Description: deref(r.Description),
		Price:       r.Price,
		RoomType:    domain.RoomType(r.RoomType),
		Bedrooms:    r.Bedrooms,
		Bathrooms:   r.Bathrooms,
		City:        deref(r.City),
		State:       deref(r.State),
		Lat:         r.Lat,
		Lng:         r.Lng,
		MoveIn:      r.MoveIn,
		MoveOut:     r.MoveOut,
		Amenities:   r.Amenities,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ListingRepository reads listings from Postgres. Ids are UUID strings.
type ListingRepository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewListingRepository(pool *pgxpool.Pool, log *logger.Logger) *ListingRepository {
	return &ListingRepository{pool: pool, logger: log.Named("PostgresListingRepository")}
}

// Insert stores l, assigning a fresh id when it has none.
func (r *ListingRepository) Insert(ctx context.Context, l *domain.Listing) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	amenities := l.Amenities
	if amenities == nil {
		amenities = []string{}
	}

	_, err := r.pool.Exec(ctx, `INSERT INTO listings (`+listingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		l.ID, l.UserID, nullable(l.CampusID), l.Title, nullable(l.Description), l.Price, string(l.RoomType),
		l.Bedrooms, l.Bathrooms, nullable(l.City), nullable(l.State), l.Lat, l.Lng, l.MoveIn, l.MoveOut,
		amenities, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		r.logger.Error("Failed to insert listing", zap.String("listing_id", l.ID), zap.Error(err))
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

func (r *ListingRepository) FindAll(ctx context.Context) ([]*domain.Listing, error) {
	return r.query(ctx, `SELECT `+listingColumns+` FROM listings ORDER BY created_at, id`)
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("listing id %q: %w", id, domain.ErrInvalidListingID)
	}

	rows, err := r.pool.Query(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query listing: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[listingRow])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Error("Failed to scan listing", zap.String("listing_id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to scan listing: %w", err)
	}
	return row.toDomain(), nil
}

// FindByRegion matches city or state case-insensitively. Blank arguments
// never match.
func (r *ListingRepository) FindByRegion(ctx context.Context, city, state string) ([]*domain.Listing, error) {
	if city == "" && state == "" {
		return []*domain.Listing{}, nil
	}
	return r.query(ctx, `SELECT `+listingColumns+` FROM listings
		WHERE ($1 <> '' AND lower(city) = lower($1))
		   OR ($2 <> '' AND lower(state) = lower($2))
		ORDER BY created_at, id`, city, state)
}

func (r *ListingRepository) query(ctx context.Context, sql string, args ...any) ([]*domain.Listing, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		r.logger.Error("Listing query failed", zap.Error(err))
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	scanned, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[listingRow])
	if err != nil {
		r.logger.Error("Failed to scan listings", zap.Error(err))
		return nil, fmt.Errorf("failed to scan listings: %w", err)
	}

	out := make([]*domain.Listing, 0, len(scanned))
	for _, row := range scanned {
		out = append(out, row.toDomain())
	}
	return out, nil
}
