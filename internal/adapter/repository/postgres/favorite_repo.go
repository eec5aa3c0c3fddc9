package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"go.uber.org/zap"
)

type FavoriteRepository struct {
	pool   *pgxpool.Pool
	logger *logger.Logger
}

func NewFavoriteRepository(pool *pgxpool.Pool, log *logger.Logger) *FavoriteRepository {
	return &FavoriteRepository{pool: pool, logger: log.Named("PostgresFavoriteRepository")}
}

func (r *FavoriteRepository) Add(ctx context.Context, favorite *domain.Favorite) error {
	if favorite.CreatedAt.IsZero() {
		favorite.CreatedAt = time.Now().UTC()
	}
	id := uuid.NewString()

	tag, err := r.pool.Exec(ctx, `INSERT INTO favorites (id, user_id, listing_id, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, listing_id) DO NOTHING`,
		id, favorite.UserID, favorite.ListingID, favorite.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert favorite", zap.String("user_id", favorite.UserID), zap.Error(err))
		return fmt.Errorf("failed to insert favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFavoriteExists
	}
	favorite.ID = id
	return nil
}

func (r *FavoriteRepository) Remove(ctx context.Context, userID, listingID string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND listing_id = $2`, userID, listingID)
	if err != nil {
		return fmt.Errorf("failed to delete favorite: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *FavoriteRepository) ListingIDsByUser(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT listing_id FROM favorites
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query favorites: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan favorites: %w", err)
	}
	return ids, nil
}
