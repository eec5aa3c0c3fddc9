package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"go.uber.org/zap"
)

// FavoriteUsecase manages a viewer's saved listings.
type FavoriteUsecase struct {
	favorites domain.FavoriteRepository
	listings  domain.ListingStore
	logger    *logger.Logger
	now       func() time.Time
}

func NewFavoriteUsecase(favorites domain.FavoriteRepository, listings domain.ListingStore, log *logger.Logger) *FavoriteUsecase {
	return &FavoriteUsecase{
		favorites: favorites,
		listings:  listings,
		logger:    log.Named("FavoriteUsecase"),
		now:       time.Now,
	}
}

// Add saves listingID for userID. The listing must exist.
func (uc *FavoriteUsecase) Add(ctx context.Context, userID, listingID string) (*domain.Favorite, error) {
	if err := checkIDs(userID, listingID); err != nil {
		return nil, err
	}

	if _, err := uc.listings.FindByID(ctx, listingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("listing %s: %w", listingID, domain.ErrNotFound)
		}
		if errors.Is(err, domain.ErrInvalidListingID) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up listing %s: %w", listingID, err)
	}

	// The repository assigns the id.
	fav := &domain.Favorite{
		UserID:    userID,
		ListingID: listingID,
		CreatedAt: uc.now().UTC(),
	}
	if err := uc.favorites.Add(ctx, fav); err != nil {
		if errors.Is(err, domain.ErrFavoriteExists) {
			return nil, err
		}
		uc.logger.Error("failed to save favorite", zap.String("user_id", userID), zap.String("listing_id", listingID), zap.Error(err))
		return nil, fmt.Errorf("failed to save favorite: %w", err)
	}

	uc.logger.Info("favorite saved", zap.String("user_id", userID), zap.String("listing_id", listingID))
	return fav, nil
}

func (uc *FavoriteUsecase) Remove(ctx context.Context, userID, listingID string) error {
	if err := checkIDs(userID, listingID); err != nil {
		return err
	}
	if err := uc.favorites.Remove(ctx, userID, listingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	return nil
}

// List returns the saved listing ids, most recent first.
func (uc *FavoriteUsecase) List(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	ids, err := uc.favorites.ListingIDsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

func checkIDs(userID, listingID string) error {
	if userID == "" {
		return domain.ErrUnauthenticated
	}
	if strings.TrimSpace(listingID) == "" {
		return domain.ErrInvalidListingID
	}
	return nil
}
