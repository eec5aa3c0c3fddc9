package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/platform/metrics"
	"github.com/lukegrady1/Roomify/internal/search/campus"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/lukegrady1/Roomify/internal/search/engine"
	"github.com/lukegrady1/Roomify/internal/search/format"
	"github.com/lukegrady1/Roomify/internal/search/geo"
	"github.com/lukegrady1/Roomify/internal/search/query"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SubjectSearchPerformed is published once per served search.
const SubjectSearchPerformed = "search.performed"

const cacheKeyPrefix = "search:v1:"

var tracer = otel.Tracer("roomify/search-usecase")

type Config struct {
	StoreTimeout       time.Duration
	RetryInterval      time.Duration
	CacheTTL           time.Duration
	ExcludeOwnListings bool
	DefaultPageSize    int
	MaxPageSize        int
}

func (c Config) withDefaults() Config {
	if c.StoreTimeout <= 0 {
		c.StoreTimeout = 3 * time.Second
	}
	if c.RetryInterval <= 0 {
		c.RetryInterval = 200 * time.Millisecond
	}
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 20
	}
	if c.MaxPageSize < c.DefaultPageSize {
		c.MaxPageSize = max(c.DefaultPageSize, 100)
	}
	return c
}

type SearchInput struct {
	Filters domain.SearchFilters
	// UserID is the signed-in viewer, empty for anonymous searches.
	UserID string
	Page   int
	Limit  int
}

// ResultItem is one listing as presented to clients.
type ResultItem struct {
	Listing        *domain.Listing `json:"listing"`
	DistanceMiles  *float64        `json:"distance_miles,omitempty"`
	DistanceLabel  string          `json:"distance_label,omitempty"`
	PriceLabel     string          `json:"price_label"`
	RoomTypeLabel  string          `json:"room_type_label"`
	BedsBathsLabel string          `json:"beds_baths_label"`
	DatesLabel     string          `json:"dates_label"`
	AmenitiesLabel string          `json:"amenities_label,omitempty"`
	Favorited      bool            `json:"favorited"`
}

type SearchResult struct {
	Filters      domain.SearchFilters `json:"-"`
	Query        string               `json:"query"`
	Campus       *domain.Campus       `json:"campus,omitempty"`
	Items        []ResultItem         `json:"items"`
	Markers      []engine.Marker      `json:"markers"`
	Total        int                  `json:"total"`
	Page         int                  `json:"page"`
	Limit        int                  `json:"limit"`
	Stale        bool                 `json:"stale"`
	Degradations []domain.Degradation `json:"degradations,omitempty"`
	FieldErrors  []domain.FieldError  `json:"field_errors,omitempty"`
}

// SearchPerformedEvent is the payload of SubjectSearchPerformed.
type SearchPerformedEvent struct {
	ID           string               `json:"id"`
	Query        string               `json:"query"`
	CampusID     string               `json:"campus_id,omitempty"`
	ResultCount  int                  `json:"result_count"`
	Degradations []domain.Degradation `json:"degradations,omitempty"`
	UserID       string               `json:"user_id,omitempty"`
	OccurredAt   time.Time            `json:"occurred_at"`
}

// SearchUsecase runs one search per request against a fresh listing
// snapshot. Only the listing store and the caller's context can make it
// fail; every other collaborator degrades the result instead.
type SearchUsecase struct {
	engine    *engine.Engine
	campuses  *campus.Service
	store     domain.ListingStore
	favorites domain.FavoriteRepository
	cache     domain.SearchCache
	publisher domain.EventPublisher
	metrics   *metrics.MetricsManager
	cfg       Config
	logger    *logger.Logger
	now       func() time.Time
}

// NewSearchUsecase wires the search flow. favorites, cache, publisher and
// metrics may be nil.
func NewSearchUsecase(
	eng *engine.Engine,
	campuses *campus.Service,
	store domain.ListingStore,
	favorites domain.FavoriteRepository,
	cache domain.SearchCache,
	publisher domain.EventPublisher,
	mm *metrics.MetricsManager,
	cfg Config,
	log *logger.Logger,
) *SearchUsecase {
	return &SearchUsecase{
		engine:    eng,
		campuses:  campuses,
		store:     store,
		favorites: favorites,
		cache:     cache,
		publisher: publisher,
		metrics:   mm,
		cfg:       cfg.withDefaults(),
		logger:    log.Named("SearchUsecase"),
		now:       time.Now,
	}
}

// Search normalizes the filters, evaluates them over a listing snapshot and
// returns one page of the ordered result. It returns an error only when ctx
// ends first.
func (uc *SearchUsecase) Search(ctx context.Context, in SearchInput) (*SearchResult, error) {
	ctx, span := tracer.Start(ctx, "SearchUsecase.Search")
	defer span.End()
	started := uc.now()

	filters, fieldErrs := query.Normalize(query.Clean(in.Filters))
	canonical := query.Serialize(filters)
	degradations := query.Degradations(fieldErrs)

	resolved := uc.engine.ResolveCampus(filters.Campus)
	if filters.Campus != "" && resolved == nil {
		degradations = append(degradations, domain.DegradeCampusUnresolved)
	}

	criteria := engine.Criteria{}
	if uc.cfg.ExcludeOwnListings {
		criteria.ExcludeUserID = in.UserID
	}
	key := cacheKey(canonical, criteria)

	span.SetAttributes(
		attribute.String("search.query", canonical),
		attribute.Bool("search.campus_resolved", resolved != nil),
	)

	var (
		result       engine.Result
		stale        bool
		favorites    map[string]struct{}
		favoritesErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		favorites, favoritesErr = uc.favoriteSet(gctx, in.UserID)
		return nil
	})
	g.Go(func() error {
		if cached, ok := uc.cached(gctx, key); ok {
			result = cached
			return nil
		}
		listings, err := uc.fetchListings(gctx, resolved)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			uc.logger.Error("listing store unavailable, serving empty result", zap.Error(err))
			stale = true
			result = uc.engine.SearchCampus(nil, resolved, filters, criteria)
			return nil
		}
		result = uc.engine.SearchCampus(listings, resolved, filters, criteria)
		uc.remember(gctx, key, result)
		return nil
	})
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("search canceled: %w", err)
	}

	if stale {
		degradations = append(degradations, domain.DegradeStoreUnavailable)
	}
	if favoritesErr != nil {
		uc.logger.Warn("favorites unavailable, results not annotated", zap.String("user_id", in.UserID), zap.Error(favoritesErr))
		degradations = append(degradations, domain.DegradeFavoritesUnavailable)
	}

	page, limit := uc.pageBounds(in.Page, in.Limit)
	out := &SearchResult{
		Filters:      filters,
		Query:        canonical,
		Campus:       result.Campus,
		Items:        presentPage(result.Items, page, limit, favorites),
		Markers:      result.Markers,
		Total:        len(result.Items),
		Page:         page,
		Limit:        limit,
		Stale:        stale,
		Degradations: degradations,
		FieldErrors:  fieldErrs,
	}
	if out.Markers == nil {
		out.Markers = []engine.Marker{}
	}

	span.SetAttributes(attribute.Int("search.total", out.Total), attribute.Bool("search.stale", stale))
	uc.observe(filters.Sort, started, out)
	uc.publish(ctx, in.UserID, out)

	uc.logger.Debug("search served",
		zap.String("query", canonical),
		zap.Int("total", out.Total),
		zap.Bool("stale", stale),
		zap.Duration("took", uc.now().Sub(started)))
	return out, nil
}

// SearchCampuses serves campus autocomplete.
func (uc *SearchUsecase) SearchCampuses(ctx context.Context, text string, limit int) []domain.Campus {
	ctx, span := tracer.Start(ctx, "SearchUsecase.SearchCampuses")
	defer span.End()

	campuses, source := uc.campuses.SearchWithSource(ctx, text, limit)
	if uc.metrics != nil {
		uc.metrics.CampusLookups.WithLabelValues(string(source)).Inc()
	}
	span.SetAttributes(attribute.String("campus.source", string(source)), attribute.Int("campus.count", len(campuses)))
	return campuses
}

// CampusBySlug returns domain.ErrNotFound for unknown slugs.
func (uc *SearchUsecase) CampusBySlug(slug string) (*domain.Campus, error) {
	c := uc.campuses.BySlug(slug)
	if c == nil {
		return nil, fmt.Errorf("campus %q: %w", slug, domain.ErrNotFound)
	}
	return c, nil
}

// fetchListings takes one snapshot, retrying a failed attempt once.
func (uc *SearchUsecase) fetchListings(ctx context.Context, resolved *domain.Campus) ([]*domain.Listing, error) {
	scoped := uc.engine.RegionScoped(resolved)
	attempt := 0

	op := func() ([]*domain.Listing, error) {
		attempt++
		actx, cancel := context.WithTimeout(ctx, uc.cfg.StoreTimeout)
		defer cancel()

		var (
			listings []*domain.Listing
			err      error
		)
		if scoped {
			listings, err = uc.store.FindByRegion(actx, resolved.City, resolved.State)
		} else {
			listings, err = uc.store.FindAll(actx)
		}
		if err != nil {
			uc.logger.Warn("listing snapshot attempt failed", zap.Int("attempt", attempt), zap.Error(err))
			return nil, err
		}
		return listings, nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = uc.cfg.RetryInterval
	return backoff.RetryWithData(op, backoff.WithContext(backoff.WithMaxRetries(b, 1), ctx))
}

func (uc *SearchUsecase) favoriteSet(ctx context.Context, userID string) (map[string]struct{}, error) {
	if userID == "" || uc.favorites == nil {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, uc.cfg.StoreTimeout)
	defer cancel()

	ids, err := uc.favorites.ListingIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (uc *SearchUsecase) cached(ctx context.Context, key string) (engine.Result, bool) {
	if uc.cache == nil {
		return engine.Result{}, false
	}
	data, err := uc.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("search cache read failed", zap.String("key", key), zap.Error(err))
		}
		return engine.Result{}, false
	}
	var res engine.Result
	if err := json.Unmarshal(data, &res); err != nil {
		uc.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return engine.Result{}, false
	}
	return res, true
}

func (uc *SearchUsecase) remember(ctx context.Context, key string, res engine.Result) {
	if uc.cache == nil || uc.cfg.CacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(res)
	if err != nil {
		uc.logger.Warn("failed to encode search result for cache", zap.Error(err))
		return
	}
	if err := uc.cache.Set(ctx, key, data, uc.cfg.CacheTTL); err != nil {
		uc.logger.Warn("search cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (uc *SearchUsecase) pageBounds(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = uc.cfg.DefaultPageSize
	}
	if limit > uc.cfg.MaxPageSize {
		limit = uc.cfg.MaxPageSize
	}
	return page, limit
}

func (uc *SearchUsecase) observe(sort domain.SortOption, started time.Time, res *SearchResult) {
	reasons := make([]string, len(res.Degradations))
	for i, d := range res.Degradations {
		reasons[i] = string(d)
	}
	uc.metrics.ObserveSearch(sort.String(), uc.now().Sub(started), res.Total, reasons)
}

func (uc *SearchUsecase) publish(ctx context.Context, userID string, res *SearchResult) {
	if uc.publisher == nil {
		return
	}
	event := SearchPerformedEvent{
		ID:           uuid.NewString(),
		Query:        res.Query,
		ResultCount:  res.Total,
		Degradations: res.Degradations,
		UserID:       userID,
		OccurredAt:   uc.now().UTC(),
	}
	if res.Campus != nil {
		event.CampusID = res.Campus.ID
	}
	if err := uc.publisher.Publish(ctx, SubjectSearchPerformed, event); err != nil {
		uc.logger.Warn("failed to publish search event", zap.String("event_id", event.ID), zap.Error(err))
	}
}

func cacheKey(canonical string, c engine.Criteria) string {
	key := cacheKeyPrefix + canonical
	if c.ExcludeUserID != "" {
		key += "|exclude=" + c.ExcludeUserID
	}
	return key
}

func presentPage(items []engine.Item, page, limit int, favorites map[string]struct{}) []ResultItem {
	// Compare page counts rather than offsets; (page-1)*limit overflows
	// for page numbers near MaxInt.
	if page-1 >= (len(items)+limit-1)/limit {
		return []ResultItem{}
	}
	start := (page - 1) * limit
	end := min(start+limit, len(items))

	out := make([]ResultItem, 0, end-start)
	for _, it := range items[start:end] {
		l := it.Listing
		ri := ResultItem{
			Listing:        l,
			DistanceMiles:  it.DistanceMiles,
			PriceLabel:     format.FormatPricePerMonth(l.Price),
			RoomTypeLabel:  format.FormatRoomType(l.RoomType),
			BedsBathsLabel: format.FormatBedsBaths(l.Bedrooms, l.Bathrooms),
			DatesLabel:     format.FormatDateRange(l.MoveIn, l.MoveOut),
			AmenitiesLabel: format.FormatAmenities(l.Amenities),
		}
		if it.DistanceMiles != nil {
			ri.DistanceLabel = geo.FormatDistance(*it.DistanceMiles)
		}
		if _, ok := favorites[l.ID]; ok {
			ri.Favorited = true
		}
		out = append(out, ri)
	}
	return out
}
