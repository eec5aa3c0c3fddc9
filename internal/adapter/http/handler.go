package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lukegrady1/Roomify/internal/platform/auth"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/lukegrady1/Roomify/internal/search/query"
	"github.com/lukegrady1/Roomify/internal/search/usecase"
	"go.uber.org/zap"
)

const (
	defaultCampusLimit = 8
	maxCampusLimit     = 25
	searchPagePath     = "/search"
)

// Searcher is the search surface the handlers need.
type Searcher interface {
	Search(ctx context.Context, in usecase.SearchInput) (*usecase.SearchResult, error)
	SearchCampuses(ctx context.Context, text string, limit int) []domain.Campus
	CampusBySlug(slug string) (*domain.Campus, error)
}

type Favorites interface {
	Add(ctx context.Context, userID, listingID string) (*domain.Favorite, error)
	Remove(ctx context.Context, userID, listingID string) error
	List(ctx context.Context, userID string) ([]string, error)
}

type Handler struct {
	search    Searcher
	favorites Favorites
	logger    *logger.Logger
}

func NewHandler(search Searcher, favorites Favorites, log *logger.Logger) *Handler {
	return &Handler{
		search:    search,
		favorites: favorites,
		logger:    log.Named("SearchHTTPHandler"),
	}
}

type validateResponse struct {
	Errors []domain.FieldError `json:"errors"`
}

type urlResponse struct {
	Query string `json:"query"`
	URL   string `json:"url"`
}

type favoritesResponse struct {
	ListingIDs []string `json:"listing_ids"`
}

// HandleSearch serves GET /api/search. page and limit sit beside the
// filter keys in the query string.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	in := usecase.SearchInput{
		Filters: query.FromValues(values),
		UserID:  auth.UserIDFromContext(r.Context()),
		Page:    intParam(values.Get("page")),
		Limit:   intParam(values.Get("limit")),
	}

	res, err := h.search.Search(r.Context(), in)
	if err != nil {
		h.logger.Warn("search aborted", zap.String("query", r.URL.RawQuery), zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "search was canceled")
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// HandleValidate reports range errors without running a search.
func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	errs := query.Validate(query.FromValues(r.URL.Query()))
	if errs == nil {
		errs = []domain.FieldError{}
	}
	respondJSON(w, http.StatusOK, validateResponse{Errors: errs})
}

// HandleBuildURL turns posted JSON filters into the canonical query string.
func (h *Handler) HandleBuildURL(w http.ResponseWriter, r *http.Request) {
	var p query.Params
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	f := query.Clean(query.FromParams(p))
	respondJSON(w, http.StatusOK, urlResponse{
		Query: query.Serialize(f),
		URL:   query.BuildURL(f, searchPagePath),
	})
}

func (h *Handler) HandleCampuses(w http.ResponseWriter, r *http.Request) {
	limit := intParam(r.URL.Query().Get("limit"))
	switch {
	case limit <= 0:
		limit = defaultCampusLimit
	case limit > maxCampusLimit:
		limit = maxCampusLimit
	}
	campuses := h.search.SearchCampuses(r.Context(), r.URL.Query().Get("q"), limit)
	respondJSON(w, http.StatusOK, campuses)
}

func (h *Handler) HandleCampusBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.search.CampusBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, statusFor(err), "campus not found")
		return
	}
	respondJSON(w, http.StatusOK, c)
}

func (h *Handler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	ids, err := h.favorites.List(r.Context(), auth.UserIDFromContext(r.Context()))
	if err != nil {
		h.fail(w, "list favorites", err)
		return
	}
	respondJSON(w, http.StatusOK, favoritesResponse{ListingIDs: ids})
}

func (h *Handler) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	fav, err := h.favorites.Add(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "listingID"))
	if err != nil {
		h.fail(w, "add favorite", err)
		return
	}
	respondJSON(w, http.StatusCreated, fav)
}

func (h *Handler) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.favorites.Remove(r.Context(), auth.UserIDFromContext(r.Context()), chi.URLParam(r, "listingID")); err != nil {
		h.fail(w, "remove favorite", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		h.logger.Error(op+" failed", zap.Error(err))
		respondError(w, code, "internal error")
		return
	}
	msg := err.Error()
	if errors.Is(err, domain.ErrNotFound) {
		msg = "not found"
	}
	respondError(w, code, msg)
}

// intParam parses a non-negative integer, treating anything else as unset.
func intParam(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
