package domain

import "time"

type SortOption string

const (
	SortRelevance SortOption = ""
	SortPriceAsc  SortOption = "price_asc"
	SortPriceDesc SortOption = "price_desc"
	SortDistance  SortOption = "distance"
	SortNewest    SortOption = "newest"
)

// ParseSortOption maps the query-string value to a SortOption. "relevance"
// is the default and maps to the zero value.
func ParseSortOption(s string) (SortOption, bool) {
	switch s {
	case "relevance":
		return SortRelevance, true
	case string(SortPriceAsc), string(SortPriceDesc), string(SortDistance), string(SortNewest):
		return SortOption(s), true
	}
	return SortRelevance, false
}

func (s SortOption) String() string {
	if s == SortRelevance {
		return "relevance"
	}
	return string(s)
}

// SearchFilters is the validated form of a search request. A nil pointer,
// empty string or empty slice means the constraint is absent.
type SearchFilters struct {
	Campus    string
	Start     *time.Time
	End       *time.Time
	Min       *int
	Max       *int
	Room      RoomType
	Beds      *int
	Baths     *int
	Amenities []string
	Sort      SortOption
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// Degradation names a reason a search returned a widened or partial result.
type Degradation string

const (
	DegradeCampusUnresolved     Degradation = "campus_unresolved"
	DegradeMaxDropped           Degradation = "max_dropped"
	DegradeEndDropped           Degradation = "end_dropped"
	DegradeStoreUnavailable     Degradation = "listing_store_unavailable"
	DegradeFavoritesUnavailable Degradation = "favorites_unavailable"
)
