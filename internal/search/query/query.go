// Package query converts between search filters and their URL query-string
// form. Parsing never fails: unrecognized or malformed values are dropped.
package query

import (
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/lukegrady1/Roomify/internal/search/domain"
)

// DateLayout is the only accepted date form for start and end.
const DateLayout = "2006-01-02"

const (
	KeyCampus    = "campus"
	KeyStart     = "start"
	KeyEnd       = "end"
	KeyMin       = "min"
	KeyMax       = "max"
	KeyRoom      = "room"
	KeyBeds      = "beds"
	KeyBaths     = "baths"
	KeyAmenities = "amenities"
	KeySort      = "sort"
)

// Parse reads a raw query string, with or without the leading '?'.
func Parse(raw string) domain.SearchFilters {
	raw = strings.TrimPrefix(raw, "?")
	// ParseQuery keeps every well-formed pair even when it reports an error.
	values, _ := url.ParseQuery(raw)
	return FromValues(values)
}

// FromValues builds filters from already-decoded query values. Only the
// first value of each key is considered.
func FromValues(values url.Values) domain.SearchFilters {
	var f domain.SearchFilters

	f.Campus = strings.TrimSpace(values.Get(KeyCampus))
	f.Start = parseDate(values.Get(KeyStart))
	f.End = parseDate(values.Get(KeyEnd))
	f.Min = parseCount(values.Get(KeyMin))
	f.Max = parseCount(values.Get(KeyMax))
	f.Beds = parseCount(values.Get(KeyBeds))
	f.Baths = parseCount(values.Get(KeyBaths))

	if rt, ok := domain.ParseRoomType(strings.TrimSpace(values.Get(KeyRoom))); ok {
		f.Room = rt
	}
	if s, ok := domain.ParseSortOption(strings.TrimSpace(values.Get(KeySort))); ok {
		f.Sort = s
	}
	f.Amenities = splitAmenities(values.Get(KeyAmenities))

	return f
}

// Values is the inverse of FromValues. Absent constraints, an empty
// amenity list and the default sort produce no key.
func Values(f domain.SearchFilters) url.Values {
	v := url.Values{}
	if c := strings.TrimSpace(f.Campus); c != "" {
		v.Set(KeyCampus, c)
	}
	if f.Start != nil {
		v.Set(KeyStart, f.Start.Format(DateLayout))
	}
	if f.End != nil {
		v.Set(KeyEnd, f.End.Format(DateLayout))
	}
	setInt(v, KeyMin, f.Min)
	setInt(v, KeyMax, f.Max)
	if f.Room != "" {
		v.Set(KeyRoom, string(f.Room))
	}
	setInt(v, KeyBeds, f.Beds)
	setInt(v, KeyBaths, f.Baths)
	if a := dedupe(f.Amenities); len(a) > 0 {
		v.Set(KeyAmenities, strings.Join(a, ","))
	}
	if f.Sort != domain.SortRelevance {
		v.Set(KeySort, string(f.Sort))
	}
	return v
}

// Serialize encodes f with keys in sorted order, so equal filters always
// produce the same string.
func Serialize(f domain.SearchFilters) string {
	return Values(f).Encode()
}

// BuildURL appends the serialized filters to basePath, or returns basePath
// alone when no constraint is set.
func BuildURL(f domain.SearchFilters, basePath string) string {
	qs := Serialize(f)
	if qs == "" {
		return basePath
	}
	return basePath + "?" + qs
}

// Clean normalizes hand-built filters the same way Parse would: trimmed
// campus, deduplicated amenities, unknown enums cleared.
func Clean(f domain.SearchFilters) domain.SearchFilters {
	f.Campus = strings.TrimSpace(f.Campus)
	f.Amenities = dedupe(f.Amenities)
	if f.Room != "" {
		if _, ok := domain.ParseRoomType(string(f.Room)); !ok {
			f.Room = ""
		}
	}
	if f.Sort != domain.SortRelevance {
		if _, ok := domain.ParseSortOption(string(f.Sort)); !ok {
			f.Sort = domain.SortRelevance
		}
	}
	f.Min = nonNegative(f.Min)
	f.Max = nonNegative(f.Max)
	f.Beds = nonNegative(f.Beds)
	f.Baths = nonNegative(f.Baths)
	return f
}

// Equivalent reports whether a and b constrain a search identically.
// Amenity order and duplicates are irrelevant.
func Equivalent(a, b domain.SearchFilters) bool {
	return canonical(a) == canonical(b)
}

func canonical(f domain.SearchFilters) string {
	f = Clean(f)
	f.Amenities = slices.Clone(f.Amenities)
	slices.Sort(f.Amenities)
	return Serialize(f)
}

func parseCount(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}

func splitAmenities(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return dedupe(strings.Split(s, ","))
}

// dedupe trims each tag, drops blanks and keeps the first occurrence.
func dedupe(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func setInt(v url.Values, key string, n *int) {
	if n != nil {
		v.Set(key, strconv.Itoa(*n))
	}
}

func nonNegative(n *int) *int {
	if n == nil || *n < 0 {
		return nil
	}
	return n
}
