package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/lukegrady1/Roomify/internal/search/domain"
)

// Params is the JSON form of a filter set, as posted by clients that build
// search URLs without a query string at hand.
type Params struct {
	Campus    string   `json:"campus,omitempty"`
	Start     string   `json:"start,omitempty"`
	End       string   `json:"end,omitempty"`
	Min       *int     `json:"min,omitempty"`
	Max       *int     `json:"max,omitempty"`
	Room      string   `json:"room,omitempty"`
	Beds      *int     `json:"beds,omitempty"`
	Baths     *int     `json:"baths,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
	Sort      string   `json:"sort,omitempty"`
}

// FromParams applies the query-string parsing rules to p.
func FromParams(p Params) domain.SearchFilters {
	v := url.Values{}
	v.Set(KeyCampus, p.Campus)
	v.Set(KeyStart, p.Start)
	v.Set(KeyEnd, p.End)
	v.Set(KeyRoom, p.Room)
	v.Set(KeySort, p.Sort)
	v.Set(KeyAmenities, strings.Join(p.Amenities, ","))
	for key, n := range map[string]*int{KeyMin: p.Min, KeyMax: p.Max, KeyBeds: p.Beds, KeyBaths: p.Baths} {
		if n != nil {
			v.Set(key, strconv.Itoa(*n))
		}
	}
	return FromValues(v)
}

// ToParams is the inverse of FromParams for filters that came from it.
func ToParams(f domain.SearchFilters) Params {
	v := Values(f)
	p := Params{
		Campus: v.Get(KeyCampus),
		Start:  v.Get(KeyStart),
		End:    v.Get(KeyEnd),
		Min:    f.Min,
		Max:    f.Max,
		Room:   v.Get(KeyRoom),
		Beds:   f.Beds,
		Baths:  f.Baths,
		Sort:   v.Get(KeySort),
	}
	if a := v.Get(KeyAmenities); a != "" {
		p.Amenities = strings.Split(a, ",")
	}
	return p
}
