package query

import (
	"testing"
	"time"

	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func date(s string) *time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestParse(t *testing.T) {
	t.Run("AllKeys", func(t *testing.T) {
		f := Parse("?campus=Harvard+University&start=2025-09-01&end=2026-05-31&min=800&max=2400" +
			"&room=private&beds=2&baths=1&amenities=wifi,parking&sort=price_asc")

		assert.Equal(t, "Harvard University", f.Campus)
		assert.Equal(t, date("2025-09-01"), f.Start)
		assert.Equal(t, date("2026-05-31"), f.End)
		assert.Equal(t, intPtr(800), f.Min)
		assert.Equal(t, intPtr(2400), f.Max)
		assert.Equal(t, domain.RoomPrivate, f.Room)
		assert.Equal(t, intPtr(2), f.Beds)
		assert.Equal(t, intPtr(1), f.Baths)
		assert.Equal(t, []string{"wifi", "parking"}, f.Amenities)
		assert.Equal(t, domain.SortPriceAsc, f.Sort)
	})

	t.Run("LeadingQuestionMarkOptional", func(t *testing.T) {
		assert.Equal(t, Parse("?min=5"), Parse("min=5"))
	})

	t.Run("Empty", func(t *testing.T) {
		assert.Equal(t, domain.SearchFilters{}, Parse(""))
		assert.Equal(t, domain.SearchFilters{}, Parse("?"))
	})

	t.Run("MalformedValuesDropped", func(t *testing.T) {
		f := Parse("min=abc&max=-5&beds=1.5&baths=&start=09/01/2025&end=2025-13-01&room=castle&sort=cheapest&campus=%20%20")
		assert.Equal(t, domain.SearchFilters{}, f)
	})

	t.Run("ZeroIsAValue", func(t *testing.T) {
		f := Parse("beds=0&min=0")
		assert.Equal(t, intPtr(0), f.Beds)
		assert.Equal(t, intPtr(0), f.Min)
	})

	t.Run("RelevanceIsDefault", func(t *testing.T) {
		assert.Equal(t, domain.SortRelevance, Parse("sort=relevance").Sort)
	})

	t.Run("AmenitiesTrimmedAndDeduped", func(t *testing.T) {
		f := Parse("amenities=wifi,%20parking,,wifi,%20")
		assert.Equal(t, []string{"wifi", "parking"}, f.Amenities)

		assert.Nil(t, Parse("amenities=,,").Amenities)
	})

	t.Run("UnknownKeysIgnored", func(t *testing.T) {
		assert.Equal(t, intPtr(3), Parse("page=2&beds=3&utm_source=x").Beds)
	})

	t.Run("BadEscapesTolerated", func(t *testing.T) {
		f := Parse("campus=%zz&min=100")
		assert.Equal(t, intPtr(100), f.Min)
	})
}

func TestSerialize(t *testing.T) {
	t.Run("EmptyFilters", func(t *testing.T) {
		assert.Equal(t, "", Serialize(domain.SearchFilters{}))
	})

	t.Run("SortedKeysAndDefaultSortOmitted", func(t *testing.T) {
		f := domain.SearchFilters{
			Campus: "MIT",
			Min:    intPtr(500),
			Room:   domain.RoomShared,
			Sort:   domain.SortRelevance,
		}
		assert.Equal(t, "campus=MIT&min=500&room=shared", Serialize(f))
	})

	t.Run("AmenitiesJoined", func(t *testing.T) {
		f := domain.SearchFilters{Amenities: []string{"wifi", "laundry"}, Sort: domain.SortNewest}
		assert.Equal(t, "amenities=wifi%2Claundry&sort=newest", Serialize(f))
	})
}

func TestRoundTrip(t *testing.T) {
	cases := []domain.SearchFilters{
		{},
		{Campus: "Harvard University"},
		{Campus: "ut-austin", Min: intPtr(0), Max: intPtr(1500), Sort: domain.SortDistance},
		{Start: date("2025-01-15"), End: date("2025-06-30"), Room: domain.RoomEntire},
		{Beds: intPtr(2), Baths: intPtr(2), Amenities: []string{"parking", "gym", "in-unit laundry"}},
		{Campus: "a&b=c?", Sort: domain.SortPriceDesc},
	}
	for _, f := range cases {
		qs := Serialize(f)
		assert.True(t, Equivalent(Parse(qs), f), "round trip of %q", qs)
		assert.True(t, Equivalent(Parse("?"+qs), f), "round trip of ?%q", qs)
		assert.Equal(t, qs, Serialize(Parse(qs)))
	}
}

func TestEquivalent(t *testing.T) {
	a := domain.SearchFilters{Amenities: []string{"wifi", "gym"}, Min: intPtr(5)}
	b := domain.SearchFilters{Amenities: []string{"gym", "wifi", "gym"}, Min: intPtr(5)}
	assert.True(t, Equivalent(a, b))

	b.Min = intPtr(6)
	assert.False(t, Equivalent(a, b))

	assert.True(t, Equivalent(domain.SearchFilters{Sort: domain.SortRelevance}, domain.SearchFilters{}))
	assert.False(t, Equivalent(domain.SearchFilters{Sort: domain.SortNewest}, domain.SearchFilters{}))
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "/search", BuildURL(domain.SearchFilters{}, "/search"))
	assert.Equal(t, "/search?beds=1&campus=Yale", BuildURL(domain.SearchFilters{Campus: "Yale", Beds: intPtr(1)}, "/search"))
}

func TestClean(t *testing.T) {
	f := Clean(domain.SearchFilters{
		Campus:    "  Duke ",
		Amenities: []string{" wifi", "", "wifi"},
		Room:      domain.RoomType("castle"),
		Sort:      domain.SortOption("cheapest"),
		Min:       intPtr(-1),
		Beds:      intPtr(1),
	})

	assert.Equal(t, "Duke", f.Campus)
	assert.Equal(t, []string{"wifi"}, f.Amenities)
	assert.Empty(t, f.Room)
	assert.Equal(t, domain.SortRelevance, f.Sort)
	assert.Nil(t, f.Min)
	assert.Equal(t, intPtr(1), f.Beds)
}

func TestValidate(t *testing.T) {
	t.Run("Consistent", func(t *testing.T) {
		f := domain.SearchFilters{Min: intPtr(100), Max: intPtr(100), Start: date("2025-01-01"), End: date("2025-01-02")}
		assert.Empty(t, Validate(f))
	})

	t.Run("MinAboveMax", func(t *testing.T) {
		errs := Validate(domain.SearchFilters{Min: intPtr(2000), Max: intPtr(1000)})
		require.Len(t, errs, 1)
		assert.Equal(t, KeyMax, errs[0].Field)
	})

	t.Run("EndNotAfterStart", func(t *testing.T) {
		errs := Validate(domain.SearchFilters{Start: date("2025-05-01"), End: date("2025-05-01")})
		require.Len(t, errs, 1)
		assert.Equal(t, KeyEnd, errs[0].Field)
	})

	t.Run("OneSidedRangesAreFine", func(t *testing.T) {
		assert.Empty(t, Validate(domain.SearchFilters{Min: intPtr(5000), End: date("2020-01-01")}))
	})
}

func TestNormalize(t *testing.T) {
	in := domain.SearchFilters{
		Campus: "MIT",
		Min:    intPtr(2000),
		Max:    intPtr(1000),
		Start:  date("2025-06-01"),
		End:    date("2025-01-01"),
	}

	out, errs := Normalize(in)

	assert.Len(t, errs, 2)
	assert.Equal(t, intPtr(2000), out.Min)
	assert.Nil(t, out.Max)
	assert.Equal(t, date("2025-06-01"), out.Start)
	assert.Nil(t, out.End)
	assert.Equal(t, "MIT", out.Campus)
	assert.Equal(t, []domain.Degradation{domain.DegradeMaxDropped, domain.DegradeEndDropped}, Degradations(errs))

	assert.NotNil(t, in.Max, "input is not modified")
}

func TestParams(t *testing.T) {
	p := Params{
		Campus:    "Harvard",
		Min:       intPtr(900),
		Max:       intPtr(-3),
		Room:      "private",
		Amenities: []string{"wifi", " wifi", "gym"},
		Start:     "2025-09-01",
		End:       "not-a-date",
		Sort:      "newest",
	}

	f := FromParams(p)

	assert.Equal(t, "Harvard", f.Campus)
	assert.Equal(t, intPtr(900), f.Min)
	assert.Nil(t, f.Max)
	assert.Equal(t, domain.RoomPrivate, f.Room)
	assert.Equal(t, []string{"wifi", "gym"}, f.Amenities)
	assert.Equal(t, date("2025-09-01"), f.Start)
	assert.Nil(t, f.End)
	assert.Equal(t, domain.SortNewest, f.Sort)

	assert.True(t, Equivalent(FromParams(ToParams(f)), f))
}
