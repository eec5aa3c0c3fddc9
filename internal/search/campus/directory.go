// Package campus resolves free-text campus queries against a static
// directory, optionally backed by a live provider.
package campus

import (
	"slices"
	"strings"

	"github.com/lukegrady1/Roomify/internal/search/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type entry struct {
	campus domain.Campus
	name   string
	city   string
	state  string
	slug   string
	region string // "city state"
}

// Directory is an immutable in-memory campus table. It is safe for
// concurrent use.
type Directory struct {
	entries []entry
}

func NewDirectory(campuses []domain.Campus) *Directory {
	entries := make([]entry, 0, len(campuses))
	for _, c := range campuses {
		city := strings.ToLower(c.City)
		state := strings.ToLower(c.State)
		entries = append(entries, entry{
			campus: c,
			name:   strings.ToLower(c.Name),
			city:   city,
			state:  state,
			slug:   strings.ToLower(c.Slug),
			region: city + " " + state,
		})
	}
	return &Directory{entries: entries}
}

// DefaultDirectory is built from the bundled fallback dataset.
func DefaultDirectory() *Directory {
	return NewDirectory(FallbackCampuses())
}

func (d *Directory) Len() int { return len(d.entries) }

// All returns a copy of the table in directory order.
func (d *Directory) All() []domain.Campus {
	out := make([]domain.Campus, len(d.entries))
	for i, e := range d.entries {
		out[i] = e.campus
	}
	return out
}

// FindByName returns the first campus whose name, slug or "city state"
// contains query, ignoring case and surrounding space. Blank queries
// resolve to nothing.
func (d *Directory) FindByName(query string) *domain.Campus {
	q := normalize(query)
	if q == "" {
		return nil
	}
	for _, e := range d.entries {
		if strings.Contains(e.name, q) || strings.Contains(e.slug, q) || strings.Contains(e.region, q) {
			c := e.campus
			return &c
		}
	}
	return nil
}

// FindBySlug matches the slug exactly.
func (d *Directory) FindBySlug(slug string) *domain.Campus {
	if slug == "" {
		return nil
	}
	for _, e := range d.entries {
		if e.campus.Slug == slug {
			c := e.campus
			return &c
		}
	}
	return nil
}

// Search returns up to limit campuses whose name, city, state or slug
// contains query. Exact name matches rank first, then name prefixes, then
// the rest alphabetically by name. A blank query returns the head of the
// directory.
func (d *Directory) Search(query string, limit int) []domain.Campus {
	if limit <= 0 {
		return []domain.Campus{}
	}
	q := normalize(query)
	if q == "" {
		n := min(limit, len(d.entries))
		out := make([]domain.Campus, 0, n)
		for _, e := range d.entries[:n] {
			out = append(out, e.campus)
		}
		return out
	}

	var matches []entry
	for _, e := range d.entries {
		if strings.Contains(e.name, q) ||
			strings.Contains(e.city, q) ||
			strings.Contains(e.state, q) ||
			strings.Contains(e.slug, q) {
			matches = append(matches, e)
		}
	}

	coll := collate.New(language.English, collate.IgnoreCase)
	slices.SortStableFunc(matches, func(a, b entry) int {
		if ra, rb := rank(a, q), rank(b, q); ra != rb {
			return ra - rb
		}
		return coll.CompareString(a.campus.Name, b.campus.Name)
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	out := make([]domain.Campus, 0, len(matches))
	for _, e := range matches {
		out = append(out, e.campus)
	}
	return out
}

// rank orders exact name matches before name prefixes before the rest.
func rank(e entry, q string) int {
	switch {
	case e.name == q:
		return 0
	case strings.HasPrefix(e.name, q):
		return 1
	default:
		return 2
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
