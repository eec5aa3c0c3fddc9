package campus

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lukegrady1/Roomify/internal/search/domain"
)

//go:embed data/campuses.json
var fallbackJSON []byte

// FallbackCampuses returns the bundled campus table used when no dataset
// object is configured or it cannot be loaded.
func FallbackCampuses() []domain.Campus {
	campuses, err := DecodeDataset(fallbackJSON)
	if err != nil {
		panic("campus: bundled dataset is invalid: " + err.Error())
	}
	return campuses
}

// DecodeDataset parses a JSON array of campuses. Every entry needs an id
// and a name; duplicate ids are rejected.
func DecodeDataset(data []byte) ([]domain.Campus, error) {
	var campuses []domain.Campus
	if err := json.Unmarshal(data, &campuses); err != nil {
		return nil, fmt.Errorf("decode campus dataset: %w", err)
	}
	if len(campuses) == 0 {
		return nil, fmt.Errorf("decode campus dataset: no campuses")
	}
	seen := make(map[string]struct{}, len(campuses))
	for i, c := range campuses {
		if strings.TrimSpace(c.ID) == "" || strings.TrimSpace(c.Name) == "" {
			return nil, fmt.Errorf("decode campus dataset: entry %d is missing id or name", i)
		}
		if _, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("decode campus dataset: duplicate id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return campuses, nil
}
