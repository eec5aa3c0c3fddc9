package campus

import (
	"context"
	"time"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"go.uber.org/zap"
)

// Source names which directory answered a campus search.
type Source string

const (
	SourceStatic Source = "static"
	SourceLive   Source = "live"
)

// Service answers campus autocomplete from the static directory first and
// consults the live provider only when the directory has nothing.
type Service struct {
	dir     *Directory
	live    domain.CampusProvider
	timeout time.Duration
	log     *logger.Logger
}

// NewService wires a directory with an optional live provider. A nil live
// provider keeps every lookup local.
func NewService(dir *Directory, live domain.CampusProvider, timeout time.Duration, log *logger.Logger) *Service {
	if dir == nil {
		dir = DefaultDirectory()
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Service{dir: dir, live: live, timeout: timeout, log: log.Named("campus")}
}

func (s *Service) Directory() *Directory { return s.dir }

// Search never fails: provider errors, timeouts and empty answers all fall
// back to the static result.
func (s *Service) Search(ctx context.Context, query string, limit int) []domain.Campus {
	campuses, _ := s.SearchWithSource(ctx, query, limit)
	return campuses
}

// SearchWithSource is Search plus the directory that produced the answer.
func (s *Service) SearchWithSource(ctx context.Context, query string, limit int) ([]domain.Campus, Source) {
	local := s.dir.Search(query, limit)
	if len(local) > 0 || s.live == nil || limit <= 0 || normalize(query) == "" {
		return local, SourceStatic
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	remote, err := s.live.Search(ctx, query, limit)
	if err != nil {
		s.log.Warn("live campus lookup failed, using static directory",
			zap.String("query", query), zap.Error(err))
		return local, SourceStatic
	}
	if len(remote) == 0 {
		return local, SourceStatic
	}
	if len(remote) > limit {
		remote = remote[:limit]
	}
	return remote, SourceLive
}

// Resolve picks the campus a search is anchored on. Only the static
// directory is consulted so results are reproducible.
func (s *Service) Resolve(query string) *domain.Campus {
	return s.dir.FindByName(query)
}

// FindByName is Resolve under the name the search engine looks for.
func (s *Service) FindByName(query string) *domain.Campus { return s.Resolve(query) }

func (s *Service) BySlug(slug string) *domain.Campus {
	return s.dir.FindBySlug(slug)
}
