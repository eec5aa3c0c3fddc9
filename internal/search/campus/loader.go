package campus

import (
	"context"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"go.uber.org/zap"
)

// DatasetSource fetches a serialized campus dataset, e.g. from object storage.
type DatasetSource interface {
	FetchDataset(ctx context.Context) ([]byte, error)
}

// LoadDirectory builds a Directory from src. Any failure, including a nil
// source, yields DefaultDirectory so start-up never depends on the store.
func LoadDirectory(ctx context.Context, src DatasetSource, log *logger.Logger) *Directory {
	if src == nil {
		log.Info("no campus dataset source configured, using bundled campuses")
		return DefaultDirectory()
	}

	data, err := src.FetchDataset(ctx)
	if err != nil {
		log.Warn("campus dataset unavailable, using bundled campuses", zap.Error(err))
		return DefaultDirectory()
	}

	campuses, err := DecodeDataset(data)
	if err != nil {
		log.Warn("campus dataset rejected, using bundled campuses", zap.Error(err))
		return DefaultDirectory()
	}

	log.Info("campus dataset loaded", zap.Int("campuses", len(campuses)))
	return NewDirectory(campuses)
}
