package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// maxDatasetSize caps how much of the campus object is read.
const maxDatasetSize = 8 << 20

// DatasetStore keeps the campus reference dataset as a single object in a
// MinIO/S3 bucket.
type DatasetStore struct {
	client *minio.Client
	bucket string
	object string
	logger *logger.Logger
}

func NewDatasetStore(endpoint, accessKey, secretKey, bucket, object string, useSSL bool, log *logger.Logger) (*DatasetStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}
	log.Info("Campus dataset store configured",
		zap.String("endpoint", endpoint),
		zap.String("bucket", bucket),
		zap.String("object", object))

	return &DatasetStore{
		client: client,
		bucket: bucket,
		object: object,
		logger: log.Named("DatasetStore"),
	}, nil
}

// FetchDataset reads the whole object. A missing bucket or key is reported
// as domain.ErrNotFound.
func (s *DatasetStore) FetchDataset(ctx context.Context) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.wrap(err)
	}
	defer obj.Close()

	data, err := io.ReadAll(io.LimitReader(obj, maxDatasetSize+1))
	if err != nil {
		return nil, s.wrap(err)
	}
	if len(data) > maxDatasetSize {
		return nil, fmt.Errorf("campus dataset %s/%s exceeds %d bytes", s.bucket, s.object, maxDatasetSize)
	}
	s.logger.Info("Campus dataset fetched", zap.Int("bytes", len(data)))
	return data, nil
}

// PublishDataset uploads data, creating the bucket on first use.
func (s *DatasetStore) PublishDataset(ctx context.Context, data []byte) error {
	if err := s.ensureBucket(ctx); err != nil {
		return err
	}
	info, err := s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", s.bucket, s.object, err)
	}
	s.logger.Info("Campus dataset published", zap.String("etag", info.ETag), zap.Int64("size", info.Size))
	return nil
}

func (s *DatasetStore) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *DatasetStore) wrap(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("campus dataset %s/%s: %w", s.bucket, s.object, domain.ErrNotFound)
	}
	return fmt.Errorf("failed to read campus dataset %s/%s: %w", s.bucket, s.object, err)
}
