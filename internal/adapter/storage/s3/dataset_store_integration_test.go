//go:build integration

package s3

import (
	"context"
	"fmt"
	"testing"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/campus"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dataset = `[
	{"id": "1", "name": "Test University", "city": "Springfield", "state": "IL", "slug": "test-u"}
]`

func TestDatasetStore(t *testing.T) {
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping())

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "latest",
		Cmd:        []string{"server", "/data"},
		Env: []string{
			"MINIO_ROOT_USER=roomify",
			"MINIO_ROOT_PASSWORD=roomify-secret",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	ctx := context.Background()
	endpoint := resource.GetHostPort("9000/tcp")
	store, err := NewDatasetStore(endpoint, "roomify", "roomify-secret", "reference", "campuses.json", false, logger.NewNop())
	require.NoError(t, err)

	require.NoError(t, pool.Retry(func() error {
		_, errRetry := store.client.ListBuckets(ctx)
		return errRetry
	}), fmt.Sprintf("minio at %s", endpoint))

	_, err = store.FetchDataset(ctx)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, store.PublishDataset(ctx, []byte(dataset)))
	data, err := store.FetchDataset(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, dataset, string(data))

	dir := campus.LoadDirectory(ctx, store, logger.NewNop())
	assert.Equal(t, 1, dir.Len())
	assert.NotNil(t, dir.FindBySlug("test-u"))
}
