//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCache(t *testing.T) {
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	require.NoError(t, pool.Client.Ping())

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	ctx := context.Background()
	log := logger.NewNop()
	addr := resource.GetHostPort("6379/tcp")

	var client *redis.Client
	require.NoError(t, pool.Retry(func() error {
		var errRetry error
		client, errRetry = NewRedisClient(ctx, addr, "", 0, log)
		return errRetry
	}), fmt.Sprintf("redis at %s", addr))
	t.Cleanup(func() { _ = client.Close() })

	c := NewSearchCache(client, log)

	_, err = c.Get(ctx, "search:v1:missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, c.Set(ctx, "search:v1:campus=MIT", []byte(`{"items":[]}`), time.Minute))
	got, err := c.Get(ctx, "search:v1:campus=MIT")
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[]}`, string(got))

	ttl, err := client.TTL(ctx, "search:v1:campus=MIT").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)
}
