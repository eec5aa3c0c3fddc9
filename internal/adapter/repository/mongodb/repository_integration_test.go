//go:build integration

package mongodb

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/lukegrady1/Roomify/internal/search/domain"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const testDatabase = "roomify_search_test"

var testDB *mongo.Database

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "6.0",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("Could not start MongoDB resource: %s", err)
	}
	uri := fmt.Sprintf("mongodb://%s", resource.GetHostPort("27017/tcp"))

	var client *mongo.Client
	if err := pool.Retry(func() error {
		var errRetry error
		client, errRetry = Connect(context.Background(), uri, 5*time.Second)
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to MongoDB: %s", err)
	}
	testDB = client.Database(testDatabase)

	code := m.Run()

	_ = client.Disconnect(context.Background())
	if err := pool.Purge(resource); err != nil {
		log.Fatalf("Could not purge MongoDB resource: %s", err)
	}
	os.Exit(code)
}

func clearCollection(t *testing.T, name string) {
	_, err := testDB.Collection(name).DeleteMany(context.Background(), bson.M{})
	require.NoError(t, err)
}

func ptr[T any](v T) *T { return &v }

func TestListingRepository(t *testing.T) {
	ctx := context.Background()
	clearCollection(t, listingCollectionName)
	repo, err := NewListingRepository(testDB, logger.NewNop())
	require.NoError(t, err)

	seed := []*domain.Listing{
		{Title: "Porter Sq room", UserID: "h1", Price: 1500, RoomType: domain.RoomPrivate, City: "Cambridge", State: "MA", Lat: ptr(42.3884), Lng: ptr(-71.1191)},
		{Title: "Back Bay studio", UserID: "h2", Price: 2400, RoomType: domain.RoomEntire, City: "Boston", State: "MA"},
		{Title: "Hyde Park loft", UserID: "h3", Price: 1100, RoomType: domain.RoomShared, City: "Chicago", State: "IL"},
	}
	for _, l := range seed {
		require.NoError(t, repo.Insert(ctx, l))
		require.NotEmpty(t, l.ID)
	}

	t.Run("FindAll keeps insertion order", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, seed[0].ID, all[0].ID)
		assert.Equal(t, seed[2].ID, all[2].ID)
	})

	t.Run("FindByRegion ignores case", func(t *testing.T) {
		got, err := repo.FindByRegion(ctx, "cambridge", "")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Porter Sq room", got[0].Title)

		got, err = repo.FindByRegion(ctx, "Cambridge", "ma")
		require.NoError(t, err)
		assert.Len(t, got, 2)

		got, err = repo.FindByRegion(ctx, "", "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("FindByID round-trips coordinates", func(t *testing.T) {
		got, err := repo.FindByID(ctx, seed[0].ID)
		require.NoError(t, err)
		require.NotNil(t, got.Lat)
		assert.InDelta(t, 42.3884, *got.Lat, 1e-9)
		assert.InDelta(t, -71.1191, *got.Lng, 1e-9)

		got, err = repo.FindByID(ctx, seed[1].ID)
		require.NoError(t, err)
		assert.Nil(t, got.Lat)
	})

	t.Run("FindByID errors", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "not-an-object-id")
		assert.ErrorIs(t, err, domain.ErrInvalidListingID)

		_, err = repo.FindByID(ctx, "0123456789abcdef01234567")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestFavoriteRepository(t *testing.T) {
	ctx := context.Background()
	clearCollection(t, favoriteCollectionName)
	repo, err := NewFavoriteRepository(testDB, logger.NewNop())
	require.NoError(t, err)

	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	first := &domain.Favorite{UserID: "u1", ListingID: "a", CreatedAt: base}
	second := &domain.Favorite{UserID: "u1", ListingID: "b", CreatedAt: base.Add(time.Hour)}
	require.NoError(t, repo.Add(ctx, first))
	require.NoError(t, repo.Add(ctx, second))
	assert.NotEmpty(t, first.ID)

	err = repo.Add(ctx, &domain.Favorite{UserID: "u1", ListingID: "a"})
	assert.ErrorIs(t, err, domain.ErrFavoriteExists)

	ids, err := repo.ListingIDsByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids)

	require.NoError(t, repo.Remove(ctx, "u1", "a"))
	assert.ErrorIs(t, repo.Remove(ctx, "u1", "a"), domain.ErrNotFound)

	ids, err = repo.ListingIDsByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
