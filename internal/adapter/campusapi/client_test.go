package campusapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/lukegrady1/Roomify/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harvardPayload = `{
	"metadata": {"total": 2, "page": 0, "per_page": 5},
	"results": [
		{"id": 166027, "school.name": "Harvard University", "school.city": "Cambridge", "school.state": "MA", "location.lat": 42.374471, "location.lon": -71.118313},
		{"id": 999999, "school.name": "Harvard Extension School", "school.city": "Cambridge", "school.state": "MA", "location.lat": null, "location.lon": null}
	]
}`

func newTestClient(url string) *Client {
	c := New(url, "test-key", time.Second, logger.NewNop())
	c.backoff = func() backoff.BackOff { return &backoff.ZeroBackOff{} }
	return c
}

func TestClient_Search(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(harvardPayload))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL+"/v1/schools.json").Search(context.Background(), " harvard ", 5)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "scorecard-166027", got[0].ID)
	assert.Equal(t, "Harvard University", got[0].Name)
	assert.Equal(t, "harvard-university", got[0].Slug)
	require.NotNil(t, got[0].Lat)
	assert.InDelta(t, 42.374471, *got[0].Lat, 1e-9)
	assert.Nil(t, got[1].Lat)

	assert.Equal(t, []string{"harvard"}, gotQuery["school.name"])
	assert.Equal(t, []string{"5"}, gotQuery["per_page"])
	assert.Equal(t, []string{"test-key"}, gotQuery["api_key"])
	assert.Equal(t, []string{requestedFields}, gotQuery["fields"])
}

func TestClient_SearchTrimsToLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(harvardPayload))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Search(context.Background(), "harvard", 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestClient_SearchBlankQuery(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, calls.Load())
}

func TestClient_SearchRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(harvardPayload))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Search(context.Background(), "harvard", 5)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.EqualValues(t, 2, calls.Load())
}

func TestClient_SearchDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), "harvard", 5)
	require.Error(t, err)
	code, ok := StatusCode(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, code)
	assert.EqualValues(t, 1, calls.Load())
}

func TestClient_SearchGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), "harvard", 5)
	require.Error(t, err)
	assert.EqualValues(t, maxRetries+1, calls.Load())
}

func TestClient_SearchMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results": [`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), "harvard", 5)
	assert.ErrorContains(t, err, "decode")
}
