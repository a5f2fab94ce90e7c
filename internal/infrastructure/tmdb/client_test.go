package tmdb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/moviecatalog/backend/internal/domain/catalog"
	"github.com/moviecatalog/backend/internal/infrastructure/cache"
	"github.com/moviecatalog/backend/internal/infrastructure/config"
)

const pageBody = `{
	"page": 1,
	"total_pages": 3,
	"total_results": 42,
	"results": [
		{"id": 603, "title": "The Matrix", "overview": "Neo.", "poster_path": "/matrix.jpg",
		 "release_date": "1999-03-30", "vote_average": 8.2, "genre_ids": [28, 878]}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.TMDBConfig{
		APIKey:        "test-key",
		BaseURL:       srv.URL + "/3/",
		ImageBaseURL:  "https://image.tmdb.org/t/p/w500",
		Language:      "en-US",
		Timeout:       2 * time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}, zap.NewNop())
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/search/movie", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "matrix reloaded", q.Get("query"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "test-key", q.Get("api_key"))
		assert.Equal(t, "en-US", q.Get("language"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pageBody))
	})

	page, err := client.Search(context.Background(), "matrix reloaded", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 42, page.TotalResults)
	require.Len(t, page.Results, 1)

	movie := page.Results[0]
	assert.Equal(t, int64(603), movie.ID)
	assert.Equal(t, "The Matrix", movie.Title)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/matrix.jpg", movie.PosterURL)
	assert.Equal(t, []int{28, 878}, movie.GenreIDs)
}

func TestClient_ListByCategory(t *testing.T) {
	for _, category := range catalog.Categories {
		t.Run(string(category), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/3/movie/"+string(category), r.URL.Path)
				_, _ = w.Write([]byte(`{"page":1,"total_pages":1,"total_results":0,"results":null}`))
			})

			page, err := client.ListByCategory(context.Background(), category, 1)
			require.NoError(t, err)
			assert.NotNil(t, page.Results)
			assert.Empty(t, page.Results)
		})
	}
}

func TestClient_GetDetail(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/3/movie/603", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":603,"title":"The Matrix","runtime":136,"tagline":"Welcome to the Real World.",
			"poster_path":"/matrix.jpg","genres":[{"id":28,"name":"Action"}]}`))
	})

	detail, err := client.GetDetail(context.Background(), "603")
	require.NoError(t, err)
	assert.Equal(t, 136, detail.Runtime)
	assert.Equal(t, "https://image.tmdb.org/t/p/w500/matrix.jpg", detail.PosterURL)
	assert.Equal(t, []catalog.Genre{{ID: 28, Name: "Action"}}, detail.Genres)
}

func TestClient_GetDetail_NotFound(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status_code":34,"status_message":"The resource you requested could not be found."}`))
	})

	_, err := client.GetDetail(context.Background(), "999999999")
	assert.ErrorIs(t, err, catalog.ErrMovieNotFound)
	assert.Equal(t, int32(1), calls.Load(), "404 is not retried")
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"server error", http.StatusBadGateway},
		{"rate limited", http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if calls.Add(1) < 3 {
					w.WriteHeader(tt.status)
					return
				}
				_, _ = w.Write([]byte(pageBody))
			})

			page, err := client.ListByCategory(context.Background(), catalog.CategoryPopular, 1)
			require.NoError(t, err)
			assert.Len(t, page.Results, 1)
			assert.Equal(t, int32(3), calls.Load())
		})
	}
}

func TestClient_GivesUpAfterAttempts(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Search(context.Background(), "dune", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUpstream)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status_message":"Invalid API key"}`))
	})

	_, err := client.ListByCategory(context.Background(), catalog.CategoryTopRated, 1)
	assert.ErrorIs(t, err, catalog.ErrUpstream)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_MalformedBody(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"results": [`))
	})

	_, err := client.Search(context.Background(), "dune", 1)
	assert.ErrorIs(t, err, catalog.ErrUpstream)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_Unreachable(t *testing.T) {
	client := NewClient(config.TMDBConfig{
		BaseURL:       "http://127.0.0.1:1",
		Timeout:       time.Second,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, zap.NewNop())

	_, err := client.GetDetail(context.Background(), "603")
	assert.ErrorIs(t, err, catalog.ErrUpstream)
}

func TestCachedClient(t *testing.T) {
	var calls atomic.Int32
	upstream := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(pageBody))
	})
	store := cache.NewInMemoryStore(10, time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	client := NewCachedClient(upstream, store, time.Minute, zap.NewNop(), nil)
	ctx := context.Background()

	first, err := client.ListByCategory(ctx, catalog.CategoryPopular, 1)
	require.NoError(t, err)
	second, err := client.ListByCategory(ctx, catalog.CategoryPopular, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), calls.Load())

	_, err = client.ListByCategory(ctx, catalog.CategoryPopular, 2)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load(), "different page is a different key")
}

func TestCachedClient_DoesNotCacheErrors(t *testing.T) {
	var calls atomic.Int32
	upstream := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	})
	store := cache.NewInMemoryStore(10, time.Minute)
	t.Cleanup(func() { _ = store.Close() })
	client := NewCachedClient(upstream, store, time.Minute, zap.NewNop(), nil)

	for range 2 {
		_, err := client.GetDetail(context.Background(), "1")
		assert.ErrorIs(t, err, catalog.ErrMovieNotFound)
	}
	assert.Equal(t, int32(2), calls.Load())
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (failingStore) Close() error { return nil }

func TestCachedClient_StoreFailureFallsThrough(t *testing.T) {
	upstream := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(pageBody))
	})
	client := NewCachedClient(upstream, failingStore{}, time.Minute, zap.NewNop(), nil)

	page, err := client.Search(context.Background(), "matrix", 1)
	require.NoError(t, err)
	assert.Len(t, page.Results, 1)
}

func TestNewCachedClient_ZeroTTLDisables(t *testing.T) {
	upstream := NewClient(config.TMDBConfig{BaseURL: "http://example.invalid"}, zap.NewNop())
	client := NewCachedClient(upstream, failingStore{}, 0, zap.NewNop(), nil)
	assert.Same(t, upstream, client)
}
