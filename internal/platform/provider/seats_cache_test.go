package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatsCacheServesCachedValueWithinTTL(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"seats":["A1"]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	cache := NewSeatsCache(client, time.Minute)

	first, err := cache.Get(context.Background(), "evt-1")
	require.NoError(t, err)
	second, err := cache.Get(context.Background(), "evt-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"A1"}, first)
	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSeatsCacheRefetchesAfterTTLExpires(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"seats":["A1"]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	cache := NewSeatsCache(client, time.Millisecond)

	_, err := cache.Get(context.Background(), "evt-1")
	require.NoError(t, err)
	time.Sleep(5 * time.Millisecond)
	_, err = cache.Get(context.Background(), "evt-1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSeatsCacheInvalidateForcesRefetch(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"seats":["A1"]}`))
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	cache := NewSeatsCache(client, time.Hour)

	_, err := cache.Get(context.Background(), "evt-1")
	require.NoError(t, err)
	cache.Invalidate("evt-1")
	_, err = cache.Get(context.Background(), "evt-1")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestSeatsCacheDoesNotCacheErrors(t *testing.T) {
	t.Parallel()

	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(testConfig(srv.URL), nil)
	cache := NewSeatsCache(client, time.Hour)

	_, err := cache.Get(context.Background(), "evt-missing")
	require.Error(t, err)
	_, err = cache.Get(context.Background(), "evt-missing")
	require.Error(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls), "an error response must never be cached")
}
