package fx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/config"
)

func TestRateFetchAndCache(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rate": "70.5"}`))
	}))
	defer server.Close()

	client := NewClient(config.FXConfig{RateURL: server.URL, RefreshMinutes: 60}, zap.NewNop())

	rate, err := client.Rate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "70.5", rate.String())

	// second call served from cache
	_, err = client.Rate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRateStaleOnError(t *testing.T) {
	fail := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"rate": "71"}`))
	}))
	defer server.Close()

	client := NewClient(config.FXConfig{RateURL: server.URL, RefreshMinutes: 60}, zap.NewNop())

	rate, err := client.Rate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "71", rate.String())

	// expire the cache, then fail the upstream: stale value is served
	client.fetchedAt = client.fetchedAt.Add(-2 * client.refresh)
	fail = true

	rate, err = client.Rate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "71", rate.String())
}

func TestRateUnconfigured(t *testing.T) {
	client := NewClient(config.FXConfig{}, zap.NewNop())

	_, err := client.Rate(context.Background())
	assert.Error(t, err)
}

func TestRateRejectsNonPositive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"rate": "0"}`))
	}))
	defer server.Close()

	client := NewClient(config.FXConfig{RateURL: server.URL, RefreshMinutes: 60}, zap.NewNop())

	_, err := client.Rate(context.Background())
	assert.Error(t, err)
}
