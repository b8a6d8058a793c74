package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/GeoCluster-Insight/pkg/types/geodata"
)

func fastClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{WithRetryWait(time.Millisecond, 2*time.Millisecond)}, opts...)
	c, err := NewClient(baseURL, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{"empty", ""},
		{"bad scheme", "ftp://example.org"},
		{"unparseable", "http://%zz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.baseURL)
			assert.Error(t, err)
		})
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	c, err := NewClient("http://localhost:8080/")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", c.baseURL)
}

func TestFetchGeoData(t *testing.T) {
	want := geodata.Result{
		QueryID:          "q-1",
		Datasets:         []geodata.Dataset{{GeoID: "200012345", PMID: "30356428", Cluster: 0}},
		PmidAssociations: map[string][]string{"30356428": {"200012345"}},
		Visualization:    geodata.Graph{Nodes: []geodata.Node{}, Links: []geodata.Link{}, Clusters: []geodata.ClusterSummary{}},
		ClusterCount:     1,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/fetch-geo-data", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Contains(t, r.Header.Get("User-Agent"), "geocluster-go-sdk/")

		var req geodata.Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"30356428"}, req.PMIDs)
		assert.Equal(t, "dev@example.com", req.Email)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(want))
	}))
	defer srv.Close()

	c := fastClient(t, srv.URL)
	got, err := c.FetchGeoData(context.Background(), geodata.Request{
		PMIDs: []string{"30356428"},
		Email: "dev@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestFetchGeoDataClientSideValidation(t *testing.T) {
	c := fastClient(t, "http://localhost:1")

	_, err := c.FetchGeoData(context.Background(), geodata.Request{Email: "dev@example.com"})
	assert.ErrorContains(t, err, "PMID")

	_, err = c.FetchGeoData(context.Background(), geodata.Request{PMIDs: []string{"1"}, Email: " "})
	assert.ErrorContains(t, err, "email")
}

func TestFetchGeoDataNoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(geodata.ErrorBody{Code: "RET_004", Message: "no GEO datasets found for the given PMIDs"})
	}))
	defer srv.Close()

	c := fastClient(t, srv.URL)
	_, err := c.FetchGeoData(context.Background(), geodata.Request{PMIDs: []string{"1"}, Email: "dev@example.com"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsNoData())
	assert.Equal(t, "RET_004", apiErr.Code)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthStatus{Status: "ok", Version: "test"})
	}))
	defer srv.Close()

	c := fastClient(t, srv.URL)
	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(geodata.ErrorBody{Code: "COMMON_007", Message: "pmids must be a non-empty list"})
	}))
	defer srv.Close()

	c := fastClient(t, srv.URL)
	_, err := c.FetchGeoData(context.Background(), geodata.Request{PMIDs: []string{"x"}, Email: "dev@example.com"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.False(t, apiErr.IsServerError())
	assert.Equal(t, int32(1), calls.Load())
}

func TestRetryBudgetExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := fastClient(t, srv.URL, WithRetryMax(1))
	err := c.Ready(context.Background())

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsServerError())
}

func TestRateLimitedRetriesAfterHint(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := fastClient(t, srv.URL)
	require.NoError(t, c.Ready(context.Background()))
	assert.Equal(t, int32(2), calls.Load())
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/healthz", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(HealthStatus{Status: "ok", Version: "1.2.3", Uptime: "5m0s"})
	}))
	defer srv.Close()

	c := fastClient(t, srv.URL)
	status, err := c.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", status.Version)
}

func TestContextCancellationStopsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := fastClient(t, srv.URL, WithRetryWait(time.Minute, time.Minute))
	err := c.Ready(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
