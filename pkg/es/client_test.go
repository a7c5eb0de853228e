package es

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func fakeCluster(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"name":"test","cluster_name":"test","version":{"number":"9.0.0"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClient_OK(t *testing.T) {
	srv := fakeCluster(t, http.StatusOK)

	client, err := NewClient(context.Background(), Config{URL: srv.URL})
	require.NoError(t, err)
	require.NotNil(t, client)
}

func TestNewClient_ClusterError(t *testing.T) {
	srv := fakeCluster(t, http.StatusServiceUnavailable)

	_, err := NewClient(context.Background(), Config{URL: srv.URL})
	require.Error(t, err)
}
