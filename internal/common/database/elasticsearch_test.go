package database

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-search/internal/common/config"
)

func newClusterServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if r.Method == http.MethodGet {
			_, _ = w.Write([]byte(`{"cluster_name":"hotel-cluster","version":{"number":"8.11.0"}}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewElasticsearch_RequiresAddress(t *testing.T) {
	_, err := NewElasticsearch(config.ElasticsearchConfig{})
	require.Error(t, err)
}

func TestElasticsearchClient_PingAndInfo(t *testing.T) {
	srv := newClusterServer(t, http.StatusOK)

	es, err := NewElasticsearch(config.ElasticsearchConfig{URL: srv.URL})
	require.NoError(t, err)

	require.NoError(t, es.Ping(context.Background()))

	info, err := es.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hotel-cluster", info.ClusterName)
	assert.Equal(t, "8.11.0", info.Version.Number)
}

func TestElasticsearchClient_PingError(t *testing.T) {
	srv := newClusterServer(t, http.StatusServiceUnavailable)

	es, err := NewElasticsearch(config.ElasticsearchConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	err = es.Ping(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
