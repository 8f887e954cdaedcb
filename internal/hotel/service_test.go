package hotel

import (
	"context"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"hotel-search/internal/common/logger"
	"hotel-search/internal/common/observability"
	"hotel-search/internal/models"
)

// fakeTransport records every request and replays a canned response.
type fakeTransport struct {
	mu       sync.Mutex
	status   int
	response string
	err      error

	requests []*http.Request
	bodies   []string
}

func (f *fakeTransport) Perform(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	body := ""
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		body = string(raw)
	}
	f.requests = append(f.requests, req)
	f.bodies = append(f.bodies, body)

	if f.err != nil {
		return nil, f.err
	}
	status := f.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(f.response)),
	}, nil
}

func (f *fakeTransport) lastRequest(t *testing.T) (*http.Request, string) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests, "no request reached the index")
	i := len(f.requests) - 1
	return f.requests[i], f.bodies[i]
}

func intPtr(v int) *int { return &v }

func newTestService(t *testing.T, transport *fakeTransport) *Service {
	return NewService(transport, "hotel", logger.NewTestLogger(t), nil)
}

const twoHits = `{
	"took": 3,
	"hits": {
		"total": {"value": 17, "relation": "eq"},
		"max_score": 12.5,
		"hits": [
			{"_id": "1", "_score": 12.5, "_source": {"id": 1, "name": "Spring Hotel", "city": "Shanghai", "price": 320, "isAD": true}},
			{"_id": "2", "_score": 1.25, "_source": {"id": 2, "name": "Spring Inn", "city": "Shanghai", "price": 480}}
		]
	}
}`

func TestService_Search_Scenario(t *testing.T) {
	transport := &fakeTransport{response: twoHits}
	svc := newTestService(t, transport)

	result, err := svc.Search(context.Background(), models.SearchParams{
		Key:      "spring",
		City:     "Shanghai",
		MinPrice: intPtr(300),
		MaxPrice: intPtr(500),
		Page:     1,
		Size:     2,
	})
	require.NoError(t, err)

	req, body := transport.lastRequest(t)
	assert.Equal(t, "/hotel/_search", req.URL.Path)
	assert.Equal(t, "0", req.URL.Query().Get("from"))
	assert.Equal(t, "2", req.URL.Query().Get("size"))
	assert.JSONEq(t, `{
		"query": {
			"function_score": {
				"query": {
					"bool": {
						"must": [{"match": {"all": "spring"}}],
						"filter": [
							{"term": {"city": "Shanghai"}},
							{"range": {"price": {"gte": 300, "lte": 500}}}
						]
					}
				},
				"functions": [{"filter": {"term": {"isAD": true}}, "weight": 10}],
				"score_mode": "multiply",
				"boost_mode": "multiply"
			}
		}
	}`, body)

	assert.Equal(t, uint64(17), result.Total)
	require.Len(t, result.Hotels, 2)
	assert.Equal(t, "Spring Hotel", result.Hotels[0].Name)
	assert.True(t, result.Hotels[0].IsAD)
	assert.Nil(t, result.Hotels[0].Distance)
	assert.Equal(t, int64(2), result.Hotels[1].ID)
}

func TestService_Search_GeoSortSetsDistance(t *testing.T) {
	transport := &fakeTransport{response: `{
		"hits": {
			"total": {"value": 2, "relation": "eq"},
			"hits": [
				{"_id": "5", "_score": null, "_source": {"id": 5, "name": "Near"}, "sort": [0.42]},
				{"_id": "6", "_score": null, "_source": {"id": 6, "name": "Far"}, "sort": [7.5]}
			]
		}
	}`}
	svc := newTestService(t, transport)

	result, err := svc.Search(context.Background(), models.SearchParams{Location: "31.21,121.5", Page: 1, Size: 10})
	require.NoError(t, err)

	_, body := transport.lastRequest(t)
	assert.JSONEq(t, `{
		"query": {
			"function_score": {
				"query": {"bool": {"must": [{"match_all": {}}]}},
				"functions": [{"filter": {"term": {"isAD": true}}, "weight": 10}],
				"score_mode": "multiply",
				"boost_mode": "multiply"
			}
		},
		"sort": [{"_geo_distance": {"location": {"lat": 31.21, "lon": 121.5}, "order": "asc", "unit": "km"}}]
	}`, body)

	require.Len(t, result.Hotels, 2)
	require.NotNil(t, result.Hotels[0].Distance)
	assert.InDelta(t, 0.42, *result.Hotels[0].Distance, 1e-9)
	require.NotNil(t, result.Hotels[1].Distance)
	assert.InDelta(t, 7.5, *result.Hotels[1].Distance, 1e-9)
}

func TestService_Search_UnlocatedHotelKeepsNoDistance(t *testing.T) {
	transport := &fakeTransport{response: `{
		"hits": {
			"total": {"value": 2, "relation": "eq"},
			"hits": [
				{"_id": "5", "_score": null, "_source": {"id": 5, "name": "Near"}, "sort": [0.42]},
				{"_id": "8", "_score": null, "_source": {"id": 8, "name": "Nowhere"}, "sort": ["Infinity"]}
			]
		}
	}`}
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewService(transport, "hotel", logger.NewZapAdapter(zap.New(core)), nil)

	result, err := svc.Search(context.Background(), models.SearchParams{Location: "31.21,121.5", Page: 1, Size: 10})
	require.NoError(t, err)
	require.Len(t, result.Hotels, 2)
	require.NotNil(t, result.Hotels[0].Distance)
	assert.Nil(t, result.Hotels[1].Distance)

	warnings := logs.FilterMessage("Hotel distance not set").All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "8", warnings[0].ContextMap()["hotelId"])
}

func TestService_Search_Pagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		size     int
		wantFrom string
		wantSize string
	}{
		{"second page", 2, 10, "10", "10"},
		{"page zero is first page", 0, 5, "0", "5"},
		{"negative size", 3, -4, "0", "0"},
		{"huge page with zero size", math.MaxInt, 0, "0", "0"},
		{"overflowing offset", 1<<61 + 1, 5, "", ""},
		{"offset just past max int", math.MaxInt/10 + 2, 10, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{response: `{"hits": {"total": {"value": 0}, "hits": []}}`}
			_, err := newTestService(t, transport).Search(context.Background(), models.SearchParams{Page: tt.page, Size: tt.size})
			if tt.wantFrom == "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrValidation)
				assert.ErrorIs(t, err, models.ErrPageOutOfRange)
				assert.Empty(t, transport.requests)
				return
			}
			require.NoError(t, err)

			req, _ := transport.lastRequest(t)
			assert.Equal(t, tt.wantFrom, req.URL.Query().Get("from"))
			assert.Equal(t, tt.wantSize, req.URL.Query().Get("size"))
		})
	}
}

func TestService_Search_EmptyResult(t *testing.T) {
	transport := &fakeTransport{response: `{"hits": {"total": {"value": 0, "relation": "eq"}, "hits": []}}`}

	result, err := newTestService(t, transport).Search(context.Background(), models.SearchParams{Key: "nothing", Page: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(0), result.Total)
	assert.NotNil(t, result.Hotels)
	assert.Empty(t, result.Hotels)
}

func TestService_Search_InvalidLocation(t *testing.T) {
	transport := &fakeTransport{response: twoHits}

	_, err := newTestService(t, transport).Search(context.Background(), models.SearchParams{Location: "not-a-point"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Empty(t, transport.requests, "validation errors must not reach the index")
}

func TestService_IndexFailures(t *testing.T) {
	tests := []struct {
		name      string
		transport *fakeTransport
	}{
		{"transport error", &fakeTransport{err: errors.New("connection refused")}},
		{"error status", &fakeTransport{status: http.StatusInternalServerError, response: `{"error": "boom"}`}},
		{"malformed body", &fakeTransport{response: `{"hits": `}},
		{"malformed source", &fakeTransport{response: `{"hits": {"total": {"value": 1}, "hits": [{"_id": "1", "_source": {"id": "x"}}]}}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, tt.transport)
			ctx := context.Background()

			page, err := svc.Search(ctx, models.SearchParams{Page: 1, Size: 10})
			assert.ErrorIs(t, err, ErrServiceUnavailable)
			assert.Nil(t, page)

			if tt.name == "malformed source" {
				return
			}

			facets, err := svc.Filters(ctx, models.SearchParams{})
			assert.ErrorIs(t, err, ErrServiceUnavailable)
			assert.Nil(t, facets)

			suggestions, err := svc.Suggest(ctx, "di")
			assert.ErrorIs(t, err, ErrServiceUnavailable)
			assert.Nil(t, suggestions)
		})
	}
}

func TestService_Filters(t *testing.T) {
	transport := &fakeTransport{response: `{
		"hits": {"total": {"value": 40}, "hits": []},
		"aggregations": {
			"brandAgg": {"buckets": [{"key": "Hilton", "doc_count": 12}, {"key": "7 Days", "doc_count": 3}]},
			"cityAgg": {"buckets": [{"key": "Shanghai", "doc_count": 40}]},
			"starNameAgg": {"buckets": []}
		}
	}`}
	svc := newTestService(t, transport)

	params := models.SearchParams{City: "Shanghai", Page: 3, Size: 20}
	facets, err := svc.Filters(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, models.FacetMap{
		"brand":    {"Hilton", "7 Days"},
		"city":     {"Shanghai"},
		"starName": {},
	}, facets)

	req, body := transport.lastRequest(t)
	assert.Equal(t, "0", req.URL.Query().Get("size"))
	assert.JSONEq(t, `{
		"query": {
			"function_score": {
				"query": {
					"bool": {
						"must": [{"match_all": {}}],
						"filter": [{"term": {"city": "Shanghai"}}]
					}
				},
				"functions": [{"filter": {"term": {"isAD": true}}, "weight": 10}],
				"score_mode": "multiply",
				"boost_mode": "multiply"
			}
		},
		"aggs": {
			"brandAgg": {"terms": {"field": "brand", "size": 100}},
			"cityAgg": {"terms": {"field": "city", "size": 100}},
			"starNameAgg": {"terms": {"field": "starName", "size": 100}}
		}
	}`, body)

	again, err := svc.Filters(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, facets, again)
}

func TestService_Suggest(t *testing.T) {
	transport := &fakeTransport{response: `{
		"suggest": {
			"suggestions": [{
				"text": "di", "offset": 0, "length": 2,
				"options": [
					{"text": "Dickson Hotel", "_score": 3},
					{"text": "Diamond Inn", "_score": 2},
					{"text": "Disney Resort", "_score": 1}
				]
			}]
		}
	}`}

	got, err := newTestService(t, transport).Suggest(context.Background(), "di")
	require.NoError(t, err)
	assert.Equal(t, []string{"Dickson Hotel", "Diamond Inn", "Disney Resort"}, got)

	req, body := transport.lastRequest(t)
	assert.Empty(t, req.URL.Query().Get("size"))
	assert.JSONEq(t, `{
		"suggest": {
			"suggestions": {
				"prefix": "di",
				"completion": {"field": "suggestion", "skip_duplicates": true, "size": 10}
			}
		}
	}`, body)
}

func TestService_RecordsSpansAndMetrics(t *testing.T) {
	reader := metric.NewManualReader()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = tp.Shutdown(context.Background()) }()
	obs := observability.NewWithReader("hotel-search-test", reader, tp)

	svc := NewService(&fakeTransport{response: twoHits}, "hotel", logger.NewNoOpLogger(), obs)
	_, err := svc.Search(context.Background(), models.SearchParams{Page: 1, Size: 2})
	require.NoError(t, err)

	_, err = svc.Search(context.Background(), models.SearchParams{Location: "999,0"})
	require.Error(t, err)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)
	assert.Equal(t, "hotel.search", spans[0].Name)
	assert.Contains(t, spans[0].Attributes, attribute.Int("hits", 2))
	assert.Len(t, spans[1].Events, 1, "validation error is recorded on the span")
}

// A real client against an httptest server exercises request encoding end to end.
func TestService_WithElasticsearchClient(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, twoHits)
	}))
	defer srv.Close()

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	result, err := NewService(es, "hotel", logger.NewTestLogger(t), nil).
		Search(context.Background(), models.SearchParams{Key: "spring", Page: 2, Size: 2})
	require.NoError(t, err)

	assert.Equal(t, "/hotel/_search", gotPath)
	assert.Contains(t, gotQuery, "from=2")
	assert.Contains(t, gotQuery, "size=2")
	assert.Equal(t, uint64(17), result.Total)
	assert.Len(t, result.Hotels, 2)
}

// TestService_LiveCluster runs against a local cluster holding the hotel index.
func TestService_LiveCluster(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	conn, err := net.DialTimeout("tcp", "localhost:9200", 500*time.Millisecond)
	if err != nil {
		t.Skip("no elasticsearch at localhost:9200")
	}
	_ = conn.Close()

	es, err := elasticsearch.NewDefaultClient()
	require.NoError(t, err)
	svc := NewService(es, "hotel", logger.NewTestLogger(t), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	page, err := svc.Search(ctx, models.SearchParams{Page: 1, Size: 5})
	if errors.Is(err, ErrServiceUnavailable) {
		t.Skipf("hotel index not usable: %v", err)
	}
	require.NoError(t, err)
	assert.LessOrEqual(t, len(page.Hotels), 5)
	assert.GreaterOrEqual(t, page.Total, uint64(len(page.Hotels)))

	suggestions, err := svc.Suggest(ctx, "")
	if errors.Is(err, ErrServiceUnavailable) {
		t.Skipf("hotel index has no completion field: %v", err)
	}
	require.NoError(t, err)
	assert.LessOrEqual(t, len(suggestions), 10)
}
