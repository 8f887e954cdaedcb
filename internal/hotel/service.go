// Package hotel runs hotel search, facet and suggestion queries against the
// document index.
package hotel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"hotel-search/internal/common/logger"
	"hotel-search/internal/common/observability"
	"hotel-search/internal/hotel/queries"
	"hotel-search/internal/models"
)

const (
	OperationSearch  = "search"
	OperationFilters = "filters"
	OperationSuggest = "suggest"
)

// Service issues exactly one index round trip per call and keeps no state
// between calls. The transport is shared and must be safe for concurrent use;
// *elasticsearch.Client is.
type Service struct {
	transport esapi.Transport
	index     string
	logger    logger.Logger
	obs       *observability.Observability
}

// NewService creates a Service. obs may be nil.
func NewService(transport esapi.Transport, index string, log logger.Logger, obs *observability.Observability) *Service {
	return &Service{
		transport: transport,
		index:     index,
		logger:    log,
		obs:       obs,
	}
}

// Search returns one page of ranked hotels. A malformed location or a page
// whose offset overflows fails with ErrValidation before the index is called. With a location, every hotel
// carries its distance in km.
func (s *Service) Search(ctx context.Context, params models.SearchParams) (result *models.PageResult, err error) {
	ctx, span := s.obs.StartSpan(ctx, "hotel.search", attribute.String("index", s.index))
	defer func() { observability.EndSpan(span, err) }()

	sorts, err := queries.PlanSort(params.Location)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	from, err := params.Offset()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	body := queries.SearchBody(queries.BuildQuery(params), sorts)
	resp, err := s.do(ctx, OperationSearch, body, from, params.PageSize())
	if err != nil {
		return nil, err
	}

	hotels := make([]models.HotelDoc, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var doc models.HotelDoc
		if err := json.Unmarshal(hit.Source, &doc); err != nil {
			return nil, fmt.Errorf("%w: decode hit %s: %w", ErrServiceUnavailable, hit.ID, err)
		}
		d, ok, err := hit.Distance()
		switch {
		case err != nil:
			s.logger.Warn("Hotel distance not set", map[string]interface{}{
				"hotelId": hit.ID,
				"error":   err.Error(),
			})
		case ok:
			doc.Distance = &d
		}
		hotels = append(hotels, doc)
	}

	span.SetAttributes(attribute.Int("hits", len(hotels)))
	return &models.PageResult{Total: resp.Hits.Total.Value, Hotels: hotels}, nil
}

// Filters returns the brand, city and starName values available within the
// filter context of params. Hits are not fetched. The active filters also
// constrain their own facet.
func (s *Service) Filters(ctx context.Context, params models.SearchParams) (facets models.FacetMap, err error) {
	ctx, span := s.obs.StartSpan(ctx, "hotel.filters", attribute.String("index", s.index))
	defer func() { observability.EndSpan(span, err) }()

	resp, err := s.do(ctx, OperationFilters, queries.FacetBody(queries.BuildQuery(params)), 0, 0)
	if err != nil {
		return nil, err
	}

	facets = queries.ExtractFacets(resp)
	buckets := 0
	for _, values := range facets {
		buckets += len(values)
	}
	span.SetAttributes(attribute.Int("buckets", buckets))
	return facets, nil
}

// Suggest returns up to ten distinct completions for prefix. An empty prefix
// is valid.
func (s *Service) Suggest(ctx context.Context, prefix string) (suggestions []string, err error) {
	ctx, span := s.obs.StartSpan(ctx, "hotel.suggest", attribute.String("index", s.index))
	defer func() { observability.EndSpan(span, err) }()

	resp, err := s.do(ctx, OperationSuggest, queries.SuggestBody(prefix), -1, -1)
	if err != nil {
		return nil, err
	}

	suggestions = queries.ExtractSuggestions(resp)
	span.SetAttributes(attribute.Int("options", len(suggestions)))
	return suggestions, nil
}

// do sends body to the _search endpoint. Negative from or size are omitted
// from the request.
func (s *Service) do(ctx context.Context, operation string, body map[string]interface{}, from, size int) (*queries.SearchResponse, error) {
	log := s.logger.WithFields(map[string]interface{}{
		"requestId": uuid.NewString(),
		"operation": operation,
		"index":     s.index,
	})

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", operation, err)
	}

	req := esapi.SearchRequest{
		Index: []string{s.index},
		Body:  bytes.NewReader(payload),
	}
	if from >= 0 {
		req.From = &from
	}
	if size >= 0 {
		req.Size = &size
	}

	start := time.Now()
	resp, err := s.roundTrip(ctx, req)
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.obs.RecordIndexRequest(ctx, operation, status, time.Since(start))

	if err != nil {
		log.Error("Index request failed", map[string]interface{}{
			"error":    err.Error(),
			"duration": time.Since(start).String(),
		})
		return nil, err
	}

	log.Debug("Index request completed", map[string]interface{}{
		"took":     resp.Took,
		"total":    resp.Hits.Total.Value,
		"duration": time.Since(start).String(),
	})
	return resp, nil
}

func (s *Service) roundTrip(ctx context.Context, req esapi.SearchRequest) (*queries.SearchResponse, error) {
	res, err := req.Do(ctx, s.transport)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrServiceUnavailable, res.String())
	}

	var resp queries.SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrServiceUnavailable, err)
	}
	return &resp, nil
}
