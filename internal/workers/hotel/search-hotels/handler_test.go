package searchhotels

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel-search/internal/common/config"
	"hotel-search/internal/common/errors"
	"hotel-search/internal/common/logger"
	"hotel-search/internal/hotel"
	"hotel-search/internal/models"
)

type stubSearcher struct {
	result *models.PageResult
	err    error
	got    models.SearchParams
}

func (s *stubSearcher) Search(_ context.Context, params models.SearchParams) (*models.PageResult, error) {
	s.got = params
	return s.result, s.err
}

func createTestHandler(t *testing.T, svc Searcher) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{Service: svc, Logger: logger.NewTestLogger(t)})
	require.NoError(t, err)
	return h
}

func createJob(variables string) entities.Job {
	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:       2251799813685249,
		Type:      TaskType,
		Variables: variables,
		Retries:   3,
	}}
}

func TestNewHandler(t *testing.T) {
	_, err := NewHandler(HandlerOptions{})
	assert.Error(t, err)

	h, err := NewHandler(HandlerOptions{
		Service: &stubSearcher{},
		AppConfig: &config.Config{Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: true, Timeout: 1500, MaxRetries: 5},
		}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, h.config.Timeout)
	assert.Equal(t, 5, h.config.MaxRetries)

	_, err = NewHandler(HandlerOptions{
		Service: &stubSearcher{},
		AppConfig: &config.Config{Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: true, Timeout: 1500, MaxRetries: -1},
		}},
	})
	assert.Error(t, err)

	_, err = NewHandler(HandlerOptions{
		Service: &stubSearcher{},
		AppConfig: &config.Config{Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: true, Timeout: -1},
		}},
	})
	assert.Error(t, err)
}

func TestHandler_ParseInput(t *testing.T) {
	h := createTestHandler(t, &stubSearcher{})

	input, err := h.parseInput(createJob(`{
		"key": "spring", "city": "Shanghai", "page": 1, "size": 2,
		"minPrice": 300, "maxPrice": 500, "orderId": "unrelated"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "spring", input.Key)
	assert.Equal(t, "Shanghai", input.City)
	assert.Equal(t, 2, input.Size)
	require.NotNil(t, input.MinPrice)
	assert.Equal(t, 300, *input.MinPrice)
	assert.Equal(t, 500, *input.MaxPrice)
	assert.Empty(t, input.Location)
}

func TestHandler_ParseInput_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		variables string
		code      errors.ErrorCode
	}{
		{"page not a number", `{"page": "one"}`, errors.ErrCodeValidation},
		{"negative size", `{"size": -1}`, errors.ErrCodeValidation},
		{"page too large", `{"page": 1000001, "size": 10}`, errors.ErrCodeValidation},
		{"overflowing page", `{"page": 2305843009213693953, "size": 5}`, errors.ErrCodeValidation},
		{"fractional price", `{"minPrice": 99.5}`, errors.ErrCodeValidation},
		{"location not a string", `{"location": [31.2, 121.5]}`, errors.ErrCodeValidation},
		{"not json", `not-json`, errors.ErrCodeInputParsingFailed},
	}

	h := createTestHandler(t, &stubSearcher{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.parseInput(createJob(tt.variables))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.FromError(TaskType, err).Code)
		})
	}
}

func TestHandler_Execute(t *testing.T) {
	distance := 1.5
	svc := &stubSearcher{result: &models.PageResult{
		Total:  9,
		Hotels: []models.HotelDoc{{ID: 1, Name: "Spring Hotel", Distance: &distance}},
	}}
	h := createTestHandler(t, svc)

	input := &Input{SearchParams: models.SearchParams{Key: "spring", Location: "31.21,121.5", Page: 2, Size: 1}}
	output, err := h.Execute(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, input.SearchParams, svc.got)
	assert.Equal(t, uint64(9), output.Total)
	require.Len(t, output.Hotels, 1)
	assert.Equal(t, 1.5, *output.Hotels[0].Distance)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code errors.ErrorCode
	}{
		{"bad location", fmt.Errorf("%w: invalid location", hotel.ErrValidation), errors.ErrCodeValidation},
		{"index down", fmt.Errorf("%w: connection refused", hotel.ErrServiceUnavailable), errors.ErrCodeServiceUnavailable},
		{"timeout", fmt.Errorf("%w: %w", hotel.ErrServiceUnavailable, context.DeadlineExceeded), errors.ErrCodeSearchTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := createTestHandler(t, &stubSearcher{err: tt.err})
			output, err := h.Execute(context.Background(), &Input{})
			assert.Nil(t, output)
			assert.Equal(t, tt.code, errors.FromError(TaskType, err).Code)
		})
	}
}
