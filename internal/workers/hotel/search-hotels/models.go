package searchhotels

import (
	"context"

	"hotel-search/internal/models"
)

type Input struct {
	models.SearchParams
}

type Output struct {
	Total  uint64            `json:"total"`
	Hotels []models.HotelDoc `json:"hotels"`
}

// Searcher is satisfied by *hotel.Service.
type Searcher interface {
	Search(ctx context.Context, params models.SearchParams) (*models.PageResult, error)
}
