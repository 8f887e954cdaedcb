package hotelfilters

import (
	"context"

	"hotel-search/internal/models"
)

type Input struct {
	models.SearchParams
}

type Output struct {
	Filters models.FacetMap `json:"filters"`
}

type FacetLister interface {
	Filters(ctx context.Context, params models.SearchParams) (models.FacetMap, error)
}
