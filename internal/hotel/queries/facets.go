package queries

import "hotel-search/internal/models"

// FacetField is a hotel attribute exposed as a filter facet.
type FacetField string

const (
	FacetBrand    FacetField = FieldBrand
	FacetCity     FacetField = FieldCity
	FacetStarName FacetField = FieldStarName

	// FacetBucketSize caps the distinct values returned per facet.
	FacetBucketSize = 100
)

// FacetFields is the fixed facet set, in response order.
var FacetFields = []FacetField{FacetBrand, FacetCity, FacetStarName}

// AggregationName is the name of the terms aggregation backing the facet.
func (f FacetField) AggregationName() string {
	return string(f) + "Agg"
}

// FacetAggregations returns one terms aggregation per facet field. Bucket
// order is left to the engine default (doc count, descending).
func FacetAggregations() map[string]interface{} {
	aggs := make(map[string]interface{}, len(FacetFields))
	for _, f := range FacetFields {
		aggs[f.AggregationName()] = map[string]interface{}{
			"terms": map[string]interface{}{
				"field": string(f),
				"size":  FacetBucketSize,
			},
		}
	}
	return aggs
}

// FacetBody is the request body for facet extraction: the search query used as
// filter context plus the facet aggregations. Hits are not fetched.
func FacetBody(q Clause) map[string]interface{} {
	return map[string]interface{}{
		"query": q.Source(),
		"aggs":  FacetAggregations(),
	}
}

// ExtractFacets folds aggregation buckets into facet values. Every facet field
// is present in the result, with an empty list when it has no buckets.
func ExtractFacets(resp *SearchResponse) models.FacetMap {
	facets := make(models.FacetMap, len(FacetFields))
	for _, f := range FacetFields {
		values := []string{}
		if resp != nil {
			if agg, ok := resp.Aggregations[f.AggregationName()]; ok {
				for _, b := range agg.Buckets {
					values = append(values, b.KeyString())
				}
			}
		}
		facets[string(f)] = values
	}
	return facets
}
