package queries

import (
	"strings"

	"hotel-search/internal/models"
)

const (
	// FieldAll is the copy_to field combining name, brand, business and city.
	FieldAll      = "all"
	FieldCity     = "city"
	FieldBrand    = "brand"
	FieldStarName = "starName"
	FieldPrice    = "price"
	FieldIsAD     = "isAD"
	FieldLocation = "location"

	// AdWeight is the score multiplier applied to sponsored hotels.
	AdWeight = 10
)

// DefaultBoostRules are applied, in order, on top of text relevance.
var DefaultBoostRules = []BoostRule{
	{Filter: Term{Field: FieldIsAD, Value: true}, Weight: AdWeight},
}

// BuildQuery turns request parameters into the composite scoring query shared
// by paged search and facet aggregation. Blank parameters mean "no filter".
func BuildQuery(params models.SearchParams) FunctionScore {
	var must Clause = MatchAll{}
	if key := strings.TrimSpace(params.Key); key != "" {
		must = Match{Field: FieldAll, Text: key}
	}

	var filters []Clause
	if city := strings.TrimSpace(params.City); city != "" {
		filters = append(filters, Term{Field: FieldCity, Value: city})
	}
	if brand := strings.TrimSpace(params.Brand); brand != "" {
		filters = append(filters, Term{Field: FieldBrand, Value: brand})
	}
	if star := strings.TrimSpace(params.StarName); star != "" {
		filters = append(filters, Term{Field: FieldStarName, Value: star})
	}
	// a single bound is ignored on purpose
	if params.MinPrice != nil && params.MaxPrice != nil {
		filters = append(filters, Range{Field: FieldPrice, GTE: *params.MinPrice, LTE: *params.MaxPrice})
	}

	rules := make([]BoostRule, len(DefaultBoostRules))
	copy(rules, DefaultBoostRules)

	return FunctionScore{
		Query:     Bool{Must: []Clause{must}, Filter: filters},
		Rules:     rules,
		ScoreMode: CombineMultiply,
		BoostMode: CombineMultiply,
	}
}

// SearchBody renders a paged search request body. Pagination travels as
// request parameters, not in the body.
func SearchBody(q Clause, sorts []Sort) map[string]interface{} {
	body := map[string]interface{}{"query": q.Source()}
	if len(sorts) > 0 {
		rendered := make([]interface{}, 0, len(sorts))
		for _, s := range sorts {
			rendered = append(rendered, s.Source())
		}
		body["sort"] = rendered
	}
	return body
}
