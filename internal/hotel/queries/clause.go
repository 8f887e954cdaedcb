package queries

// Clause is one node of a query tree. Source renders it into the Elasticsearch
// query DSL. Clauses are values and are never mutated after construction.
type Clause interface {
	Source() map[string]interface{}
}

// MatchAll matches every document without scoring them.
type MatchAll struct{}

func (MatchAll) Source() map[string]interface{} {
	return map[string]interface{}{"match_all": map[string]interface{}{}}
}

// Match is a full-text match against one analyzed field.
type Match struct {
	Field string
	Text  string
}

func (m Match) Source() map[string]interface{} {
	return map[string]interface{}{
		"match": map[string]interface{}{m.Field: m.Text},
	}
}

// Term is an exact, non-analyzed value match.
type Term struct {
	Field string
	Value interface{}
}

func (t Term) Source() map[string]interface{} {
	return map[string]interface{}{
		"term": map[string]interface{}{t.Field: t.Value},
	}
}

// Range is an inclusive numeric range.
type Range struct {
	Field string
	GTE   interface{}
	LTE   interface{}
}

func (r Range) Source() map[string]interface{} {
	bounds := map[string]interface{}{}
	if r.GTE != nil {
		bounds["gte"] = r.GTE
	}
	if r.LTE != nil {
		bounds["lte"] = r.LTE
	}
	return map[string]interface{}{
		"range": map[string]interface{}{r.Field: bounds},
	}
}

// Bool combines scoring (Must) and non-scoring (Filter) clauses.
type Bool struct {
	Must   []Clause
	Filter []Clause
}

func (b Bool) Source() map[string]interface{} {
	body := map[string]interface{}{}
	if len(b.Must) > 0 {
		body["must"] = sources(b.Must)
	}
	if len(b.Filter) > 0 {
		body["filter"] = sources(b.Filter)
	}
	return map[string]interface{}{"bool": body}
}

// CombineMode names how function scores are merged with each other and with
// the base query score.
type CombineMode string

const (
	CombineMultiply CombineMode = "multiply"
	CombineSum      CombineMode = "sum"
	CombineReplace  CombineMode = "replace"
)

// BoostRule multiplies the score of documents matching Filter by Weight.
type BoostRule struct {
	Filter Clause
	Weight float64
}

func (r BoostRule) source() map[string]interface{} {
	return map[string]interface{}{
		"filter": r.Filter.Source(),
		"weight": r.Weight,
	}
}

// FunctionScore wraps a query with an ordered list of boost rules.
type FunctionScore struct {
	Query     Clause
	Rules     []BoostRule
	ScoreMode CombineMode
	BoostMode CombineMode
}

func (f FunctionScore) Source() map[string]interface{} {
	functions := make([]interface{}, 0, len(f.Rules))
	for _, rule := range f.Rules {
		functions = append(functions, rule.source())
	}

	body := map[string]interface{}{
		"query":     f.Query.Source(),
		"functions": functions,
	}
	if f.ScoreMode != "" {
		body["score_mode"] = string(f.ScoreMode)
	}
	if f.BoostMode != "" {
		body["boost_mode"] = string(f.BoostMode)
	}
	return map[string]interface{}{"function_score": body}
}

func sources(clauses []Clause) []interface{} {
	out := make([]interface{}, 0, len(clauses))
	for _, c := range clauses {
		out = append(out, c.Source())
	}
	return out
}
