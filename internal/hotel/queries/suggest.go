package queries

const (
	SuggestionName  = "suggestions"
	SuggestionField = "suggestion"
	SuggestionSize  = 10
)

// SuggestBody builds a completion suggester request for prefix. An empty
// prefix is passed through as is.
func SuggestBody(prefix string) map[string]interface{} {
	return map[string]interface{}{
		"suggest": map[string]interface{}{
			SuggestionName: map[string]interface{}{
				"prefix": prefix,
				"completion": map[string]interface{}{
					"field":           SuggestionField,
					"skip_duplicates": true,
					"size":            SuggestionSize,
				},
			},
		},
	}
}

// ExtractSuggestions flattens the options of the named suggestion in engine
// order, dropping repeated texts and anything past SuggestionSize.
func ExtractSuggestions(resp *SearchResponse) []string {
	out := []string{}
	if resp == nil {
		return out
	}

	seen := make(map[string]bool)
	for _, entry := range resp.Suggest[SuggestionName] {
		for _, opt := range entry.Options {
			if len(out) == SuggestionSize {
				return out
			}
			if seen[opt.Text] {
				continue
			}
			seen[opt.Text] = true
			out = append(out, opt.Text)
		}
	}
	return out
}
