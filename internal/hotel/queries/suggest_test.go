package queries

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggestBody(t *testing.T) {
	assert.JSONEq(t, `{
		"suggest": {
			"suggestions": {
				"prefix": "di",
				"completion": {
					"field": "suggestion",
					"skip_duplicates": true,
					"size": 10
				}
			}
		}
	}`, renderJSON(t, SuggestBody("di")))
}

func TestSuggestBody_EmptyPrefix(t *testing.T) {
	body := SuggestBody("")
	s := body["suggest"].(map[string]interface{})[SuggestionName].(map[string]interface{})
	assert.Equal(t, "", s["prefix"])
}

func TestExtractSuggestions(t *testing.T) {
	resp := decodeResponse(t, `{
		"suggest": {
			"suggestions": [{
				"text": "di",
				"offset": 0,
				"length": 2,
				"options": [
					{"text": "Dickson Hotel", "_score": 3.0},
					{"text": "Diamond Inn", "_score": 2.0},
					{"text": "Disney Resort", "_score": 1.0}
				]
			}]
		}
	}`)

	assert.Equal(t, []string{"Dickson Hotel", "Diamond Inn", "Disney Resort"}, ExtractSuggestions(resp))
}

func TestExtractSuggestions_DedupesAndCaps(t *testing.T) {
	options := make([]string, 0, 14)
	options = append(options, `{"text": "dup"}`, `{"text": "dup"}`)
	for i := 0; i < 12; i++ {
		options = append(options, fmt.Sprintf(`{"text": "s%d"}`, i))
	}
	resp := decodeResponse(t, `{"suggest": {"suggestions": [{"options": [`+strings.Join(options, ",")+`]}]}}`)

	got := ExtractSuggestions(resp)

	assert.Len(t, got, SuggestionSize)
	assert.Equal(t, "dup", got[0])
	assert.Equal(t, "s0", got[1])
	seen := map[string]bool{}
	for _, s := range got {
		assert.False(t, seen[s], "duplicate suggestion %q", s)
		seen[s] = true
	}
}

func TestExtractSuggestions_Empty(t *testing.T) {
	assert.Equal(t, []string{}, ExtractSuggestions(nil))
	assert.Equal(t, []string{}, ExtractSuggestions(decodeResponse(t, `{"suggest": {"suggestions": [{"options": []}]}}`)))
}
