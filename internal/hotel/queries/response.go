package queries

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidDistance is returned for a geo sort value that is not a finite
// number, such as "Infinity" for a hotel without a location.
var ErrInvalidDistance = errors.New("invalid distance sort value")

// SearchResponse is the subset of the _search response this service reads.
type SearchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Total struct {
			Value    uint64 `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		MaxScore *float64 `json:"max_score"`
		Hits     []Hit    `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]TermsAggregation `json:"aggregations"`
	Suggest      map[string][]SuggestEntry   `json:"suggest"`
}

type Hit struct {
	ID     string            `json:"_id"`
	Score  *float64          `json:"_score"`
	Source json.RawMessage   `json:"_source"`
	Sort   []json.RawMessage `json:"sort"`
}

// Distance returns the first sort value as a number. ok is false when the hit
// carries no sort values, i.e. no geo-distance sort was requested.
func (h Hit) Distance() (d float64, ok bool, err error) {
	if len(h.Sort) == 0 {
		return 0, false, nil
	}
	raw := h.Sort[0]
	if err := json.Unmarshal(raw, &d); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return 0, true, fmt.Errorf("%w: %s", ErrInvalidDistance, raw)
		}
		if d, err = strconv.ParseFloat(s, 64); err != nil {
			return 0, true, fmt.Errorf("%w: %s", ErrInvalidDistance, raw)
		}
	}
	if math.IsInf(d, 0) || math.IsNaN(d) {
		return 0, true, fmt.Errorf("%w: %s", ErrInvalidDistance, raw)
	}
	return d, true, nil
}

type TermsAggregation struct {
	Buckets []Bucket `json:"buckets"`
}

type Bucket struct {
	Key         json.RawMessage `json:"key"`
	KeyAsString string          `json:"key_as_string"`
	DocCount    int64           `json:"doc_count"`
}

// KeyString renders the bucket key for display.
func (b Bucket) KeyString() string {
	if b.KeyAsString != "" {
		return b.KeyAsString
	}
	var s string
	if err := json.Unmarshal(b.Key, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(b.Key))
}

type SuggestEntry struct {
	Text    string          `json:"text"`
	Offset  int             `json:"offset"`
	Length  int             `json:"length"`
	Options []SuggestOption `json:"options"`
}

type SuggestOption struct {
	Text  string  `json:"text"`
	Score float64 `json:"_score"`
}
