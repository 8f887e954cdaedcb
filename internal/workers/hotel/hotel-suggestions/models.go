package hotelsuggestions

import "context"

type Input struct {
	Prefix string `json:"prefix"`
}

type Output struct {
	Suggestions []string `json:"suggestions"`
}

type Suggester interface {
	Suggest(ctx context.Context, prefix string) ([]string, error)
}
