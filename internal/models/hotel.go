// internal/models/hotel.go
package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// MaxPage is the largest page number accepted from job variables.
const MaxPage = 1000000

// ErrPageOutOfRange is returned when page*size does not fit an int offset.
var ErrPageOutOfRange = errors.New("page out of range")

// Hotel is a row of the hotel table.
type Hotel struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Address   string `json:"address"`
	Price     int    `json:"price"`
	Score     int    `json:"score"`
	Brand     string `json:"brand"`
	City      string `json:"city"`
	StarName  string `json:"starName"`
	Business  string `json:"business"`
	Latitude  string `json:"latitude"`
	Longitude string `json:"longitude"`
	Pic       string `json:"pic"`
}

// HotelDoc is the indexed projection of a hotel. Distance is only set when the
// search was sorted by geo distance and carries the raw sort value (km).
type HotelDoc struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Price      int      `json:"price"`
	Score      int      `json:"score"`
	Brand      string   `json:"brand"`
	City       string   `json:"city"`
	StarName   string   `json:"starName"`
	Business   string   `json:"business"`
	Location   string   `json:"location"`
	Pic        string   `json:"pic"`
	IsAD       bool     `json:"isAD"`
	Suggestion []string `json:"suggestion,omitempty"`
	Distance   *float64 `json:"distance,omitempty"`
}

// NewHotelDoc projects a stored hotel into its index document shape.
func NewHotelDoc(h Hotel) HotelDoc {
	doc := HotelDoc{
		ID:       h.ID,
		Name:     h.Name,
		Address:  h.Address,
		Price:    h.Price,
		Score:    h.Score,
		Brand:    h.Brand,
		City:     h.City,
		StarName: h.StarName,
		Business: h.Business,
		Pic:      h.Pic,
	}
	if h.Latitude != "" && h.Longitude != "" {
		doc.Location = fmt.Sprintf("%s, %s", h.Latitude, h.Longitude)
	}

	if h.Brand != "" {
		doc.Suggestion = append(doc.Suggestion, h.Brand)
	}
	for _, area := range strings.FieldsFunc(h.Business, func(r rune) bool {
		return r == '/' || r == '、'
	}) {
		if area = strings.TrimSpace(area); area != "" {
			doc.Suggestion = append(doc.Suggestion, area)
		}
	}

	return doc
}

// SearchParams are the client supplied search, filter and paging parameters.
// MinPrice and MaxPrice only apply when both are set.
type SearchParams struct {
	Key      string `json:"key,omitempty"`
	Page     int    `json:"page"`
	Size     int    `json:"size"`
	City     string `json:"city,omitempty"`
	Brand    string `json:"brand,omitempty"`
	StarName string `json:"starName,omitempty"`
	MinPrice *int   `json:"minPrice,omitempty"`
	MaxPrice *int   `json:"maxPrice,omitempty"`
	Location string `json:"location,omitempty"`
}

// Offset returns the zero based index of the first hit of the requested page.
// Pages below 1 are treated as the first page.
func (p SearchParams) Offset() (int, error) {
	page := p.Page
	if page < 1 {
		page = 1
	}
	size := p.PageSize()
	if size > 0 && page-1 > math.MaxInt/size {
		return 0, fmt.Errorf("%w: page %d with size %d", ErrPageOutOfRange, p.Page, size)
	}
	return (page - 1) * size, nil
}

// PageSize returns the requested window size, never negative.
func (p SearchParams) PageSize() int {
	if p.Size < 0 {
		return 0
	}
	return p.Size
}

// PageResult is one page of ranked hotels. Total counts every match in the
// index, not just the returned page.
type PageResult struct {
	Total  uint64     `json:"total"`
	Hotels []HotelDoc `json:"hotels"`
}

// FacetMap maps a facet field name to the distinct values found in the
// current filter context.
type FacetMap map[string][]string
