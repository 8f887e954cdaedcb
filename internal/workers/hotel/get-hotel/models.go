package gethotel

import (
	"context"

	"hotel-search/internal/models"
)

type Input struct {
	HotelID int64 `json:"hotelId"`
}

type Output struct {
	Hotel models.HotelDoc `json:"hotel"`
}

// HotelReader is satisfied by *hotel.Repository.
type HotelReader interface {
	GetByID(ctx context.Context, id int64) (*models.Hotel, error)
}
