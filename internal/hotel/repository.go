package hotel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hotel-search/internal/models"
)

const selectHotelByID = `
	SELECT id, name, address, price, score, brand, city, star_name,
	       business, latitude, longitude, pic
	FROM tb_hotel
	WHERE id = $1`

// Repository reads hotel rows from the relational store the index is built from.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetByID loads one hotel. A missing row is ErrHotelNotFound, any other
// failure ErrStoreUnavailable.
func (r *Repository) GetByID(ctx context.Context, id int64) (*models.Hotel, error) {
	var (
		h                                        models.Hotel
		address, brand, city, starName, business sql.NullString
		latitude, longitude, pic                 sql.NullString
	)

	err := r.db.QueryRowContext(ctx, selectHotelByID, id).Scan(
		&h.ID, &h.Name, &address, &h.Price, &h.Score,
		&brand, &city, &starName, &business,
		&latitude, &longitude, &pic,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrHotelNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	h.Address = address.String
	h.Brand = brand.String
	h.City = city.String
	h.StarName = starName.String
	h.Business = business.String
	h.Latitude = latitude.String
	h.Longitude = longitude.String
	h.Pic = pic.String
	return &h, nil
}
