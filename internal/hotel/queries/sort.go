package queries

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidLocation is returned for location strings that are not "lat,lon".
var ErrInvalidLocation = errors.New("invalid location")

// GeoPoint is a latitude/longitude pair in degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// ParseLocation parses a "lat,lon" string such as "31.21,121.5".
func ParseLocation(location string) (GeoPoint, error) {
	parts := strings.Split(location, ",")
	if len(parts) != 2 {
		return GeoPoint{}, fmt.Errorf("%w: %q is not lat,lon", ErrInvalidLocation, location)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: latitude %q", ErrInvalidLocation, parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return GeoPoint{}, fmt.Errorf("%w: longitude %q", ErrInvalidLocation, parts[1])
	}

	if lat < -90 || lat > 90 {
		return GeoPoint{}, fmt.Errorf("%w: latitude %v out of range", ErrInvalidLocation, lat)
	}
	if lon < -180 || lon > 180 {
		return GeoPoint{}, fmt.Errorf("%w: longitude %v out of range", ErrInvalidLocation, lon)
	}

	return GeoPoint{Lat: lat, Lon: lon}, nil
}

// Sort is one entry of the request sort list.
type Sort interface {
	Source() map[string]interface{}
}

// GeoDistanceSort orders hits by their distance to Origin.
type GeoDistanceSort struct {
	Field  string
	Origin GeoPoint
	Order  string
	Unit   string
}

func (g GeoDistanceSort) Source() map[string]interface{} {
	return map[string]interface{}{
		"_geo_distance": map[string]interface{}{
			g.Field: map[string]interface{}{"lat": g.Origin.Lat, "lon": g.Origin.Lon},
			"order": g.Order,
			"unit":  g.Unit,
		},
	}
}

// PlanSort returns nil (relevance order) for an empty location, otherwise an
// ascending geo-distance sort in kilometers.
func PlanSort(location string) ([]Sort, error) {
	if strings.TrimSpace(location) == "" {
		return nil, nil
	}

	origin, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	return []Sort{GeoDistanceSort{
		Field:  FieldLocation,
		Origin: origin,
		Order:  "asc",
		Unit:   "km",
	}}, nil
}
