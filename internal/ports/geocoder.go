package ports

import (
	"commute-radius-service/internal/domain"
	"context"
	"errors"
)

// ErrNoGeocodeMatch is returned when a query resolves to nothing.
var ErrNoGeocodeMatch = errors.New("no geocode match")

type GeocodeResult struct {
	Coordinates domain.Coordinates
	Label       string
}

// Resolves free-text addresses to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (GeocodeResult, error)
}
