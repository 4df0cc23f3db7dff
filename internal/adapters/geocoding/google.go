package geocoding

import (
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/platform/obs"
	"commute-radius-service/internal/ports"
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// GoogleGeocoder resolves addresses through the Google Geocoding API,
// biased to Israel.
type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder builds a client; baseURL is only set in tests.
func NewGoogleGeocoder(apiKey, baseURL string) (*GoogleGeocoder, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("maps.NewClient: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, query string) (_ ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "google.Geocode")(&err)

	norm := normalize(query)
	if norm == "" {
		return ports.GeocodeResult{}, fmt.Errorf("%w: empty query", ports.ErrNoGeocodeMatch)
	}

	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{
		Address: norm,
		Region:  "il",
	})
	if err != nil {
		if strings.Contains(err.Error(), "ZERO_RESULTS") {
			return ports.GeocodeResult{}, fmt.Errorf("%w: %q", ports.ErrNoGeocodeMatch, query)
		}
		return ports.GeocodeResult{}, fmt.Errorf("google geocode: %w", err)
	}
	if len(results) == 0 {
		return ports.GeocodeResult{}, fmt.Errorf("%w: %q", ports.ErrNoGeocodeMatch, query)
	}

	loc := results[0].Geometry.Location
	return ports.GeocodeResult{
		Coordinates: domain.Coordinates{Lat: loc.Lat, Lng: loc.Lng},
		Label:       results[0].FormattedAddress,
	}, nil
}
