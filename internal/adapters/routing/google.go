package routing

import (
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/platform/obs"
	"commute-radius-service/internal/ports"
	"context"
	"fmt"
	"strings"

	"googlemaps.github.io/maps"
)

// Google caps Distance Matrix requests at 25 origins.
const maxGoogleSources = 25

// GoogleMatrix implements TravelTimeMatrix on the Google Distance Matrix API.
type GoogleMatrix struct {
	client *maps.Client
}

// NewGoogleMatrix builds a client; baseURL is only set in tests.
func NewGoogleMatrix(apiKey, baseURL string) (*GoogleMatrix, error) {
	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}

	client, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("maps.NewClient: %w", err)
	}
	return &GoogleMatrix{client: client}, nil
}

func (g *GoogleMatrix) Name() string { return "google" }

func (g *GoogleMatrix) MaxSources() int { return maxGoogleSources }

func googleMode(mode domain.TravelMode) maps.Mode {
	switch mode {
	case domain.TravelModeWalk:
		return maps.TravelModeWalking
	case domain.TravelModeBicycle:
		return maps.TravelModeBicycling
	default:
		return maps.TravelModeDriving
	}
}

func (g *GoogleMatrix) DurationsTo(
	ctx context.Context,
	destination domain.Coordinates,
	sources []domain.Coordinates,
	mode domain.TravelMode,
) (_ []ports.MatrixCell, err error) {
	defer obs.Time(ctx, "google.DurationsTo")(&err)

	if len(sources) == 0 {
		return []ports.MatrixCell{}, nil
	}

	origins := make([]string, 0, len(sources))
	for _, s := range sources {
		origins = append(origins, s.String())
	}

	resp, err := g.client.DistanceMatrix(ctx, &maps.DistanceMatrixRequest{
		Origins:      origins,
		Destinations: []string{destination.String()},
		Mode:         googleMode(mode),
	})
	if err != nil {
		// The client reports API-level statuses only through the error text.
		if strings.Contains(err.Error(), "OVER_QUERY_LIMIT") {
			return nil, fmt.Errorf("%w: google distance matrix: %w", ports.ErrRateLimited, err)
		}
		return nil, fmt.Errorf("%w: google distance matrix: %w", ports.ErrUpstream, err)
	}

	if len(resp.Rows) != len(sources) {
		return nil, fmt.Errorf("%w: expected %d rows, got %d", ports.ErrUpstream, len(sources), len(resp.Rows))
	}

	cells := make([]ports.MatrixCell, len(sources))
	for i, row := range resp.Rows {
		if len(row.Elements) != 1 {
			return nil, fmt.Errorf("%w: row %d has %d elements", ports.ErrUpstream, i, len(row.Elements))
		}

		el := row.Elements[0]
		if el == nil || el.Status != "OK" {
			continue
		}

		seconds := el.Duration.Seconds()
		meters := float64(el.Distance.Meters)
		cells[i] = ports.MatrixCell{DurationSeconds: &seconds, DistanceMeters: &meters}
	}

	return cells, nil
}
