package geocoding

import (
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/platform/obs"
	"commute-radius-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultORSBaseURL = "https://api.openrouteservice.org"
	defaultTimeout    = 10 * time.Second
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
		Properties struct {
			Label string `json:"label"`
		} `json:"properties"`
	} `json:"features"`
}

// ORSGeocoder resolves addresses through OpenRouteService (/geocode/search),
// restricted to Israel.
type ORSGeocoder struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewORSGeocoder(apiKey, baseURL string, session *http.Client) (*ORSGeocoder, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultORSBaseURL
	}
	if session == nil {
		session = &http.Client{Timeout: defaultTimeout}
	}
	return &ORSGeocoder{session: session, apiKey: apiKey, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (o *ORSGeocoder) Geocode(ctx context.Context, query string) (_ ports.GeocodeResult, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(query)
	if norm == "" {
		return ports.GeocodeResult{}, fmt.Errorf("%w: empty query", ports.ErrNoGeocodeMatch)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/geocode/search", nil)
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", o.apiKey)
	req.Header.Set("Accept", "application/json")

	q := req.URL.Query()
	q.Set("text", norm)
	q.Set("boundary.country", "IL")
	q.Set("size", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := o.session.Do(req)
	if err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return ports.GeocodeResult{}, fmt.Errorf("unexpected status: %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.GeocodeResult{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return ports.GeocodeResult{}, fmt.Errorf("%w: %q", ports.ErrNoGeocodeMatch, query)
	}

	f := decoded.Features[0]
	if len(f.Geometry.Coordinates) != 2 {
		return ports.GeocodeResult{}, fmt.Errorf("invalid coordinate format for %q", query)
	}

	return ports.GeocodeResult{
		Coordinates: domain.Coordinates{Lat: f.Geometry.Coordinates[1], Lng: f.Geometry.Coordinates[0]},
		Label:       f.Properties.Label,
	}, nil
}

// normalize collapses whitespace so equivalent queries look the same upstream.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
