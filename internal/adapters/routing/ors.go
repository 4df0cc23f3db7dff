package routing

import (
	"bytes"
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/platform/obs"
	"commute-radius-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

const (
	DefaultORSBaseURL = "https://api.openrouteservice.org"

	maxORSSources = 49
)

type matrixRequest struct {
	Locations    [][]float64 `json:"locations"`
	Destinations []int       `json:"destinations"`
	Metrics      []string    `json:"metrics"`
	Sources      []int       `json:"sources"`
}

type matrixResponse struct {
	Distances [][]*float64 `json:"distances"`
	Durations [][]*float64 `json:"durations"`
}

// ORSMatrix implements TravelTimeMatrix on the OpenRouteService matrix endpoint.
type ORSMatrix struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewORSMatrix(apiKey, baseURL string, session *http.Client) (*ORSMatrix, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultORSBaseURL
	}
	if session == nil {
		session = &http.Client{Timeout: DefaultTimeout}
	}

	return &ORSMatrix{
		session: session,
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (o *ORSMatrix) Name() string { return "ors" }

func (o *ORSMatrix) MaxSources() int { return maxORSSources }

func orsProfile(mode domain.TravelMode) string {
	switch mode {
	case domain.TravelModeWalk:
		return "foot-walking"
	case domain.TravelModeBicycle:
		return "cycling-regular"
	default:
		return "driving-car"
	}
}

// DurationsTo posts the destination at location 0 and the sources after it.
func (o *ORSMatrix) DurationsTo(
	ctx context.Context,
	destination domain.Coordinates,
	sources []domain.Coordinates,
	mode domain.TravelMode,
) (_ []ports.MatrixCell, err error) {
	defer obs.Time(ctx, "ors.DurationsTo")(&err)

	if len(sources) == 0 {
		return []ports.MatrixCell{}, nil
	}

	endpoint := fmt.Sprintf("%s/v2/matrix/%s", o.baseURL, orsProfile(mode))

	locations := make([][]float64, 0, 1+len(sources))
	locations = append(locations, destination.CoordsToList())
	srcIdx := make([]int, 0, len(sources))
	for i, s := range sources {
		locations = append(locations, s.CoordsToList())
		srcIdx = append(srcIdx, i+1)
	}

	payload, err := json.Marshal(matrixRequest{
		Locations:    locations,
		Destinations: []int{0},
		Metrics:      []string{"distance", "duration"},
		Sources:      srcIdx,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal matrix request: %w", err)
	}

	req, err := newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrUpstream, err)
	}
	req.Header.Set("Authorization", o.apiKey)

	var mr matrixResponse
	if err := doJSON(o.session, req, &mr); err != nil {
		return nil, fmt.Errorf("ors matrix: %w", err)
	}

	return columnCells(mr.Durations, mr.Distances, len(sources))
}
