package routing

import (
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/platform/obs"
	"commute-radius-service/internal/ports"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const (
	DefaultOSRMBaseURL = "https://router.project-osrm.org"

	// The public OSRM server rejects tables above 100 coordinates;
	// one slot is taken by the destination.
	maxOSRMSources = 99
)

type osrmTableResponse struct {
	Code      string       `json:"code"`
	Message   string       `json:"message"`
	Durations [][]*float64 `json:"durations"`
	Distances [][]*float64 `json:"distances"`
}

// OSRMMatrix implements TravelTimeMatrix on the OSRM /table service.
type OSRMMatrix struct {
	session *http.Client
	baseURL string
}

func NewOSRMMatrix(baseURL string, session *http.Client) *OSRMMatrix {
	if baseURL == "" {
		baseURL = DefaultOSRMBaseURL
	}
	if session == nil {
		session = &http.Client{Timeout: DefaultTimeout}
	}
	return &OSRMMatrix{session: session, baseURL: strings.TrimRight(baseURL, "/")}
}

func (o *OSRMMatrix) Name() string { return "osrm" }

func (o *OSRMMatrix) MaxSources() int { return maxOSRMSources }

func osrmProfile(mode domain.TravelMode) string {
	switch mode {
	case domain.TravelModeWalk:
		return "foot"
	case domain.TravelModeBicycle:
		return "bicycle"
	default:
		return "car"
	}
}

// DurationsTo requests a table with the destination at index 0 and the
// sources at 1..n, so each response row is one source.
func (o *OSRMMatrix) DurationsTo(
	ctx context.Context,
	destination domain.Coordinates,
	sources []domain.Coordinates,
	mode domain.TravelMode,
) (_ []ports.MatrixCell, err error) {
	defer obs.Time(ctx, "osrm.DurationsTo")(&err)

	if len(sources) == 0 {
		return []ports.MatrixCell{}, nil
	}

	coords := make([]string, 0, 1+len(sources))
	coords = append(coords, fmt.Sprintf("%.6f,%.6f", destination.Lng, destination.Lat))
	srcIdx := make([]string, 0, len(sources))
	for i, s := range sources {
		coords = append(coords, fmt.Sprintf("%.6f,%.6f", s.Lng, s.Lat))
		srcIdx = append(srcIdx, strconv.Itoa(i+1))
	}

	queryURL := fmt.Sprintf(
		"%s/table/v1/%s/%s?sources=%s&destinations=0&annotations=duration,distance",
		o.baseURL, osrmProfile(mode), strings.Join(coords, ";"), strings.Join(srcIdx, ";"),
	)

	req, err := newRequest(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrUpstream, err)
	}

	var tr osrmTableResponse
	if err := doJSON(o.session, req, &tr); err != nil {
		return nil, fmt.Errorf("osrm table: %w", err)
	}

	if tr.Code != "Ok" {
		return nil, fmt.Errorf("%w: osrm code %s: %s", ports.ErrUpstream, tr.Code, tr.Message)
	}

	return columnCells(tr.Durations, tr.Distances, len(sources))
}
