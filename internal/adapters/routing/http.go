package routing

import (
	"commute-radius-service/internal/ports"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds each outbound matrix call.
const DefaultTimeout = 10 * time.Second

type httpStatusError struct {
	Code int
	Body string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("Code %d: %s", e.Code, e.Body)
}

// Unwrap classifies the status for errors.Is: 429 is rate limiting,
// anything else is an upstream error.
func (e *httpStatusError) Unwrap() error {
	if e.Code == http.StatusTooManyRequests {
		return ports.ErrRateLimited
	}
	return ports.ErrUpstream
}

func newRequest(
	ctx context.Context,
	method string,
	url string,
	body io.Reader,
) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "commute-radius-service/1.0")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// doJSON executes req and decodes a successful body into out.
// Every failure is wrapped so errors.Is matches ErrRateLimited or ErrUpstream.
func doJSON(session *http.Client, req *http.Request, out any) error {
	resp, err := session.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ports.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &httpStatusError{
			Code: resp.StatusCode,
			Body: strings.TrimSpace(string(b)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ports.ErrUpstream, err)
	}

	return nil
}

// columnCells flattens a sources x 1 matrix into one cell per source.
// distances may be nil when the service omits them.
func columnCells(durations, distances [][]*float64, sources int) ([]ports.MatrixCell, error) {
	if len(durations) != sources {
		return nil, fmt.Errorf("%w: expected %d duration rows, got %d", ports.ErrUpstream, sources, len(durations))
	}
	if distances != nil && len(distances) != sources {
		return nil, fmt.Errorf("%w: expected %d distance rows, got %d", ports.ErrUpstream, sources, len(distances))
	}

	cells := make([]ports.MatrixCell, sources)
	for i, row := range durations {
		if len(row) != 1 {
			return nil, fmt.Errorf("%w: duration row %d has %d columns", ports.ErrUpstream, i, len(row))
		}
		cells[i].DurationSeconds = row[0]

		if distances != nil {
			if len(distances[i]) != 1 {
				return nil, fmt.Errorf("%w: distance row %d has %d columns", ports.ErrUpstream, i, len(distances[i]))
			}
			cells[i].DistanceMeters = distances[i][0]
		}
	}

	return cells, nil
}
