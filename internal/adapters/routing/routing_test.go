package routing

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dest    = domain.Coordinates{Lat: 32.0853, Lng: 34.7818}
	sources = []domain.Coordinates{
		{Lat: 32.0684, Lng: 34.8248},
		{Lat: 32.0158, Lng: 34.7874},
	}
)

func TestOSRMDurationsTo(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"code":"Ok","durations":[[600.5],[null]],"distances":[[5000],[null]]}`)
	}))
	defer srv.Close()

	m := NewOSRMMatrix(srv.URL, srv.Client())

	cells, err := m.DurationsTo(context.Background(), dest, sources, domain.TravelModeBicycle)
	require.NoError(t, err)
	require.Len(t, cells, 2)

	require.NotNil(t, cells[0].DurationSeconds)
	assert.Equal(t, 600.5, *cells[0].DurationSeconds)
	assert.Equal(t, 5000.0, *cells[0].DistanceMeters)
	assert.Nil(t, cells[1].DurationSeconds)
	assert.Nil(t, cells[1].DistanceMeters)

	assert.Equal(t, "/table/v1/bicycle/34.781800,32.085300;34.824800,32.068400;34.787400,32.015800", gotPath)
	assert.Contains(t, gotQuery, "sources=1;2")
	assert.Contains(t, gotQuery, "destinations=0")
}

func TestOSRMRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewOSRMMatrix(srv.URL, srv.Client()).DurationsTo(context.Background(), dest, sources, domain.TravelModeDrive)
	require.ErrorIs(t, err, ports.ErrRateLimited)
	assert.NotErrorIs(t, err, ports.ErrUpstream)
}

func TestOSRMUpstreamErrors(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		},
		"bad code": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"code":"InvalidQuery","message":"nope"}`)
		},
		"short table": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"code":"Ok","durations":[[1]]}`)
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `<html>`)
		},
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			_, err := NewOSRMMatrix(srv.URL, srv.Client()).DurationsTo(context.Background(), dest, sources, domain.TravelModeDrive)
			require.ErrorIs(t, err, ports.ErrUpstream)
		})
	}
}

func TestORSDurationsTo(t *testing.T) {
	var (
		gotPath string
		gotAuth string
		gotReq  matrixRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_, _ = io.WriteString(w, `{"durations":[[300],[420]],"distances":[[2500],[3100]]}`)
	}))
	defer srv.Close()

	m, err := NewORSMatrix("secret", srv.URL, srv.Client())
	require.NoError(t, err)

	cells, err := m.DurationsTo(context.Background(), dest, sources, domain.TravelModeWalk)
	require.NoError(t, err)
	require.Len(t, cells, 2)
	assert.Equal(t, 420.0, *cells[1].DurationSeconds)
	assert.Equal(t, 3100.0, *cells[1].DistanceMeters)

	assert.Equal(t, "/v2/matrix/foot-walking", gotPath)
	assert.Equal(t, "secret", gotAuth)
	assert.Equal(t, []int{0}, gotReq.Destinations)
	assert.Equal(t, []int{1, 2}, gotReq.Sources)
	require.Len(t, gotReq.Locations, 3)
	assert.Equal(t, []float64{34.7818, 32.0853}, gotReq.Locations[0])
}

func TestORSRequiresKey(t *testing.T) {
	_, err := NewORSMatrix("", "", nil)
	require.Error(t, err)
}

func TestGoogleDurationsTo(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"rows": [
				{"elements": [{"status": "OK", "duration": {"value": 600, "text": "10 mins"}, "distance": {"value": 5000, "text": "5 km"}}]},
				{"elements": [{"status": "ZERO_RESULTS"}]}
			]
		}`)
	}))
	defer srv.Close()

	m, err := NewGoogleMatrix("test-key", srv.URL)
	require.NoError(t, err)

	cells, err := m.DurationsTo(context.Background(), dest, sources, domain.TravelModeDrive)
	require.NoError(t, err)
	require.Len(t, cells, 2)

	require.NotNil(t, cells[0].DurationSeconds)
	assert.Equal(t, 600.0, *cells[0].DurationSeconds)
	assert.Equal(t, 5000.0, *cells[0].DistanceMeters)
	assert.Nil(t, cells[1].DurationSeconds)

	assert.True(t, strings.Contains(gotQuery, "mode=driving"), gotQuery)
}

func TestGoogleOverQueryLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status": "OVER_QUERY_LIMIT", "rows": []}`)
	}))
	defer srv.Close()

	m, err := NewGoogleMatrix("test-key", srv.URL)
	require.NoError(t, err)

	_, err = m.DurationsTo(context.Background(), dest, sources, domain.TravelModeDrive)
	require.ErrorIs(t, err, ports.ErrRateLimited)
}

func TestMockMatrixFailuresThenSuccess(t *testing.T) {
	m := NewMockMatrix()
	m.Set(sources[0], 60, 1000)
	m.Failures = []error{ports.ErrRateLimited}

	_, err := m.DurationsTo(context.Background(), dest, sources, domain.TravelModeDrive)
	require.ErrorIs(t, err, ports.ErrRateLimited)

	cells, err := m.DurationsTo(context.Background(), dest, sources, domain.TravelModeDrive)
	require.NoError(t, err)
	assert.Equal(t, 60.0, *cells[0].DurationSeconds)
	assert.Nil(t, cells[1].DurationSeconds)
	assert.Equal(t, 2, m.Calls())
	assert.Equal(t, []int{2, 2}, m.BatchSizes())
}
