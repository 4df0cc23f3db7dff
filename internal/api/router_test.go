package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"commute-radius-service/internal/adapters/routing"
	"commute-radius-service/internal/api/dto"
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/ports"
	"commute-radius-service/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var localities = []domain.Locality{
	{Name: "Holon", Lat: 32.0158, Lng: 34.7874},
	{Name: "Ramat Gan", Lat: 32.0684, Lng: 34.8248},
}

type fakeGeocoder struct {
	result ports.GeocodeResult
	err    error
}

func (f fakeGeocoder) Geocode(context.Context, string) (ports.GeocodeResult, error) {
	return f.result, f.err
}

func newTestRouter(t *testing.T, m *routing.MockMatrix, geocoder ports.Geocoder) http.Handler {
	t.Helper()

	client := services.NewRoutingBatchClient(m, services.RoutingConfig{})
	svc := services.NewCommuteQueryService(localities, client, services.DefaultTrafficModel(), services.CommuteConfig{
		Candidates: services.CandidateConfig{Ceiling: 150, RadiusKm: 120},
	})

	return NewRouter(Deps{
		Commute:    svc,
		Geocoder:   geocoder,
		Localities: localities,
		Provider:   client.Provider(),
	})
}

func do(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Origin", "https://example.org")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCommuteEndpoint(t *testing.T) {
	m := routing.NewMockMatrix()
	m.Set(localities[1].Coordinates(), 1200, 12000)

	rec := do(newTestRouter(t, m, nil), http.MethodPost, "/api/commute",
		`{"destination":{"lat":32.0853,"lng":34.7818},"maxMinutes":30,"travelMode":"driving"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res dto.CommuteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res.Results, 1)
	assert.Equal(t, dto.CommuteResultResponse{
		Name:         "Ramat Gan",
		Lat:          32.0684,
		Lng:          34.8248,
		Minutes:      29,
		Km:           12,
		DurationText: "29 min",
		DistanceText: "12.0 km",
	}, res.Results[0])
	assert.Empty(t, res.Warning)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, []domain.TravelMode{domain.TravelModeDrive}, m.Modes())
}

func TestCommuteEndpointDegraded(t *testing.T) {
	m := routing.NewMockMatrix()
	m.FailAll = ports.ErrUpstream

	rec := do(newTestRouter(t, m, nil), http.MethodPost, "/api/commute",
		`{"destination":{"lat":32.0853,"lng":34.7818},"maxMinutes":30}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.CommuteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, services.DegradedWarning, res.Warning)
	assert.Len(t, res.Results, 2)
}

func TestCommuteEndpointBadRequests(t *testing.T) {
	h := newTestRouter(t, routing.NewMockMatrix(), nil)

	cases := map[string]string{
		"malformed json":      `{"destination":`,
		"unknown field":       `{"destination":{"lat":32.1,"lng":34.8},"maxMinutes":30,"extra":1}`,
		"missing destination": `{"maxMinutes":30}`,
		"missing lng":         `{"destination":{"lat":32.1},"maxMinutes":30}`,
		"missing maxMinutes":  `{"destination":{"lat":32.1,"lng":34.8}}`,
		"negative maxMinutes": `{"destination":{"lat":32.1,"lng":34.8},"maxMinutes":-1}`,
		"zero lat":            `{"destination":{"lat":0,"lng":34.8},"maxMinutes":30}`,
		"two objects":         `{"destination":{"lat":32.1,"lng":34.8},"maxMinutes":30}{}`,
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/api/commute", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var res map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.NotEmpty(t, res["error"])
		})
	}
}

func TestCommuteEndpointMethodNotAllowed(t *testing.T) {
	rec := do(newTestRouter(t, routing.NewMockMatrix(), nil), http.MethodGet, "/api/commute", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestGeocodeEndpoint(t *testing.T) {
	geo := fakeGeocoder{result: ports.GeocodeResult{
		Coordinates: domain.Coordinates{Lat: 32.794, Lng: 34.9896},
		Label:       "Haifa, Israel",
	}}
	h := newTestRouter(t, routing.NewMockMatrix(), geo)

	rec := do(h, http.MethodGet, "/api/geocode?q=haifa", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.GeocodeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, dto.GeocodeResponse{Lat: 32.794, Lng: 34.9896, Label: "Haifa, Israel"}, res)

	rec = do(h, http.MethodGet, "/api/geocode?q=%20", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGeocodeEndpointErrors(t *testing.T) {
	rec := do(newTestRouter(t, routing.NewMockMatrix(), nil), http.MethodGet, "/api/geocode?q=haifa", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = do(newTestRouter(t, routing.NewMockMatrix(), fakeGeocoder{err: ports.ErrNoGeocodeMatch}),
		http.MethodGet, "/api/geocode?q=atlantis", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLocalitiesEndpoint(t *testing.T) {
	rec := do(newTestRouter(t, routing.NewMockMatrix(), nil), http.MethodGet, "/api/localities", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.ListLocalityResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 2, res.Count)
	assert.Equal(t, "Holon", res.Localities[0].Name)
}

func TestHealthEndpoint(t *testing.T) {
	rec := do(newTestRouter(t, routing.NewMockMatrix(), nil), http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res dto.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, dto.HealthResponse{Status: "ok", Localities: 2, Provider: "mock"}, res)
}

func TestRequestIDIsPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")

	rec := httptest.NewRecorder()
	newTestRouter(t, routing.NewMockMatrix(), nil).ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}
