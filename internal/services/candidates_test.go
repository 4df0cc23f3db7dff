package services

import (
	"fmt"
	"testing"

	"commute-radius-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gridAround returns n localities spread north of origin in ~1 km steps.
func gridAround(origin domain.Coordinates, n int) []domain.Locality {
	out := make([]domain.Locality, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, domain.Locality{
			Name: fmt.Sprintf("loc-%03d", i),
			Lat:  origin.Lat + float64(i+1)*0.009,
			Lng:  origin.Lng,
		})
	}
	return out
}

func TestSelectCandidatesCeiling(t *testing.T) {
	got := SelectCandidates(telAviv, gridAround(telAviv, 500), CandidateConfig{Ceiling: 150})
	require.Len(t, got, 150)
	assert.Equal(t, "loc-000", got[0].Locality.Name)
	assert.Equal(t, "loc-149", got[149].Locality.Name)

	got = SelectCandidates(telAviv, gridAround(telAviv, 10), CandidateConfig{Ceiling: 150})
	assert.Len(t, got, 10)
}

func TestSelectCandidatesDefaultCeiling(t *testing.T) {
	got := SelectCandidates(telAviv, gridAround(telAviv, 200), CandidateConfig{})
	assert.Len(t, got, DefaultCandidateCeiling)
}

func TestSelectCandidatesRadius(t *testing.T) {
	got := SelectCandidates(telAviv, gridAround(telAviv, 50), CandidateConfig{Ceiling: 150, RadiusKm: 10.5})
	require.Len(t, got, 10)
	for _, c := range got {
		assert.LessOrEqual(t, c.AirDistanceKm, 10.5)
	}
}

func TestSelectCandidatesEmpty(t *testing.T) {
	got := SelectCandidates(telAviv, nil, CandidateConfig{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSelectCandidatesOrdering(t *testing.T) {
	same := domain.Coordinates{Lat: telAviv.Lat + 0.05, Lng: telAviv.Lng}
	localities := []domain.Locality{
		{Name: "far", Lat: telAviv.Lat + 0.5, Lng: telAviv.Lng},
		{Name: "tie-b", Lat: same.Lat, Lng: same.Lng},
		{Name: "tie-a", Lat: same.Lat, Lng: same.Lng},
		{Name: "near", Lat: telAviv.Lat + 0.01, Lng: telAviv.Lng},
	}

	got := SelectCandidates(telAviv, localities, CandidateConfig{})

	names := make([]string, 0, len(got))
	for _, c := range got {
		names = append(names, c.Locality.Name)
	}
	assert.Equal(t, []string{"near", "tie-a", "tie-b", "far"}, names)
}
