package services

import (
	"cmp"
	"commute-radius-service/internal/domain"
	"slices"
)

const (
	DefaultCandidateCeiling  = 150
	DefaultCandidateRadiusKm = 120.0
)

// CandidateConfig bounds the candidate set handed to the routing stage.
// RadiusKm <= 0 disables the radius filter.
type CandidateConfig struct {
	Ceiling  int
	RadiusKm float64
}

// SelectCandidates returns the k nearest localities to destination, optionally
// restricted to a radius, ordered by air distance (ties by name).
//
// k-nearest is the primary policy: it bounds the routing batch count no matter
// how dense the locality table is. The radius keeps sparse-area queries from
// proposing candidates that are absurdly far away.
func SelectCandidates(
	destination domain.Coordinates,
	localities []domain.Locality,
	cfg CandidateConfig,
) []domain.Candidate {
	if len(localities) == 0 {
		return []domain.Candidate{}
	}

	ceiling := cfg.Ceiling
	if ceiling <= 0 {
		ceiling = DefaultCandidateCeiling
	}

	out := make([]domain.Candidate, 0, len(localities))
	for _, loc := range localities {
		d := DistanceKm(destination, loc.Coordinates())
		if cfg.RadiusKm > 0 && d > cfg.RadiusKm {
			continue
		}
		out = append(out, domain.Candidate{Locality: loc, AirDistanceKm: d})
	}

	slices.SortFunc(out, func(a, b domain.Candidate) int {
		if c := cmp.Compare(a.AirDistanceKm, b.AirDistanceKm); c != 0 {
			return c
		}
		return cmp.Compare(a.Locality.Name, b.Locality.Name)
	})

	if len(out) > ceiling {
		out = out[:ceiling]
	}

	return out
}
