package services

import (
	"commute-radius-service/internal/domain"
	"math"
)

// DefaultFallbackKmPerMinute is the assumed average speed in degraded mode (60 km/h).
const DefaultFallbackKmPerMinute = 1.0

// DegradedWarning marks responses computed without the routing service.
const DegradedWarning = "routing service unavailable: travel times are approximate straight-line estimates"

// FallbackEstimator estimates travel time from straight-line distance at a
// fixed average speed. It scans the whole locality table since no external
// size limit applies, and it never fails.
type FallbackEstimator struct {
	KmPerMinute float64
}

func (f FallbackEstimator) Estimate(
	destination domain.Coordinates,
	localities []domain.Locality,
	maxMinutes float64,
) domain.CommuteResponse {
	speed := f.KmPerMinute
	if speed <= 0 || math.IsNaN(speed) || math.IsInf(speed, 0) {
		speed = DefaultFallbackKmPerMinute
	}

	results := make([]domain.CommuteResult, 0)
	for _, loc := range localities {
		km := DistanceKm(destination, loc.Coordinates())
		minutes := int(math.Round(km / speed))
		if float64(minutes) > maxMinutes {
			continue
		}

		roundedKm := roundTenth(km)
		results = append(results, domain.CommuteResult{
			Locality:     loc,
			Minutes:      minutes,
			Km:           roundedKm,
			DurationText: formatMinutes(minutes, true),
			DistanceText: formatKm(roundedKm, true),
		})
	}

	sortResults(results)

	return domain.CommuteResponse{Results: results, Warning: DegradedWarning}
}
