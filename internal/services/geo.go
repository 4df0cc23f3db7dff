package services

import (
	"commute-radius-service/internal/domain"
	"math"
)

// EarthRadiusKm is the mean Earth radius used by the Haversine formula.
const EarthRadiusKm = 6371.0

// DistanceKm returns the great-circle distance between two points in kilometers.
// Callers must pass finite coordinates.
func DistanceKm(a, b domain.Coordinates) float64 {
	dLat := degToRad(b.Lat - a.Lat)
	dLng := degToRad(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)

	h := sinLat*sinLat +
		math.Cos(degToRad(a.Lat))*math.Cos(degToRad(b.Lat))*sinLng*sinLng

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
