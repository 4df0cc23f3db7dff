package ports

import (
	"commute-radius-service/internal/domain"
	"context"
	"errors"
)

var (
	// ErrRateLimited marks a response that asked the caller to slow down.
	ErrRateLimited = errors.New("routing service rate limited")
	// ErrUpstream marks an error status, transport failure or malformed payload.
	ErrUpstream = errors.New("routing service error")
)

// One matrix cell: travel from a source to the destination.
// Nil fields mean the service reported no value (unroutable pair).
type MatrixCell struct {
	DurationSeconds *float64
	DistanceMeters  *float64
}

// Contract for a many-to-one travel-time matrix service.
type TravelTimeMatrix interface {
	// Return one cell per source, index-aligned with sources.
	// Errors wrap ErrRateLimited or ErrUpstream.
	DurationsTo(
		ctx context.Context,
		destination domain.Coordinates,
		sources []domain.Coordinates,
		mode domain.TravelMode,
	) ([]MatrixCell, error)

	// Name identifies the provider in logs and health output.
	Name() string
}
