package ports

import (
	"commute-radius-service/internal/domain"
	"context"
)

// Port: a boundary for reading the locality reference table.
type LocalityRepository interface {
	// Retrieve all localities, ordered by name.
	ListLocalities(ctx context.Context) ([]domain.Locality, error)
}
