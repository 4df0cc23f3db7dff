package repositories

import (
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/platform/obs"
	"context"
	"errors"
)

// JSONLocalityRepository reads the bundled locality dataset from disk.
type JSONLocalityRepository struct {
	Path string
}

func NewJSONLocalityRepository(path string) *JSONLocalityRepository {
	return &JSONLocalityRepository{Path: path}
}

func (r *JSONLocalityRepository) ListLocalities(ctx context.Context) (_ []domain.Locality, err error) {
	defer obs.Time(ctx, "localities.json.List")(&err)

	if r.Path == "" {
		return nil, errors.New("json locality repository: path is empty")
	}
	return readDataset(r.Path)
}
