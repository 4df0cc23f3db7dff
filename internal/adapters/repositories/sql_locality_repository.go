package repositories

import (
	"commute-radius-service/internal/domain"
	"commute-radius-service/internal/platform/obs"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// SQL-backed implementation of the LocalityRepository port.
type SQLLocalityRepository struct{ DB *sql.DB }

func NewSQLLocalityRepository(db *sql.DB) *SQLLocalityRepository {
	return &SQLLocalityRepository{DB: db}
}

// Return all localities stored in the database.
func (s *SQLLocalityRepository) ListLocalities(ctx context.Context) (_ []domain.Locality, err error) {
	defer obs.Time(ctx, "localities.sql.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql locality repository: DB is nil")
	}

	query := `
	SELECT
		name,
		lat,
		lng
	FROM localities
	ORDER BY name;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list localities: query localities table: %w", err)
	}
	defer rows.Close()

	localities := make([]domain.Locality, 0, 256)
	for rows.Next() {
		var l domain.Locality
		if err := rows.Scan(&l.Name, &l.Lat, &l.Lng); err != nil {
			return nil, fmt.Errorf("list localities: scan row: %w", err)
		}
		localities = append(localities, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list localities: row iteration: %w", err)
	}

	return clean(localities), nil
}
