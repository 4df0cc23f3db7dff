package repositories

import (
	"cmp"
	"commute-radius-service/internal/domain"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
)

// readDataset parses a JSON array of {name, lat, lng} records.
func readDataset(path string) ([]domain.Locality, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read localities %q: %w", path, err)
	}

	var data []domain.Locality
	if err := json.Unmarshal(b, &data); err != nil {
		return nil, fmt.Errorf("parse localities %q: %w", path, err)
	}

	return clean(data), nil
}

// clean drops unnamed or out-of-range rows and orders the rest by name.
func clean(in []domain.Locality) []domain.Locality {
	out := make([]domain.Locality, 0, len(in))
	for i, l := range in {
		l.Name = strings.TrimSpace(l.Name)
		if l.Name == "" {
			log.Printf("localities: skipping row #%d: empty name", i+1)
			continue
		}
		if err := l.Coordinates().Validate(); err != nil {
			log.Printf("localities: skipping row #%d name=%q: %v", i+1, l.Name, err)
			continue
		}
		out = append(out, l)
	}

	slices.SortStableFunc(out, func(a, b domain.Locality) int {
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}
