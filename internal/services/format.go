package services

import (
	"cmp"
	"commute-radius-service/internal/domain"
	"math"
	"slices"
	"strconv"
)

func roundTenth(x float64) float64 {
	return math.Round(x*10) / 10
}

func formatMinutes(minutes int, approx bool) string {
	s := strconv.Itoa(minutes) + " min"
	if approx {
		return "~" + s
	}
	return s
}

func formatKm(km float64, approx bool) string {
	s := strconv.FormatFloat(km, 'f', 1, 64) + " km"
	if approx {
		return "~" + s
	}
	return s
}

// sortResults orders by minutes, then name, so equal inputs give equal output.
func sortResults(results []domain.CommuteResult) {
	slices.SortFunc(results, func(a, b domain.CommuteResult) int {
		if c := cmp.Compare(a.Minutes, b.Minutes); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
}
