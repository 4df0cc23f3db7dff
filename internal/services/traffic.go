package services

import (
	"commute-radius-service/internal/domain"
	"errors"
	"fmt"
	"math"
)

// TrafficZone is a rectangular lat/lng box with a congestion multiplier.
type TrafficZone struct {
	Name       string  `yaml:"name"`
	MinLat     float64 `yaml:"min_lat"`
	MaxLat     float64 `yaml:"max_lat"`
	MinLng     float64 `yaml:"min_lng"`
	MaxLng     float64 `yaml:"max_lng"`
	Multiplier float64 `yaml:"multiplier"`
}

func (z TrafficZone) Contains(c domain.Coordinates) bool {
	return c.Lat >= z.MinLat && c.Lat <= z.MaxLat && c.Lng >= z.MinLng && c.Lng <= z.MaxLng
}

// TrafficModel approximates congestion on top of a routing engine's free-flow
// durations. It is a tunable heuristic, not live traffic data.
//
// Zones are checked in order and the first match supplies the base multiplier.
// Dense zones (base >= DenseThreshold) get a penalty on short trips, where
// signals dominate, and a discount on long, highway-heavy trips.
type TrafficModel struct {
	Zones             []TrafficZone `yaml:"zones"`
	DefaultMultiplier float64       `yaml:"default_multiplier"`
	DenseThreshold    float64       `yaml:"dense_threshold"`
	ShortTripKm       float64       `yaml:"short_trip_km"`
	ShortTripPenalty  float64       `yaml:"short_trip_penalty"`
	LongTripKm        float64       `yaml:"long_trip_km"`
	LongTripDiscount  float64       `yaml:"long_trip_discount"`
}

// DefaultTrafficModel returns the zone table tuned for Israel.
func DefaultTrafficModel() TrafficModel {
	return TrafficModel{
		Zones: []TrafficZone{
			{Name: "gush-dan", MinLat: 31.95, MaxLat: 32.20, MinLng: 34.70, MaxLng: 34.95, Multiplier: 1.45},
			{Name: "jerusalem", MinLat: 31.70, MaxLat: 31.85, MinLng: 35.10, MaxLng: 35.30, Multiplier: 1.40},
			{Name: "haifa", MinLat: 32.70, MaxLat: 32.90, MinLng: 34.95, MaxLng: 35.15, Multiplier: 1.30},
			{Name: "north-coast", MinLat: 32.40, MaxLat: 33.40, MinLng: 34.80, MaxLng: 35.90, Multiplier: 1.15},
			{Name: "south-negev", MinLat: 29.40, MaxLat: 31.40, MinLng: 34.20, MaxLng: 35.50, Multiplier: 1.10},
		},
		DefaultMultiplier: 1.20,
		DenseThreshold:    1.30,
		ShortTripKm:       5,
		ShortTripPenalty:  0.15,
		LongTripKm:        20,
		LongTripDiscount:  0.05,
	}
}

// BaseMultiplier returns the multiplier of the first zone containing c,
// or the default multiplier with an empty zone name.
func (m TrafficModel) BaseMultiplier(c domain.Coordinates) (float64, string) {
	for _, z := range m.Zones {
		if z.Contains(c) {
			return z.Multiplier, z.Name
		}
	}
	return m.DefaultMultiplier, ""
}

// CorrectionFactor returns the multiplier to apply to a free-flow duration.
// It is exactly 1 for walking and cycling and never below 1 otherwise.
// tripDistanceKm <= 0 means unknown and skips the distance refinement.
func (m TrafficModel) CorrectionFactor(c domain.Coordinates, mode domain.TravelMode, tripDistanceKm float64) float64 {
	if !mode.Driving() {
		return 1.0
	}

	factor, _ := m.BaseMultiplier(c)

	if factor >= m.DenseThreshold && tripDistanceKm > 0 {
		switch {
		case tripDistanceKm < m.ShortTripKm:
			factor += m.ShortTripPenalty
		case tripDistanceKm > m.LongTripKm:
			factor -= m.LongTripDiscount
		}
	}

	return math.Max(factor, 1.0)
}

// Validate rejects zone tables that could produce a factor below 1 or never match.
func (m TrafficModel) Validate() error {
	if m.DefaultMultiplier < 1 {
		return fmt.Errorf("traffic model: default multiplier %v must be >= 1", m.DefaultMultiplier)
	}
	if m.ShortTripPenalty < 0 || m.LongTripDiscount < 0 {
		return errors.New("traffic model: trip penalty and discount must be >= 0")
	}
	for i, z := range m.Zones {
		if z.Multiplier < 1 {
			return fmt.Errorf("traffic model: zone #%d %q multiplier %v must be >= 1", i+1, z.Name, z.Multiplier)
		}
		if z.MinLat > z.MaxLat || z.MinLng > z.MaxLng {
			return fmt.Errorf("traffic model: zone #%d %q has an empty bounding box", i+1, z.Name)
		}
	}
	return nil
}
