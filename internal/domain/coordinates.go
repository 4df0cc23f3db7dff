package domain

import (
	"errors"
	"fmt"
	"math"
)

// Immutable WGS84 coordinates in degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as [lng, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }

// Validate rejects non-finite and out-of-range coordinates.
func (c Coordinates) Validate() error {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return errors.New("coordinates must be finite")
	}
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("lat %v out of range [-90,90]", c.Lat)
	}
	if c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("lng %v out of range [-180,180]", c.Lng)
	}
	return nil
}

// String renders "lat,lng", the origin/destination form Google expects.
func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Lat, c.Lng)
}
