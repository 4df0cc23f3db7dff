package domain

// A named place with a fixed coordinate, drawn from the static reference dataset.
// Localities are loaded once at startup and never mutated afterwards.
type Locality struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

func (l Locality) Coordinates() Coordinates {
	return Coordinates{Lat: l.Lat, Lng: l.Lng}
}

// A locality selected for routing evaluation, with its straight-line
// distance to the query destination.
type Candidate struct {
	Locality      Locality
	AirDistanceKm float64
}

// Raw per-candidate output of the routing stage, before traffic correction.
// DistanceMeters is nil when the routing service did not report a distance.
type RouteEstimate struct {
	Candidate       Candidate
	DurationSeconds float64
	DistanceMeters  *float64
}
