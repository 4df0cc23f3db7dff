package domain

// Represents a single commute-radius request.
// Destination is nil when the caller omitted it.
type CommuteQuery struct {
	Destination *Coordinates
	MaxMinutes  float64
	TravelMode  TravelMode
}

// One reachable locality in the final output.
// Minutes is traffic-corrected and rounded; Km carries one decimal.
type CommuteResult struct {
	Locality
	Minutes      int
	Km           float64
	DurationText string
	DistanceText string
}

// CommuteResponse is the outcome of a commute query. Warning is set only
// when results were estimated in degraded mode.
type CommuteResponse struct {
	Results []CommuteResult
	Warning string
	Message string
}
