package dto

// Pointer fields let handlers tell a missing value from a zero one.
type CoordinatesRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type CommuteRequest struct {
	Destination *CoordinatesRequest `json:"destination"`
	MaxMinutes  *float64            `json:"maxMinutes"`
	TravelMode  string              `json:"travelMode"`
}

type CommuteResultResponse struct {
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	Minutes      int     `json:"minutes"`
	Km           float64 `json:"km"`
	DurationText string  `json:"durationText"`
	DistanceText string  `json:"distanceText"`
}

type CommuteResponse struct {
	Results []CommuteResultResponse `json:"results"`
	Warning string                  `json:"warning,omitempty"`
	Message string                  `json:"message,omitempty"`
}
