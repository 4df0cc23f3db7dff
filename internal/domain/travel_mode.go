package domain

import "strings"

type TravelMode string

const (
	TravelModeDrive   TravelMode = "DRIVE"
	TravelModeWalk    TravelMode = "WALK"
	TravelModeBicycle TravelMode = "BICYCLE"
	// Transit has no matrix profile of its own; it is routed as driving.
	TravelModeTransit TravelMode = "TRANSIT"
)

// ParseTravelMode accepts the case-insensitive spellings clients send.
// Empty and unrecognized values resolve to driving.
func ParseTravelMode(s string) TravelMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "walk", "walking", "foot":
		return TravelModeWalk
	case "bicycle", "bicycling", "bike", "cycling":
		return TravelModeBicycle
	case "transit":
		return TravelModeTransit
	default:
		return TravelModeDrive
	}
}

// Driving reports whether the mode is routed over the road network by car.
func (m TravelMode) Driving() bool {
	return m == TravelModeDrive || m == TravelModeTransit || m == ""
}
