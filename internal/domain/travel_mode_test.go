package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTravelMode(t *testing.T) {
	tests := []struct {
		in   string
		want TravelMode
	}{
		{"DRIVE", TravelModeDrive},
		{"driving", TravelModeDrive},
		{"", TravelModeDrive},
		{"hovercraft", TravelModeDrive},
		{"WALK", TravelModeWalk},
		{"walking", TravelModeWalk},
		{" Foot ", TravelModeWalk},
		{"BICYCLE", TravelModeBicycle},
		{"bicycling", TravelModeBicycle},
		{"bike", TravelModeBicycle},
		{"Transit", TravelModeTransit},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseTravelMode(tt.in), "ParseTravelMode(%q)", tt.in)
	}
}

func TestTravelModeDriving(t *testing.T) {
	assert.True(t, TravelModeDrive.Driving())
	assert.True(t, TravelModeTransit.Driving())
	assert.False(t, TravelModeWalk.Driving())
	assert.False(t, TravelModeBicycle.Driving())
}

func TestCoordinatesValidate(t *testing.T) {
	assert.NoError(t, Coordinates{Lat: 32.08, Lng: 34.78}.Validate())
	assert.Error(t, Coordinates{Lat: 91, Lng: 0}.Validate())
	assert.Error(t, Coordinates{Lat: 0, Lng: -181}.Validate())
	assert.Error(t, Coordinates{Lat: math.NaN(), Lng: 0}.Validate())
	assert.Error(t, Coordinates{Lat: 0, Lng: math.Inf(1)}.Validate())
}
