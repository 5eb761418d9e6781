package domain

import (
	"math"
	"strconv"
)

// Immutable geographic coordinates (longitude, latitude).
type Coordinates struct {
	Lon float64
	Lat float64
}

// Return coordinates as [lon, lat] for external API compatibility.
func (c Coordinates) CoordsToList() []float64 { return []float64{c.Lon, c.Lat} }

// LatLng formats the coordinates as "lat,lng", the order used by Google web services.
func (c Coordinates) LatLng() string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + "," + strconv.FormatFloat(c.Lon, 'f', 6, 64)
}

// Valid reports whether the coordinates are finite, in range and not the (0,0) placeholder
// upstream systems emit when GPS is missing.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lon) || math.IsInf(c.Lat, 0) || math.IsInf(c.Lon, 0) {
		return false
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lon < -180 || c.Lon > 180 {
		return false
	}
	return c.Lat != 0 || c.Lon != 0
}

// DefaultMapCenter is where the map opens when no journey is selected (Dubai).
var DefaultMapCenter = Coordinates{Lon: 55.2708, Lat: 25.2048}
