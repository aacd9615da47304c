// Package geo holds great-circle math shared by the store and the renderer.
package geo

import (
	"fmt"
	"math"

	"near2door-tracker/internal/domain"
)

// EarthRadiusKm is the mean Earth radius used by DistanceKm.
const EarthRadiusKm = 6371.0

// DistanceKm returns the Haversine distance between a and b in kilometres.
// NaN inputs propagate; callers validate coordinates upstream.
func DistanceKm(a, b domain.Coordinate) float64 {
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	sLat := math.Sin(dLat / 2)
	sLng := math.Sin(dLng / 2)
	h := sLat*sLat + math.Cos(radians(a.Lat))*math.Cos(radians(b.Lat))*sLng*sLng

	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// RoundKm rounds a distance to two decimals for display.
func RoundKm(d float64) float64 {
	return math.Round(d*100) / 100
}

// FormatKm renders the route label shown next to the connecting line.
func FormatKm(d float64) string {
	return fmt.Sprintf("Distance: %.2f km", d)
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
