// Package geo provides great-circle helpers on a spherical earth model.
package geo

import (
	"math"

	"charging-route-service/internal/domain"
)

// EarthRadiusKm is the mean earth radius used for every great-circle computation.
const EarthRadiusKm = 6371.0

func Radians(deg float64) float64 { return deg * math.Pi / 180 }

// HaversineKm returns the great-circle distance between two points in kilometers.
func HaversineKm(a, b domain.Point) float64 {
	dLat := Radians(b.Lat - a.Lat)
	dLon := Radians(b.Lon - a.Lon)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)

	h := sinLat*sinLat + math.Cos(Radians(a.Lat))*math.Cos(Radians(b.Lat))*sinLon*sinLon

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// CentralAngle converts a surface distance to the angle it subtends at the earth's center.
func CentralAngle(km float64) float64 { return km / EarthRadiusKm }
