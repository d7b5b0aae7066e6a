package domain

// Immutable geographic point (latitude, longitude) in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Return the point as "lon,lat" ordering used by routing services.
func (p Point) LonLat() [2]float64 { return [2]float64{p.Lon, p.Lat} }

// Valid reports whether the point lies within WGS-84 bounds.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}
