// Package geo holds the great-circle and bounding-box math used to rank
// listings by proximity to a campus. Everything here is pure and deterministic.
package geo

import (
	"fmt"
	"math"
)

// EarthRadiusMiles is the mean Earth radius used by Distance.
const EarthRadiusMiles = 3958.8

// milesPerDegreeLat approximates the length of one degree of latitude.
const milesPerDegreeLat = 69.0

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Distance returns the haversine distance between a and b in miles.
func Distance(a, b LatLng) float64 {
	dLat := toRadians(b.Lat - a.Lat)
	dLng := toRadians(b.Lng - a.Lng)

	sinLat := math.Sin(dLat / 2)
	sinLng := math.Sin(dLng / 2)
	h := sinLat*sinLat + math.Cos(toRadians(a.Lat))*math.Cos(toRadians(b.Lat))*sinLng*sinLng
	// Rounding can push h just past 1 for near-antipodal points.
	h = math.Min(1, math.Max(0, h))

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMiles * c
}

// FormatDistance renders a distance for display: "< 0.1 mi", "0.5 mi", "6 mi".
func FormatDistance(miles float64) string {
	switch {
	case miles < 0.1:
		return "< 0.1 mi"
	case miles < 1:
		return fmt.Sprintf("%.1f mi", miles)
	default:
		return fmt.Sprintf("%d mi", int64(math.Round(miles)))
	}
}

// BoundsAround builds a box of roughly radiusMiles around center using a
// flat-earth degree approximation. Good enough for campus-scale radii.
func BoundsAround(center LatLng, radiusMiles float64) Bounds {
	latChange := radiusMiles / milesPerDegreeLat
	lngChange := radiusMiles / (milesPerDegreeLat * math.Cos(toRadians(center.Lat)))

	return Bounds{
		North: center.Lat + latChange,
		South: center.Lat - latChange,
		East:  center.Lng + lngChange,
		West:  center.Lng - lngChange,
	}
}

// InBounds reports whether p lies inside b, edges included.
func InBounds(p LatLng, b Bounds) bool {
	return p.Lat >= b.South &&
		p.Lat <= b.North &&
		p.Lng >= b.West &&
		p.Lng <= b.East
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
