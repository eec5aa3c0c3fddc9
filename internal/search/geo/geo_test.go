package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	harvard  = LatLng{Lat: 42.3744, Lng: -71.1169}
	mit      = LatLng{Lat: 42.3601, Lng: -71.0942}
	stanford = LatLng{Lat: 37.4275, Lng: -122.1697}
)

func TestDistance(t *testing.T) {
	t.Run("ZeroForSamePoint", func(t *testing.T) {
		assert.Equal(t, 0.0, Distance(harvard, harvard))
	})

	t.Run("Symmetric", func(t *testing.T) {
		assert.InDelta(t, Distance(harvard, stanford), Distance(stanford, harvard), 1e-9)
		assert.InDelta(t, Distance(harvard, mit), Distance(mit, harvard), 1e-9)
	})

	t.Run("KnownDistances", func(t *testing.T) {
		assert.InDelta(t, 1.5, Distance(harvard, mit), 0.2)
		assert.InDelta(t, 2700, Distance(harvard, stanford), 50)
	})

	t.Run("AntipodalIsHalfCircumference", func(t *testing.T) {
		half := math.Pi * EarthRadiusMiles
		for _, p := range []LatLng{harvard, stanford, {Lat: 0, Lng: 0}, {Lat: 89.9, Lng: 10}} {
			opposite := LatLng{Lat: -p.Lat, Lng: p.Lng - 180}
			d := Distance(p, opposite)
			assert.False(t, math.IsNaN(d), "distance from %v", p)
			assert.InDelta(t, half, d, 1e-3)
		}
	})
}

func TestFormatDistance(t *testing.T) {
	cases := map[float64]string{
		0:      "< 0.1 mi",
		0.05:   "< 0.1 mi",
		0.1:    "0.1 mi",
		0.5:    "0.5 mi",
		0.94:   "0.9 mi",
		1:      "1 mi",
		5.6:    "6 mi",
		12.49:  "12 mi",
		2701.5: "2702 mi",
	}
	for miles, want := range cases {
		assert.Equal(t, want, FormatDistance(miles), "miles=%v", miles)
	}
}

func TestBoundsAround(t *testing.T) {
	b := BoundsAround(harvard, 69)

	assert.InDelta(t, harvard.Lat+1, b.North, 1e-9)
	assert.InDelta(t, harvard.Lat-1, b.South, 1e-9)
	// Longitude degrees shrink away from the equator, so the box is wider.
	assert.Greater(t, b.East-harvard.Lng, 1.0)
	assert.InDelta(t, b.East-harvard.Lng, harvard.Lng-b.West, 1e-9)
}

func TestInBounds(t *testing.T) {
	b := Bounds{North: 1, South: -1, East: 1, West: -1}

	assert.True(t, InBounds(LatLng{}, b))
	assert.True(t, InBounds(LatLng{Lat: 1, Lng: -1}, b), "edges are inclusive")
	assert.False(t, InBounds(LatLng{Lat: 1.0001, Lng: 0}, b))
	assert.False(t, InBounds(LatLng{Lat: 0, Lng: -1.0001}, b))
	assert.True(t, InBounds(mit, BoundsAround(harvard, 5)))
	assert.False(t, InBounds(stanford, BoundsAround(harvard, 100)))
}
