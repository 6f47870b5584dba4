package wafer

import (
	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/geom"
)

// Notch dimensions in wafer units.
const (
	NotchHeight    = 1.0
	NotchHalfWidth = 2.8284
)

// Notch returns the closed notch outline of a wafer of the given radius.
// At 0° the notch points inward from the +X edge; orientation rotates it
// counter-clockwise about the wafer center.
func Notch(radius, orientation float64) []r2.Point {
	tip := r2.Point{X: radius - NotchHeight, Y: 0}
	outline := []r2.Point{
		tip,
		{X: radius, Y: NotchHalfWidth},
		{X: radius, Y: -NotchHalfWidth},
		tip,
	}
	return geom.Rotate(outline, r2.Point{}, orientation)
}
