package geom

import (
	"math"

	"github.com/golang/geo/r2"
)

// Polar returns the point at distance rho from the origin, phi radians
// counter-clockwise from +X.
func Polar(rho, phi float64) r2.Point {
	return Pt(rho*math.Cos(phi), rho*math.Sin(phi))
}

// ToPolar is the inverse of Polar. phi is in [-π, π].
func ToPolar(p r2.Point) (rho, phi float64) {
	return Distance(p, r2.Point{}), math.Atan2(p.Y, p.X)
}
