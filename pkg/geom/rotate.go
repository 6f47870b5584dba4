package geom

import (
	"math"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// Rotate rotates points counter-clockwise about anchor by the given angle in
// degrees. The points are stacked as rows of an n×2 matrix and multiplied by
// the row-vector rotation matrix [[cos, sin], [-sin, cos]].
func Rotate(points []r2.Point, anchor r2.Point, degrees float64) []r2.Point {
	if len(points) == 0 {
		return nil
	}

	rad := degrees * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)

	p := mat.NewDense(len(points), 2, nil)
	for i, pt := range points {
		p.Set(i, 0, pt.X-anchor.X)
		p.Set(i, 1, pt.Y-anchor.Y)
	}
	rot := mat.NewDense(2, 2, []float64{
		cos, sin,
		-sin, cos,
	})

	var out mat.Dense
	out.Mul(p, rot)

	rotated := make([]r2.Point, len(points))
	for i := range rotated {
		rotated[i] = r2.Point{X: out.At(i, 0) + anchor.X, Y: out.At(i, 1) + anchor.Y}
	}
	return rotated
}
