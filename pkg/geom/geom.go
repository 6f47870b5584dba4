// Package geom provides the planar helpers shared by the wafer grid and the
// render sinks. Every point in this module is an r2.Point in (X, Y) order;
// AxisOrder is the only place where that order is ever swapped.
package geom

import (
	"fmt"
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Pt is shorthand for r2.Point{X: x, Y: y}.
func Pt(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}

// Rect builds a rectangle from its lower-left and upper-right corners.
// The corners are normalized so Lo <= Hi on both axes.
func Rect(ll, ur r2.Point) r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: math.Min(ll.X, ur.X), Hi: math.Max(ll.X, ur.X)},
		Y: r1.Interval{Lo: math.Min(ll.Y, ur.Y), Hi: math.Max(ll.Y, ur.Y)},
	}
}

// RectCenterSize builds a rectangle of the given size centered on c.
func RectCenterSize(c, size r2.Point) r2.Rect {
	return r2.Rect{
		X: r1.Interval{Lo: c.X - size.X/2, Hi: c.X + size.X/2},
		Y: r1.Interval{Lo: c.Y - size.Y/2, Hi: c.Y + size.Y/2},
	}
}

// Corners returns the lower-left, lower-right, upper-left and upper-right
// corners of r.
func Corners(r r2.Rect) (ll, lr, ul, ur r2.Point) {
	ll = r2.Point{X: r.X.Lo, Y: r.Y.Lo}
	lr = r2.Point{X: r.X.Hi, Y: r.Y.Lo}
	ul = r2.Point{X: r.X.Lo, Y: r.Y.Hi}
	ur = r2.Point{X: r.X.Hi, Y: r.Y.Hi}
	return ll, lr, ul, ur
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q r2.Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Lerp scales the segment start->end about start: start + k*(end-start).
func Lerp(start, end r2.Point, k float64) r2.Point {
	return start.Add(end.Sub(start).Mul(k))
}

// AxisOrder tags the order in which a sink expects the two planar axes.
type AxisOrder int

const (
	// OrderXY is the module's native (x, y) order.
	OrderXY AxisOrder = iota
	// OrderYX is the (lat, lng) order used by web map backends.
	OrderYX
)

func (o AxisOrder) String() string {
	switch o {
	case OrderXY:
		return "xy"
	case OrderYX:
		return "yx"
	default:
		return fmt.Sprintf("AxisOrder(%d)", int(o))
	}
}

// Pair returns p's coordinates in the order o.
func (o AxisOrder) Pair(p r2.Point) [2]float64 {
	if o == OrderYX {
		return [2]float64{p.Y, p.X}
	}
	return [2]float64{p.X, p.Y}
}

// Point is the inverse of Pair.
func (o AxisOrder) Point(pair [2]float64) r2.Point {
	if o == OrderYX {
		return r2.Point{X: pair[1], Y: pair[0]}
	}
	return r2.Point{X: pair[0], Y: pair[1]}
}
