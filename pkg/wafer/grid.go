package wafer

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/geom"
)

// CellIndex is a cell's logical index, relative to Spec.CellOrigin.
type CellIndex struct {
	X, Y int
}

func (i CellIndex) String() string {
	return fmt.Sprintf("(%d, %d)", i.X, i.Y)
}

// At returns a pointer to the index (x, y), for the cell arguments of Map
// and Resolver where nil means "wafer coordinates".
func At(x, y int) *CellIndex {
	return &CellIndex{X: x, Y: y}
}

// Cell is one grid rectangle, exactly CellSize wide and high.
type Cell struct {
	Index  CellIndex
	Bounds r2.Rect
}

// LowerLeft is the corner with the smallest X and Y.
func (c Cell) LowerLeft() r2.Point { return r2.Point{X: c.Bounds.X.Lo, Y: c.Bounds.Y.Lo} }

// LowerRight is the corner with the largest X and smallest Y.
func (c Cell) LowerRight() r2.Point { return r2.Point{X: c.Bounds.X.Hi, Y: c.Bounds.Y.Lo} }

// UpperLeft is the corner with the smallest X and largest Y.
func (c Cell) UpperLeft() r2.Point { return r2.Point{X: c.Bounds.X.Lo, Y: c.Bounds.Y.Hi} }

// UpperRight is the corner with the largest X and Y.
func (c Cell) UpperRight() r2.Point { return r2.Point{X: c.Bounds.X.Hi, Y: c.Bounds.Y.Hi} }

// Center is the midpoint of the lower-left and upper-right corners.
func (c Cell) Center() r2.Point {
	return r2.Point{
		X: (c.Bounds.X.Lo + c.Bounds.X.Hi) / 2,
		Y: (c.Bounds.Y.Lo + c.Bounds.Y.Hi) / 2,
	}
}

// Corners returns lower-left, lower-right, upper-left and upper-right.
func (c Cell) Corners() [4]r2.Point {
	ll, lr, ul, ur := geom.Corners(c.Bounds)
	return [4]r2.Point{ll, lr, ul, ur}
}

// Grid is the immutable set of cells on a wafer, in scan order (rows bottom
// to top, cells left to right).
type Grid struct {
	spec  Spec
	cells []Cell
	index map[CellIndex]int
}

// BuildGrid validates spec and computes its grid. The returned grid holds
// a copy of spec scaled by its conversion factor.
func BuildGrid(spec Spec) (*Grid, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	s := spec.scaled()
	pitch := s.Pitch()

	xLo, xHi := candidateRange(s.Radius, pitch.X, s.GridOffset.X)
	yLo, yHi := candidateRange(s.Radius, pitch.Y, s.GridOffset.Y)

	g := &Grid{
		spec:  s,
		index: make(map[CellIndex]int),
	}
	for iy := yLo; iy < yHi; iy++ {
		for ix := xLo; ix < xHi; ix++ {
			center := r2.Point{
				X: float64(ix)*pitch.X + s.GridOffset.X,
				Y: float64(iy)*pitch.Y + s.GridOffset.Y,
			}
			bounds := geom.RectCenterSize(center, s.CellSize)
			if !covered(bounds, s.Radius, s.Coverage) {
				continue
			}
			idx := CellIndex{X: ix - s.CellOrigin.X, Y: iy - s.CellOrigin.Y}
			g.index[idx] = len(g.cells)
			g.cells = append(g.cells, Cell{Index: idx, Bounds: bounds})
		}
	}
	return g, nil
}

// candidateRange returns the half-open index range [lo, hi) that covers the
// wafer diameter on one axis, shifted to follow the grid offset.
func candidateRange(radius, pitch, offset float64) (int, int) {
	n := int(math.Ceil(2 * radius / pitch))
	half := (n + 1) / 2
	shift := int(math.Round(offset / pitch))
	return -half - 1 - shift, half + 1 - shift
}

func covered(bounds r2.Rect, radius float64, coverage Coverage) bool {
	ll, lr, ul, ur := geom.Corners(bounds)
	inside := 0
	for _, p := range []r2.Point{ll, lr, ul, ur} {
		if geom.Distance(p, r2.Point{}) <= radius {
			inside++
		}
	}
	if coverage == CoverageInner {
		return inside == 4
	}
	return inside > 0
}

// Spec returns the scaled spec the grid was built from.
func (g *Grid) Spec() Spec { return g.spec }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// Cells returns a copy of the cells in scan order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// Cell looks up a cell by index.
func (g *Grid) Cell(idx CellIndex) (Cell, bool) {
	i, ok := g.index[idx]
	if !ok {
		return Cell{}, false
	}
	return g.cells[i], true
}

// Contains reports whether idx is on the wafer.
func (g *Grid) Contains(idx CellIndex) bool {
	_, ok := g.index[idx]
	return ok
}

// Bounds is the union of all cells; empty for an empty grid.
func (g *Grid) Bounds() r2.Rect {
	b := r2.EmptyRect()
	for _, c := range g.cells {
		b = b.Union(c.Bounds)
	}
	return b
}

// Extent returns the smallest and largest index on each axis.
func (g *Grid) Extent() (lo, hi CellIndex, ok bool) {
	if len(g.cells) == 0 {
		return CellIndex{}, CellIndex{}, false
	}
	lo, hi = g.cells[0].Index, g.cells[0].Index
	for _, c := range g.cells[1:] {
		lo.X, lo.Y = min(lo.X, c.Index.X), min(lo.Y, c.Index.Y)
		hi.X, hi.Y = max(hi.X, c.Index.X), max(hi.Y, c.Index.Y)
	}
	return lo, hi, true
}
