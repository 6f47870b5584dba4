package wafer

import (
	"github.com/golang/geo/r2"
)

// Resolver maps (cell, offset) pairs to wafer coordinates. A nil cell means
// the offset already is a wafer coordinate; otherwise the offset is taken
// from the cell's lower-left corner.
type Resolver struct {
	grid *Grid
}

// NewResolver creates a resolver over g.
func NewResolver(g *Grid) *Resolver {
	return &Resolver{grid: g}
}

// Resolve returns the wafer coordinate of offset within cell.
func (r *Resolver) Resolve(cell *CellIndex, offset r2.Point) (r2.Point, error) {
	if cell == nil {
		return offset, nil
	}
	c, ok := r.grid.Cell(*cell)
	if !ok {
		return r2.Point{}, &CellNotFoundError{Cell: *cell}
	}
	return c.LowerLeft().Add(offset), nil
}

// UpperBound returns the upper-right corner of cell, or (R, R) for a nil
// cell. Images placed in a cell are fitted below and left of this point.
func (r *Resolver) UpperBound(cell *CellIndex) (r2.Point, error) {
	if cell == nil {
		radius := r.grid.spec.Radius
		return r2.Point{X: radius, Y: radius}, nil
	}
	c, ok := r.grid.Cell(*cell)
	if !ok {
		return r2.Point{}, &CellNotFoundError{Cell: *cell}
	}
	return c.UpperRight(), nil
}
