// Package wafer computes the cell grid of a circular wafer and places
// annotations (points, vectors, labels, images) on it, either relative to a
// cell's lower-left corner or in absolute wafer coordinates centered on the
// wafer. Map.Document turns the result into drawing primitives for the render
// sinks.
package wafer

import (
	"fmt"
	"math"
	"strings"

	"github.com/golang/geo/r2"
)

// Coverage selects which candidate cells belong to the grid.
type Coverage int

const (
	// CoverageFull keeps a cell if any corner is on the wafer.
	CoverageFull Coverage = iota
	// CoverageInner keeps a cell only if all corners are on the wafer.
	CoverageInner
)

func (c Coverage) String() string {
	switch c {
	case CoverageFull:
		return "full"
	case CoverageInner:
		return "inner"
	default:
		return fmt.Sprintf("Coverage(%d)", int(c))
	}
}

// ParseCoverage reads "full" or "inner", ignoring case and surrounding space.
func ParseCoverage(s string) (Coverage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "full":
		return CoverageFull, nil
	case "inner":
		return CoverageInner, nil
	}
	return 0, &ConfigError{Field: "coverage", Value: s, Reason: `must be "full" or "inner"`}
}

// MaxCandidates caps the number of candidate cells a grid may scan, the
// product of the candidate counts of both axes.
const MaxCandidates = 4_000_000

// Spec describes a wafer and its grid. Linear quantities are in input units
// and are multiplied by ConversionFactor once, when the grid is built.
type Spec struct {
	Radius           float64
	CellSize         r2.Point
	CellMargin       r2.Point
	CellOrigin       CellIndex
	GridOffset       r2.Point
	EdgeExclusion    float64
	Coverage         Coverage
	NotchOrientation float64 // degrees, counter-clockwise from +X
	Background       RGB
	ConversionFactor float64
}

// DefaultSpec returns the defaults for every optional field. Radius and
// CellSize still have to be set.
func DefaultSpec() Spec {
	return Spec{
		EdgeExclusion:    3,
		Coverage:         CoverageFull,
		NotchOrientation: 270,
		Background:       White,
		ConversionFactor: 1,
	}
}

// Validate reports the first invalid field as a *ConfigError.
func (s Spec) Validate() error {
	finite := func(field string, vs ...float64) error {
		for _, v := range vs {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return &ConfigError{Field: field, Value: v, Reason: "must be finite"}
			}
		}
		return nil
	}
	for _, err := range []error{
		finite("radius", s.Radius),
		finite("cell size", s.CellSize.X, s.CellSize.Y),
		finite("cell margin", s.CellMargin.X, s.CellMargin.Y),
		finite("grid offset", s.GridOffset.X, s.GridOffset.Y),
		finite("edge exclusion", s.EdgeExclusion),
		finite("notch orientation", s.NotchOrientation),
		finite("conversion factor", s.ConversionFactor),
	} {
		if err != nil {
			return err
		}
	}

	switch {
	case s.ConversionFactor <= 0:
		return &ConfigError{Field: "conversion factor", Value: s.ConversionFactor, Reason: "must be > 0"}
	case s.Radius <= 0:
		return &ConfigError{Field: "radius", Value: s.Radius, Reason: "must be > 0"}
	case s.CellSize.X <= 0 || s.CellSize.Y <= 0:
		return &ConfigError{Field: "cell size", Value: s.CellSize, Reason: "must be > 0 on both axes"}
	case s.CellMargin.X < 0 || s.CellMargin.Y < 0:
		return &ConfigError{Field: "cell margin", Value: s.CellMargin, Reason: "must be >= 0 on both axes"}
	case s.EdgeExclusion < 0:
		return &ConfigError{Field: "edge exclusion", Value: s.EdgeExclusion, Reason: "must be >= 0"}
	case s.Coverage != CoverageFull && s.Coverage != CoverageInner:
		return &ConfigError{Field: "coverage", Value: s.Coverage, Reason: `must be "full" or "inner"`}
	}
	if err := s.Background.validate(); err != nil {
		return err
	}

	pitch := s.CellSize.Add(s.CellMargin)
	nx := math.Ceil(2*s.Radius/pitch.X) + 3
	ny := math.Ceil(2*s.Radius/pitch.Y) + 3
	if nx*ny > MaxCandidates {
		return &ConfigError{Field: "cell size", Value: s.CellSize,
			Reason: fmt.Sprintf("grid would scan more than %d candidate cells", MaxCandidates)}
	}
	return nil
}

// scaled returns s with every linear quantity multiplied by the conversion
// factor, which becomes 1.
func (s Spec) scaled() Spec {
	k := s.ConversionFactor
	s.Radius *= k
	s.CellSize = s.CellSize.Mul(k)
	s.CellMargin = s.CellMargin.Mul(k)
	s.GridOffset = s.GridOffset.Mul(k)
	s.EdgeExclusion *= k
	s.ConversionFactor = 1
	return s
}

// Pitch is the center-to-center distance of neighbouring cells.
func (s Spec) Pitch() r2.Point {
	return s.CellSize.Add(s.CellMargin)
}
