package waferfile

import (
	"fmt"
	"math"
	"math/rand/v2"
	"path/filepath"

	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/geom"
	"github.com/cap1tan/wafermap/pkg/render"
	"github.com/cap1tan/wafermap/pkg/wafer"
)

// defaultPaletteSeed keeps palettes without a seed reproducible.
const defaultPaletteSeed = 1

// Spec returns the wafer spec described by f, starting from
// wafer.DefaultSpec. Later statements override earlier ones.
func (f *File) Spec() (wafer.Spec, error) {
	spec := wafer.DefaultSpec()
	for _, st := range f.Statements {
		switch {
		case st.Radius != nil:
			spec.Radius = *st.Radius
		case st.CellSize != nil:
			spec.CellSize = st.CellSize.Point()
		case st.Margin != nil:
			spec.CellMargin = st.Margin.Point()
		case st.Origin != nil:
			spec.CellOrigin = wafer.CellIndex{X: st.Origin.X, Y: st.Origin.Y}
		case st.Offset != nil:
			spec.GridOffset = st.Offset.Point()
		case st.EdgeExclusion != nil:
			spec.EdgeExclusion = *st.EdgeExclusion
		case st.Coverage != nil:
			c, err := wafer.ParseCoverage(*st.Coverage)
			if err != nil {
				return spec, fmt.Errorf("%s: %w", st.Pos, err)
			}
			spec.Coverage = c
		case st.Notch != nil:
			spec.NotchOrientation = *st.Notch
		case st.Background != nil:
			rgb, err := st.Background.RGB()
			if err != nil {
				return spec, fmt.Errorf("%s: %w", st.Pos, err)
			}
			spec.Background = rgb
		case st.Conversion != nil:
			spec.ConversionFactor = *st.Conversion
		}
	}
	return spec, nil
}

// Build creates the map described by f and applies its annotations in file
// order. Relative image paths are resolved against dir. The wafer name
// becomes the map title unless opts set another.
func (f *File) Build(dir string, opts ...wafer.Option) (*wafer.Map, error) {
	spec, err := f.Spec()
	if err != nil {
		return nil, err
	}
	m, err := wafer.New(spec, append([]wafer.Option{wafer.WithTitle(f.Name)}, opts...)...)
	if err != nil {
		return nil, err
	}
	if err := f.Apply(m, dir); err != nil {
		return nil, err
	}
	return m, nil
}

// Apply adds the annotations of f to m. It stops at the first failing
// statement.
func (f *File) Apply(m *wafer.Map, dir string) error {
	for _, st := range f.Statements {
		var err error
		switch {
		case st.Point != nil:
			p := st.Point
			err = m.AddPoint(p.Cell.index(), p.At.Point(), p.Style.style(), deref(p.Popup))
		case st.Vector != nil:
			v := st.Vector
			scale := 1.0
			if v.Scale != nil {
				scale = *v.Scale
			}
			err = m.AddVector([]r2.Point{v.From.Point(), v.To.Point()}, scale, v.Cell.index(), v.Style.style(), v.Root.style())
		case st.Label != nil:
			l := st.Label
			err = m.AddLabel(l.Cell.index(), l.At.Point(), l.Text, deref(l.CSS), deref(l.Popup))
		case st.Image != nil:
			im := st.Image
			var marker render.Style
			if im.Marker != nil {
				marker = wafer.DefaultMarkerStyle().Merge(im.Marker.style())
			}
			path := im.Path
			if !filepath.IsAbs(path) && dir != "" {
				path = filepath.Join(dir, path)
			}
			err = m.AddImage(path, im.Cell.index(), im.At.Point(), marker)
		case st.Style != nil:
			s := st.Style
			var cell *wafer.CellIndex
			if !s.Target.All {
				cell = s.Target.Cell.index()
			}
			err = m.StyleCell(cell, s.Style.style())
		case st.Palette != nil:
			p := st.Palette
			seed := uint64(defaultPaletteSeed)
			if p.Seed != nil {
				seed = uint64(*p.Seed)
			}
			err = m.StyleCellsColormap(rand.New(rand.NewPCG(seed, seed)), wafer.ColormapOptions{
				Hue:        p.Hue,
				Saturation: p.Saturation,
				Lightness:  p.Lightness,
			})
		}
		if err != nil {
			return fmt.Errorf("%s: %w", st.Pos, err)
		}
	}
	return nil
}

// Point converts the pair to a point.
func (p Pair) Point() r2.Point { return geom.Pt(p.X, p.Y) }

// Point converts the position to a cartesian offset.
func (p Position) Point() r2.Point {
	if p.Polar != nil {
		return geom.Polar(p.Polar.X, p.Polar.Y*math.Pi/180)
	}
	return p.At.Point()
}

// RGB converts the color to wafer RGB in [0, 1].
func (c *Color) RGB() (wafer.RGB, error) {
	if c.HTML != nil {
		n, err := render.ParseColor(*c.HTML)
		if err != nil {
			return wafer.RGB{}, err
		}
		return wafer.RGB{R: float64(n.R) / 255, G: float64(n.G) / 255, B: float64(n.B) / 255}, nil
	}
	return wafer.RGB{R: c.Channels[0], G: c.Channels[1], B: c.Channels[2]}, nil
}

func (c *Cell) index() *wafer.CellIndex {
	if c == nil {
		return nil
	}
	return wafer.At(c.Index.X, c.Index.Y)
}

func (b *StyleBlock) style() render.Style {
	var s render.Style
	if b == nil {
		return s
	}
	for _, e := range b.Entries {
		s = s.Parse(e.Key, e.Value)
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
