package wafer

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"math/rand/v2"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/geom"
	"github.com/cap1tan/wafermap/pkg/imagefile"
	"github.com/cap1tan/wafermap/pkg/render"
)

// LabelFontSize is the label font size in points.
const LabelFontSize = 8.0

const (
	maxLabelPx   = 100.0
	imageScale   = 1.0 / 10
	imageMarkerR = 2.0
)

// DefaultLabelCSS is the HTML style of labels without one.
const DefaultLabelCSS = "font-size: 8pt; color: black; text-align: center;"

// DefaultMarkerStyle is the style of image markers.
func DefaultMarkerStyle() render.Style {
	return render.NewStyle(render.KeyColor, "#ff0000", render.KeyFill, true)
}

// DefaultVectorStyle is merged under every vector's style.
func DefaultVectorStyle() render.Style {
	return render.NewStyle(render.KeyColor, "#009900", render.KeyWeight, 1)
}

// DefaultPointStyle is merged under every point's style.
func DefaultPointStyle() render.Style {
	return render.NewStyle(render.KeyRadius, 0.5, render.KeyFill, true)
}

// DefaultCellStyle is the style of unstyled cells.
func DefaultCellStyle() render.Style {
	return render.NewStyle(render.KeyColor, "#142d2d", render.KeyWeight, 0.2, render.KeyFill, false)
}

// ImageLoader loads an image as a thumbnail bounded to max×max pixels.
type ImageLoader func(path string, max int) (*imagefile.Thumbnail, error)

// Point is a circle marker.
type Point struct {
	Cell   *CellIndex
	Offset r2.Point
	At     r2.Point
	Style  render.Style
	Popup  string
}

// Vector is a scaled arrow from Start to End, both resolved.
type Vector struct {
	Cell      *CellIndex
	Start     r2.Point
	End       r2.Point
	Scale     float64
	Style     render.Style
	RootStyle render.Style
}

// Label is a text box of SizePx pixels centered on At.
type Label struct {
	Cell   *CellIndex
	Offset r2.Point
	At     r2.Point
	Text   string
	CSS    string
	Popup  string
	SizePx r2.Point
}

// Image is either an overlay stretched over Rect (empty MarkerStyle) or a
// marker at Anchor whose popup shows the thumbnail.
type Image struct {
	Cell        *CellIndex
	Offset      r2.Point
	Anchor      r2.Point
	Rect        r2.Rect
	Source      string
	Thumb       *imagefile.Thumbnail
	MarkerStyle render.Style
}

// IsOverlay reports whether the image is drawn on the map itself.
func (im Image) IsOverlay() bool { return im.MarkerStyle.IsEmpty() }

// Option configures a Map.
type Option func(*Map)

// WithLogger routes skip notices (missing images, malformed vectors) to l.
func WithLogger(l *log.Logger) Option {
	return func(m *Map) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithImageLoader replaces imagefile.Load.
func WithImageLoader(fn ImageLoader) Option {
	return func(m *Map) {
		if fn != nil {
			m.loadImage = fn
		}
	}
}

// WithTitle sets the document title.
func WithTitle(title string) Option {
	return func(m *Map) { m.title = title }
}

// Map is a wafer grid plus its annotations. It is not safe for concurrent
// use. Every Add method either appends its annotation or returns an error
// and leaves the map unchanged.
type Map struct {
	grid      *Grid
	resolver  *Resolver
	title     string
	logger    *log.Logger
	loadImage ImageLoader

	cellStyles map[CellIndex]render.Style
	points     []Point
	vectors    []Vector
	labels     []Label
	images     []Image
}

// New builds the grid for spec and returns an empty map over it.
func New(spec Spec, opts ...Option) (*Map, error) {
	grid, err := BuildGrid(spec)
	if err != nil {
		return nil, err
	}
	m := &Map{
		grid:       grid,
		resolver:   NewResolver(grid),
		title:      "wafermap",
		logger:     log.New(io.Discard, "", 0),
		loadImage:  imagefile.Load,
		cellStyles: make(map[CellIndex]render.Style),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Grid returns the map's grid.
func (m *Map) Grid() *Grid { return m.grid }

// Spec returns the scaled spec of the grid.
func (m *Map) Spec() Spec { return m.grid.spec }

// Resolver returns the resolver over the grid.
func (m *Map) Resolver() *Resolver { return m.resolver }

// Title is the document title.
func (m *Map) Title() string { return m.title }

// Logger is where skipped annotations are reported.
func (m *Map) Logger() *log.Logger { return m.logger }

// Points returns a copy of the points in insertion order.
func (m *Map) Points() []Point {
	out := make([]Point, len(m.points))
	for i, p := range m.points {
		p.Cell = copyIndex(p.Cell)
		out[i] = p
	}
	return out
}

// Vectors returns a copy of the vectors in insertion order.
func (m *Map) Vectors() []Vector {
	out := make([]Vector, len(m.vectors))
	for i, v := range m.vectors {
		v.Cell = copyIndex(v.Cell)
		out[i] = v
	}
	return out
}

// Labels returns a copy of the labels in insertion order.
func (m *Map) Labels() []Label {
	out := make([]Label, len(m.labels))
	for i, l := range m.labels {
		l.Cell = copyIndex(l.Cell)
		out[i] = l
	}
	return out
}

// Images returns a copy of the images in insertion order.
func (m *Map) Images() []Image {
	out := make([]Image, len(m.images))
	for i, im := range m.images {
		im.Cell = copyIndex(im.Cell)
		out[i] = im
	}
	return out
}

// CellStyle returns the effective style of a cell.
func (m *Map) CellStyle(idx CellIndex) render.Style {
	return DefaultCellStyle().Merge(m.cellStyles[idx])
}

// AddPoint places a circle marker. style is merged over DefaultPointStyle.
func (m *Map) AddPoint(cell *CellIndex, offset r2.Point, style render.Style, popup string) error {
	at, err := m.resolver.Resolve(cell, offset)
	if err != nil {
		return err
	}
	m.points = append(m.points, Point{
		Cell:   copyIndex(cell),
		Offset: offset,
		At:     at,
		Style:  DefaultPointStyle().Merge(style),
		Popup:  popup,
	})
	return nil
}

// AddVector draws points[0] -> points[1] with its length multiplied by
// scale. Anything but exactly two points is skipped without error. A
// non-empty rootStyle adds a circle marker at the vector's start.
func (m *Map) AddVector(points []r2.Point, scale float64, cell *CellIndex, style, rootStyle render.Style) error {
	if len(points) != 2 {
		m.logger.Printf("skipping vector with %d points", len(points))
		return nil
	}
	start, err := m.resolver.Resolve(cell, points[0])
	if err != nil {
		return err
	}
	tip, err := m.resolver.Resolve(cell, points[1])
	if err != nil {
		return err
	}
	end := geom.Lerp(start, tip, scale)

	m.vectors = append(m.vectors, Vector{
		Cell:      copyIndex(cell),
		Start:     start,
		End:       end,
		Scale:     scale,
		Style:     DefaultVectorStyle().Merge(style),
		RootStyle: rootStyle,
	})
	return nil
}

// AddLabel places a text label centered on the resolved offset. An empty css
// uses DefaultLabelCSS. The label box grows with the text, up to 100px.
func (m *Map) AddLabel(cell *CellIndex, offset r2.Point, text, css, popup string) error {
	at, err := m.resolver.Resolve(cell, offset)
	if err != nil {
		return err
	}
	if css == "" {
		css = DefaultLabelCSS
	}
	m.labels = append(m.labels, Label{
		Cell:   copyIndex(cell),
		Offset: offset,
		At:     at,
		Text:   text,
		CSS:    css,
		Popup:  popup,
		SizePx: LabelSize(text),
	})
	return nil
}

// LabelSize returns the pixel size of a label box for text.
func LabelSize(text string) r2.Point {
	w := float64(len([]rune(text))) * LabelFontSize * render.PxPerPt
	h := LabelFontSize * render.PxPerPt
	return r2.Point{X: min(w, maxLabelPx), Y: min(h, maxLabelPx)}
}

// AddImage places the image at path. With an empty markerStyle the thumbnail
// is drawn as an overlay anchored at the resolved offset, one wafer unit per
// ten pixels, shrunk to fit below the cell's upper-right corner (or (R, R)
// for wafer coordinates). Otherwise a circle marker with markerStyle opens
// the thumbnail in a popup. A missing file is skipped without error.
func (m *Map) AddImage(path string, cell *CellIndex, offset r2.Point, markerStyle render.Style) error {
	thumb, err := m.loadImage(path, imagefile.MaxThumbnailSize)
	if errors.Is(err, fs.ErrNotExist) {
		m.logger.Printf("skipping missing image %s", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrImage, path, err)
	}

	anchor, err := m.resolver.Resolve(cell, offset)
	if err != nil {
		return err
	}
	upper, err := m.resolver.UpperBound(cell)
	if err != nil {
		return err
	}

	size := r2.Point{X: float64(thumb.Width), Y: float64(thumb.Height)}.Mul(imageScale)
	rect := geom.Rect(anchor, anchor.Add(size))
	bounds := r2.Rect{
		X: r1.Interval{Lo: anchor.X, Hi: upper.X},
		Y: r1.Interval{Lo: anchor.Y, Hi: upper.Y},
	}

	if !markerStyle.IsEmpty() && !markerStyle.Has(render.KeyRadius) {
		markerStyle = markerStyle.With(render.KeyRadius, imageMarkerR)
	}
	m.images = append(m.images, Image{
		Cell:        copyIndex(cell),
		Offset:      offset,
		Anchor:      anchor,
		Rect:        geom.BoundedRect(rect, bounds),
		Source:      path,
		Thumb:       thumb,
		MarkerStyle: markerStyle,
	})
	return nil
}

// StyleCell merges style into one cell's style, or every cell's when cell
// is nil.
func (m *Map) StyleCell(cell *CellIndex, style render.Style) error {
	if cell == nil {
		for _, c := range m.grid.cells {
			m.cellStyles[c.Index] = m.cellStyles[c.Index].Merge(style)
		}
		return nil
	}
	if !m.grid.Contains(*cell) {
		return &CellNotFoundError{Cell: *cell}
	}
	m.cellStyles[*cell] = m.cellStyles[*cell].Merge(style)
	return nil
}

// StyleCellsColormap fills every cell with its own color from
// RandomColormap, assigned in scan order.
func (m *Map) StyleCellsColormap(rng *rand.Rand, opts ColormapOptions) error {
	colors, err := RandomColormap(len(m.grid.cells), rng, opts)
	if err != nil {
		return err
	}
	for i, c := range m.grid.cells {
		fill := render.NewStyle(render.KeyFill, true, render.KeyFillColor, colors[i].HTML())
		m.cellStyles[c.Index] = m.cellStyles[c.Index].Merge(fill)
	}
	return nil
}

func copyIndex(idx *CellIndex) *CellIndex {
	if idx == nil {
		return nil
	}
	c := *idx
	return &c
}
