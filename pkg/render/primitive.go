package render

import (
	"fmt"

	"github.com/golang/geo/r2"
)

// Kind identifies a primitive type.
type Kind int

const (
	KindCircle Kind = iota
	KindPolygon
	KindPolyline
	KindRectangle
	KindMarker
	KindText
	KindImage
)

var kindNames = map[Kind]string{
	KindCircle:    "circle",
	KindPolygon:   "polygon",
	KindPolyline:  "polyline",
	KindRectangle: "rect",
	KindMarker:    "marker",
	KindText:      "text",
	KindImage:     "image",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Primitive is a drawing instruction in wafer coordinates.
type Primitive interface {
	Kind() Kind
	Bounds() r2.Rect
}

// Circle has a radius in wafer units.
type Circle struct {
	Center r2.Point
	Radius float64
	Style  Style
}

func (c Circle) Kind() Kind { return KindCircle }

func (c Circle) Bounds() r2.Rect {
	return r2.RectFromCenterSize(c.Center, r2.Point{X: 2 * c.Radius, Y: 2 * c.Radius})
}

// Polygon is a closed outline.
type Polygon struct {
	Points []r2.Point
	Style  Style
}

func (p Polygon) Kind() Kind      { return KindPolygon }
func (p Polygon) Bounds() r2.Rect { return pointsBounds(p.Points) }

// Polyline is an open path.
type Polyline struct {
	Points []r2.Point
	Style  Style
}

func (p Polyline) Kind() Kind      { return KindPolyline }
func (p Polyline) Bounds() r2.Rect { return pointsBounds(p.Points) }

// Rectangle is an axis-aligned box, used for grid cells.
type Rectangle struct {
	Rect    r2.Rect
	Style   Style
	Tooltip string
}

func (r Rectangle) Kind() Kind      { return KindRectangle }
func (r Rectangle) Bounds() r2.Rect { return r.Rect }

// Marker is a circle with a constant on-screen radius (the "radius" style
// entry, in pixels) and an optional HTML popup.
type Marker struct {
	At    r2.Point
	Style Style
	Popup string
}

// DefaultMarkerRadius is the pixel radius used when the style has none.
const DefaultMarkerRadius = 10.0

func (m Marker) Kind() Kind      { return KindMarker }
func (m Marker) Bounds() r2.Rect { return r2.RectFromPoints(m.At) }

// RadiusPx returns the marker radius in pixels.
func (m Marker) RadiusPx() float64 { return m.Style.Float(KeyRadius, DefaultMarkerRadius) }

// Text is a label box of SizePx pixels centered on At.
type Text struct {
	At      r2.Point
	Content string
	SizePx  r2.Point
	CSS     string
	Popup   string
}

func (t Text) Kind() Kind      { return KindText }
func (t Text) Bounds() r2.Rect { return r2.RectFromPoints(t.At) }

// Image is a raster overlay stretched over Rect. URI is a data URI.
type Image struct {
	Rect  r2.Rect
	URI   string
	Alt   string
	Style Style
}

func (i Image) Kind() Kind      { return KindImage }
func (i Image) Bounds() r2.Rect { return i.Rect }

func pointsBounds(pts []r2.Point) r2.Rect {
	if len(pts) == 0 {
		return r2.EmptyRect()
	}
	return r2.RectFromPoints(pts...)
}
