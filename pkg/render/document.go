// Package render holds the drawing model shared by every output sink: styled
// primitives grouped into named layers of a Document, plus the camera and
// color helpers the raster and interactive sinks draw with.
package render

import (
	"io"

	"github.com/golang/geo/r2"
)

// Layer names, in drawing order.
const (
	LayerWafer         = "wafer"
	LayerGrid          = "grid"
	LayerCellLabels    = "cell labels"
	LayerLabels        = "labels"
	LayerEdgeExclusion = "edge exclusion"
	LayerImages        = "images"
	LayerMarkers       = "markers"
	LayerVectors       = "vectors"
)

// Layer is a named, toggleable group of primitives.
type Layer struct {
	Name    string
	Visible bool
	Items   []Primitive
}

// Add appends primitives to the layer.
func (l *Layer) Add(items ...Primitive) {
	l.Items = append(l.Items, items...)
}

// Document is everything a sink needs to draw one wafer map.
type Document struct {
	Title            string
	Radius           float64
	EdgeExclusion    float64
	NotchOrientation float64
	Background       string
	Layers           []*Layer
}

// NewDocument creates an empty document with a white background.
func NewDocument(title string, radius float64) *Document {
	return &Document{
		Title:      title,
		Radius:     radius,
		Background: "#ffffff",
	}
}

// AddLayer appends a new layer, or returns the existing one of that name.
func (d *Document) AddLayer(name string, visible bool) *Layer {
	if l := d.Layer(name); l != nil {
		return l
	}
	l := &Layer{Name: name, Visible: visible}
	d.Layers = append(d.Layers, l)
	return l
}

// Layer returns the layer called name, or nil.
func (d *Document) Layer(name string) *Layer {
	for _, l := range d.Layers {
		if l.Name == name {
			return l
		}
	}
	return nil
}

// Bounds is the wafer square (-R,-R)..(R,R) grown to every primitive.
func (d *Document) Bounds() r2.Rect {
	b := r2.RectFromPoints(r2.Point{X: -d.Radius, Y: -d.Radius}, r2.Point{X: d.Radius, Y: d.Radius})
	for _, l := range d.Layers {
		for _, it := range l.Items {
			if ib := it.Bounds(); !ib.IsEmpty() {
				b = b.Union(ib)
			}
		}
	}
	return b
}

// Count returns the number of primitives per kind over all layers.
func (d *Document) Count() map[Kind]int {
	counts := make(map[Kind]int)
	for _, l := range d.Layers {
		for _, it := range l.Items {
			counts[it.Kind()]++
		}
	}
	return counts
}

// Encoder writes a Document in some output format.
type Encoder interface {
	Encode(w io.Writer, doc *Document) error
}

// EncoderFunc adapts a function to Encoder.
type EncoderFunc func(w io.Writer, doc *Document) error

func (f EncoderFunc) Encode(w io.Writer, doc *Document) error { return f(w, doc) }
