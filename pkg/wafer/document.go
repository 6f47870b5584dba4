package wafer

import (
	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/render"
)

// EdgeExclusionColor is the color of the edge exclusion ring.
const EdgeExclusionColor = "#ff4d4d"

// CellLabelSizePx is the label box of the cell index labels.
var CellLabelSizePx = r2.Point{X: 50, Y: 20}

// Document renders the map into drawing primitives. Layers come in drawing
// order; "cell labels" and "labels" start hidden.
func (m *Map) Document() *render.Document {
	s := m.grid.spec
	doc := render.NewDocument(m.title, s.Radius)
	doc.EdgeExclusion = s.EdgeExclusion
	doc.NotchOrientation = s.NotchOrientation
	doc.Background = s.Background.HTML()

	edge := render.NewStyle(render.KeyColor, s.Background.Invert().HTML(), render.KeyFill, false)
	base := doc.AddLayer(render.LayerWafer, true)
	base.Add(
		render.Circle{Radius: s.Radius, Style: edge},
		render.Polygon{Points: Notch(s.Radius, s.NotchOrientation), Style: edge},
	)

	grid := doc.AddLayer(render.LayerGrid, true)
	cellLabels := doc.AddLayer(render.LayerCellLabels, false)
	for _, c := range m.grid.cells {
		grid.Add(render.Rectangle{
			Rect:    c.Bounds,
			Style:   m.CellStyle(c.Index),
			Tooltip: c.Index.String(),
		})
		cellLabels.Add(render.Text{
			At:      c.Center(),
			Content: c.Index.String(),
			SizePx:  CellLabelSizePx,
			CSS:     DefaultLabelCSS,
		})
	}

	labels := doc.AddLayer(render.LayerLabels, false)
	for _, l := range m.labels {
		labels.Add(render.Text{At: l.At, Content: l.Text, SizePx: l.SizePx, CSS: l.CSS, Popup: l.Popup})
	}

	exclusion := doc.AddLayer(render.LayerEdgeExclusion, true)
	if s.EdgeExclusion > 0 {
		exclusion.Add(render.Circle{
			Radius: s.Radius - s.EdgeExclusion,
			Style:  render.NewStyle(render.KeyColor, EdgeExclusionColor, render.KeyWeight, 1, render.KeyFill, false),
		})
	}

	images := doc.AddLayer(render.LayerImages, true)
	markers := doc.AddLayer(render.LayerMarkers, true)
	for _, im := range m.images {
		if im.IsOverlay() {
			images.Add(render.Image{Rect: im.Rect, URI: im.Thumb.DataURI(), Alt: im.Thumb.Name})
			continue
		}
		markers.Add(render.Marker{At: im.Anchor, Style: im.MarkerStyle, Popup: im.Thumb.PopupHTML()})
	}
	for _, p := range m.points {
		markers.Add(render.Marker{At: p.At, Style: p.Style, Popup: p.Popup})
	}

	vectors := doc.AddLayer(render.LayerVectors, true)
	for _, v := range m.vectors {
		if !v.RootStyle.IsEmpty() {
			vectors.Add(render.Marker{At: v.Start, Style: v.RootStyle})
		}
		vectors.Add(render.Polyline{Points: []r2.Point{v.Start, v.End}, Style: v.Style})
	}

	return doc
}
