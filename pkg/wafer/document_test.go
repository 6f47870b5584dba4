package wafer

import (
	"math"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/render"
)

func TestNotchOrientation(t *testing.T) {
	tests := []struct {
		orientation float64
		tip         r2.Point
	}{
		{0, r2.Point{X: 99, Y: 0}},
		{90, r2.Point{X: 0, Y: 99}},
		{180, r2.Point{X: -99, Y: 0}},
		{270, r2.Point{X: 0, Y: -99}},
	}
	for _, tt := range tests {
		pts := Notch(100, tt.orientation)
		if len(pts) != 4 {
			t.Fatalf("Expected closed outline of 4 points, got %d", len(pts))
		}
		if pts[0] != pts[3] {
			t.Errorf("Outline not closed: %v", pts)
		}
		if math.Abs(pts[0].X-tt.tip.X) > 1e-9 || math.Abs(pts[0].Y-tt.tip.Y) > 1e-9 {
			t.Errorf("Notch at %v°: expected tip %v, got %v", tt.orientation, tt.tip, pts[0])
		}
	}
}

func TestRGB(t *testing.T) {
	if got := White.HTML(); got != "#ffffff" {
		t.Errorf("Expected #ffffff, got %s", got)
	}
	if got := White.Invert().HTML(); got != "#000000" {
		t.Errorf("Expected #000000, got %s", got)
	}
	if got := (RGB{0.2, 0.5, 1.5}).HTML(); got != "#3380ff" {
		t.Errorf("Expected clamped #3380ff, got %s", got)
	}
}

func TestDocumentLayers(t *testing.T) {
	m := newMap(t, WithTitle("lot 7"), WithImageLoader(fakeImages(20, 20)))
	mustNil := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	mustNil(m.AddPoint(At(0, 0), r2.Point{X: 1, Y: 1}, render.Style{}, "p"))
	mustNil(m.AddLabel(nil, r2.Point{}, "center", "", ""))
	mustNil(m.AddVector([]r2.Point{{}, {X: 1, Y: 1}}, 1, nil, render.Style{}, DefaultMarkerStyle()))
	mustNil(m.AddImage("a.png", At(0, 0), r2.Point{}, render.Style{}))
	mustNil(m.AddImage("b.png", At(1, 0), r2.Point{}, DefaultMarkerStyle()))

	doc := m.Document()
	if doc.Title != "lot 7" || doc.Radius != 100 || doc.NotchOrientation != 270 || doc.EdgeExclusion != 3 {
		t.Errorf("Unexpected document header %+v", doc)
	}

	want := []struct {
		name    string
		visible bool
		items   int
	}{
		{render.LayerWafer, true, 2},
		{render.LayerGrid, true, m.Grid().Len()},
		{render.LayerCellLabels, false, m.Grid().Len()},
		{render.LayerLabels, false, 1},
		{render.LayerEdgeExclusion, true, 1},
		{render.LayerImages, true, 1},
		{render.LayerMarkers, true, 2},
		{render.LayerVectors, true, 2},
	}
	if len(doc.Layers) != len(want) {
		t.Fatalf("Expected %d layers, got %d", len(want), len(doc.Layers))
	}
	for i, w := range want {
		l := doc.Layers[i]
		if l.Name != w.name || l.Visible != w.visible || len(l.Items) != w.items {
			t.Errorf("Layer %d: expected %s/%v/%d, got %s/%v/%d",
				i, w.name, w.visible, w.items, l.Name, l.Visible, len(l.Items))
		}
	}

	edge := doc.Layer(render.LayerWafer).Items[0].(render.Circle)
	if edge.Style.StrokeColor() != "#000000" || edge.Style.Filled() {
		t.Errorf("Expected unfilled black wafer edge, got %v", edge.Style.Map())
	}
	ring := doc.Layer(render.LayerEdgeExclusion).Items[0].(render.Circle)
	if ring.Radius != 97 || ring.Style.StrokeColor() != EdgeExclusionColor {
		t.Errorf("Unexpected exclusion ring %+v", ring)
	}
	label := doc.Layer(render.LayerCellLabels).Items[0].(render.Text)
	if label.SizePx != CellLabelSizePx {
		t.Errorf("Unexpected cell label size %v", label.SizePx)
	}
}

func TestDocumentWithoutEdgeExclusion(t *testing.T) {
	s := testSpec(50, 10, 10)
	s.EdgeExclusion = 0
	s.Background = RGB{0, 0, 0}
	m, err := New(s)
	if err != nil {
		t.Fatal(err)
	}
	doc := m.Document()
	if n := len(doc.Layer(render.LayerEdgeExclusion).Items); n != 0 {
		t.Errorf("Expected empty exclusion layer, got %d items", n)
	}
	if doc.Background != "#000000" {
		t.Errorf("Expected black background, got %s", doc.Background)
	}
	if c := doc.Layer(render.LayerWafer).Items[0].(render.Circle); c.Style.StrokeColor() != "#ffffff" {
		t.Errorf("Expected white edge on black, got %s", c.Style.StrokeColor())
	}
}

func TestStyledCellReachesDocument(t *testing.T) {
	m := newMap(t)
	if err := m.StyleCell(At(0, 0), render.NewStyle(render.KeyFill, true)); err != nil {
		t.Fatal(err)
	}
	for _, it := range m.Document().Layer(render.LayerGrid).Items {
		r := it.(render.Rectangle)
		if r.Tooltip == "(0, 0)" && !r.Style.Filled() {
			t.Error("Expected cell (0, 0) to be filled")
		}
		if r.Tooltip != "(0, 0)" && r.Style.Filled() {
			t.Errorf("Cell %s unexpectedly filled", r.Tooltip)
		}
	}
}
