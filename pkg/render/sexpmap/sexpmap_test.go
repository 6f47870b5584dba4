package sexpmap

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/geom"
	"github.com/cap1tan/wafermap/pkg/render"
)

func sampleDocument() *render.Document {
	doc := render.NewDocument(`lot "7"`, 100)
	doc.EdgeExclusion = 3
	doc.NotchOrientation = 270
	doc.Background = "#ffffff"

	edge := render.NewStyle(render.KeyColor, "#000000", render.KeyFill, false)
	doc.AddLayer(render.LayerWafer, true).Add(
		render.Circle{Radius: 100, Style: edge},
		render.Polygon{Points: []r2.Point{{X: 0, Y: -99}, {X: 2.8284, Y: -100}, {X: -2.8284, Y: -100}}, Style: edge},
	)
	doc.AddLayer(render.LayerGrid, true).Add(render.Rectangle{
		Rect:    geom.Rect(r2.Point{X: -5, Y: -10}, r2.Point{X: 5, Y: 10}),
		Tooltip: "(0, 0)",
		Style:   render.NewStyle(render.KeyColor, "#142d2d", render.KeyWeight, 0.2, render.KeyDashArray, "5 5"),
	})
	doc.AddLayer(render.LayerLabels, false).Add(render.Text{
		At: r2.Point{X: 1, Y: 2}, Content: "A1", SizePx: r2.Point{X: 21.328, Y: 10.664}, CSS: "color: black;",
	})
	doc.AddLayer(render.LayerMarkers, true).Add(render.Marker{
		At: r2.Point{X: -3.5, Y: 7}, Popup: "<b>hi</b>", Style: render.NewStyle(render.KeyRadius, 0.5, render.KeyFill, true),
	})
	doc.AddLayer(render.LayerImages, true).Add(render.Image{
		Rect: geom.Rect(r2.Point{X: 0, Y: 0}, r2.Point{X: 4, Y: 3}), URI: "data:image/jpeg;base64,AAAA", Alt: "die.png",
	})
	doc.AddLayer(render.LayerVectors, true).Add(render.Polyline{
		Points: []r2.Point{{X: 0, Y: 0}, {X: 1.25, Y: -0.5}}, Style: render.NewStyle(render.KeyColor, "#009900"),
	})
	return doc
}

func TestRoundTrip(t *testing.T) {
	want := sampleDocument()

	var buf bytes.Buffer
	if err := NewEncoder().Encode(&buf, want); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "(wafermap\n  (version 1)") {
		t.Errorf("Unexpected header:\n%.60s", buf.String())
	}

	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if got.Title != want.Title || got.Radius != 100 || got.EdgeExclusion != 3 || got.NotchOrientation != 270 || got.Background != "#ffffff" {
		t.Errorf("Header mismatch: %+v", got)
	}
	if len(got.Layers) != len(want.Layers) {
		t.Fatalf("Expected %d layers, got %d", len(want.Layers), len(got.Layers))
	}
	for i, wl := range want.Layers {
		gl := got.Layers[i]
		if gl.Name != wl.Name || gl.Visible != wl.Visible || len(gl.Items) != len(wl.Items) {
			t.Fatalf("Layer %d mismatch: %s/%v/%d vs %s/%v/%d", i, gl.Name, gl.Visible, len(gl.Items), wl.Name, wl.Visible, len(wl.Items))
		}
		for j := range wl.Items {
			if !samePrimitive(gl.Items[j], wl.Items[j]) {
				t.Errorf("Layer %s item %d: got %+v, want %+v", wl.Name, j, gl.Items[j], wl.Items[j])
			}
		}
	}
}

func samePrimitive(a, b render.Primitive) bool {
	switch x := a.(type) {
	case render.Circle:
		y := b.(render.Circle)
		return x.Center == y.Center && x.Radius == y.Radius && x.Style.Equal(y.Style)
	case render.Polygon:
		y := b.(render.Polygon)
		return samePoints(x.Points, y.Points) && x.Style.Equal(y.Style)
	case render.Polyline:
		y := b.(render.Polyline)
		return samePoints(x.Points, y.Points) && x.Style.Equal(y.Style)
	case render.Rectangle:
		y := b.(render.Rectangle)
		return x.Rect == y.Rect && x.Tooltip == y.Tooltip && x.Style.Equal(y.Style)
	case render.Marker:
		y := b.(render.Marker)
		return x.At == y.At && x.Popup == y.Popup && x.Style.Equal(y.Style)
	case render.Text:
		return x == b.(render.Text)
	case render.Image:
		y := b.(render.Image)
		return x.Rect == y.Rect && x.URI == y.URI && x.Alt == y.Alt && x.Style.Equal(y.Style)
	}
	return false
}

func samePoints(a, b []r2.Point) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not sexp", "(wafermap"},
		{"wrong root", "(board (version 1))"},
		{"two roots", "(wafermap (version 1)) (x)"},
		{"no version", `(wafermap (wafer (radius 1) (edge_exclusion 0) (notch 0)))`},
		{"future version", `(wafermap (version 2) (wafer (radius 1) (edge_exclusion 0) (notch 0)))`},
		{"fractional version", `(wafermap (version 1.5) (wafer (radius 1) (edge_exclusion 0) (notch 0)))`},
		{"no wafer", `(wafermap (version 1))`},
		{"bad radius", `(wafermap (version 1) (wafer (radius big) (edge_exclusion 0) (notch 0)))`},
		{"unknown item", `(wafermap (version 1) (wafer (radius 1) (edge_exclusion 0) (notch 0)) (layer "x" (visible yes) (blob)))`},
		{"bad visible", `(wafermap (version 1) (wafer (radius 1) (edge_exclusion 0) (notch 0)) (layer "x" (visible maybe)))`},
		{"missing point", `(wafermap (version 1) (wafer (radius 1) (edge_exclusion 0) (notch 0)) (layer "x" (marker (style))))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			if !errors.Is(err, ErrFormat) {
				t.Errorf("Expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestDecodeHandWritten(t *testing.T) {
	input := `; a hand-written map
(wafermap (version 1)
  (wafer (radius 50) (edge_exclusion 0) (notch 90))
  (layer "markers"
    (marker (at 1 2) (style (color "red") (radius 3)))))`

	doc, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	l := doc.Layer(render.LayerMarkers)
	if l == nil || !l.Visible || len(l.Items) != 1 {
		t.Fatalf("Unexpected markers layer %+v", l)
	}
	m := l.Items[0].(render.Marker)
	if m.RadiusPx() != 3 || m.Style.StrokeColor() != "red" {
		t.Errorf("Unexpected marker %+v", m)
	}
	if doc.Background != "#ffffff" {
		t.Errorf("Expected default background, got %s", doc.Background)
	}
}
