package htmlmap

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/render"
)

func sampleDocument() *render.Document {
	doc := render.NewDocument("lot <7>", 50)
	doc.AddLayer(render.LayerWafer, true).Add(render.Circle{Radius: 50, Style: render.NewStyle(render.KeyColor, "#000000")})
	doc.AddLayer(render.LayerGrid, true).Add(render.Rectangle{
		Rect:    r2.RectFromPoints(r2.Point{X: 1, Y: 2}, r2.Point{X: 11, Y: 22}),
		Style:   render.NewStyle(render.KeyWeight, 0.2),
		Tooltip: "(0, 0)",
	})
	doc.AddLayer(render.LayerLabels, true).Add(render.Text{
		At: r2.Point{X: 3, Y: 4}, Content: "a<b", SizePx: r2.Point{X: 20, Y: 10}, CSS: "color: red",
	})
	doc.AddLayer(render.LayerMarkers, true).Add(render.Marker{At: r2.Point{X: 5, Y: -6}, Popup: "</script><b>x</b>"})
	doc.AddLayer(render.LayerVectors, true).Add(render.Polyline{Points: []r2.Point{{X: 0, Y: 1}, {X: 2, Y: 3}}})
	return doc
}

func decodeWafer(t *testing.T, page string) waferJSON {
	t.Helper()
	const prefix = "var wafer = "
	i := strings.Index(page, prefix)
	if i < 0 {
		t.Fatal("Wafer data not found in page")
	}
	rest := page[i+len(prefix):]
	end := strings.Index(rest, ";\n")
	var w waferJSON
	if err := json.Unmarshal([]byte(rest[:end]), &w); err != nil {
		t.Fatalf("Embedded JSON does not parse: %v", err)
	}
	return w
}

func TestEncodePage(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder().Encode(&buf, sampleDocument()); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	page := buf.String()

	for _, want := range []string{"<title>lot &lt;7&gt;</title>", "L.CRS.Simple", DefaultLeafletJS, "Wafer Coordinates: "} {
		if !strings.Contains(page, want) {
			t.Errorf("Page is missing %q", want)
		}
	}
	if strings.Count(page, "</script>") != 2 {
		t.Error("Popup text escaped its script block")
	}

	w := decodeWafer(t, page)
	if w.Bounds != [2][2]float64{{-50, -50}, {50, 50}} || w.Padding != 100 || !w.ZoomControl {
		t.Errorf("Unexpected page settings %+v", w)
	}
	if len(w.Layers) != 5 {
		t.Fatalf("Expected 5 layers, got %d", len(w.Layers))
	}
	if w.Layers[0].Control {
		t.Error("Expected the wafer layer to stay out of the layer control")
	}

	rect := w.Layers[1].Items[0]
	if *rect.Bounds != [2][2]float64{{2, 1}, {22, 11}} {
		t.Errorf("Expected [y, x] bounds, got %v", *rect.Bounds)
	}
	if rect.Tooltip != "(0, 0)" || rect.Options["weight"] != 0.2 {
		t.Errorf("Unexpected rect %+v", rect)
	}

	labels := w.Layers[2]
	if labels.Show {
		t.Error("Expected labels hidden in HTML output")
	}
	text := labels.Items[0]
	if text.HTML != `<div style="color: red">a&lt;b</div>` {
		t.Errorf("Unexpected label html %q", text.HTML)
	}
	if *text.IconAnchor != [2]float64{10, 5} {
		t.Errorf("Expected centered anchor, got %v", *text.IconAnchor)
	}

	marker := w.Layers[3].Items[0]
	if *marker.LatLng != [2]float64{-6, 5} {
		t.Errorf("Expected [y, x] marker, got %v", *marker.LatLng)
	}
	if line := w.Layers[4].Items[0]; line.LatLngs[1] != [2]float64{3, 2} {
		t.Errorf("Expected [y, x] polyline, got %v", line.LatLngs)
	}
}

func TestEncodeLayerOverrides(t *testing.T) {
	enc := NewEncoder()
	enc.Layers.SetVisible(render.LayerLabels, true)
	enc.ZoomControl = false

	var buf bytes.Buffer
	if err := enc.Encode(&buf, sampleDocument()); err != nil {
		t.Fatal(err)
	}
	w := decodeWafer(t, buf.String())
	if !w.Layers[2].Show || w.ZoomControl {
		t.Errorf("Expected overrides to apply, got show=%v zoom=%v", w.Layers[2].Show, w.ZoomControl)
	}
}

type blob struct{}

func (blob) Kind() render.Kind { return render.Kind(99) }
func (blob) Bounds() r2.Rect   { return r2.EmptyRect() }

func TestEncodeUnsupportedPrimitive(t *testing.T) {
	doc := render.NewDocument("", 1)
	doc.AddLayer("odd", true).Add(blob{})
	if err := NewEncoder().Encode(&bytes.Buffer{}, doc); err == nil {
		t.Error("Expected error for unknown primitive")
	}
}
