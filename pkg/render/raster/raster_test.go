package raster

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/geom"
	"github.com/cap1tan/wafermap/pkg/imagefile"
	"github.com/cap1tan/wafermap/pkg/render"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.RGBA{R: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
)

// nearColor tolerates antialiasing round-off.
func nearColor(a, b color.RGBA) bool {
	d := func(x, y uint8) bool { return x-y <= 2 || y-x <= 2 }
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func solid(c string) render.Style {
	return render.NewStyle(render.KeyColor, c, render.KeyFillColor, c, render.KeyFillOpacity, 1.0)
}

func pngURI(t *testing.T, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

// testDocument has a 100mm wafer, which maps to 4px/mm on the default canvas.
func testDocument(t *testing.T) *render.Document {
	doc := render.NewDocument("test", 100)
	vectors := doc.AddLayer(render.LayerVectors, true)
	vectors.Add(render.Polygon{
		Points: []r2.Point{{X: -50, Y: -50}, {X: 50, Y: -50}, {X: 50, Y: 50}, {X: -50, Y: 50}},
		Style:  solid("#ff0000"),
	})
	markers := doc.AddLayer(render.LayerMarkers, true)
	markers.Add(render.Marker{At: r2.Point{X: -75, Y: -75}, Style: solid("blue")})
	hidden := doc.AddLayer(render.LayerCellLabels, true)
	hidden.Add(render.Polygon{
		Points: []r2.Point{{X: 60, Y: 60}, {X: 90, Y: 60}, {X: 90, Y: 90}, {X: 60, Y: 90}},
		Style:  solid("#000000"),
	})
	images := doc.AddLayer(render.LayerImages, true)
	images.Add(render.Image{
		Rect: geom.Rect(r2.Point{X: -100, Y: 50}, r2.Point{X: -50, Y: 100}),
		URI:  pngURI(t, green),
	})
	return doc
}

func TestRender(t *testing.T) {
	img, err := NewEncoder().Render(testDocument(t))
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	if b := img.Bounds(); b.Dx() != 800 || b.Dy() != 800 {
		t.Fatalf("Expected 800x800 image, got %v", b)
	}

	tests := []struct {
		name string
		x, y int
		want color.RGBA
	}{
		{"center of filled square", 400, 400, red},
		{"background corner", 2, 797, white},
		{"marker center", 100, 700, blue},
		{"hidden cell label layer", 700, 100, white},
		{"image overlay", 100, 100, green},
	}
	for _, tt := range tests {
		if got := img.RGBAAt(tt.x, tt.y); !nearColor(got, tt.want) {
			t.Errorf("%s: expected %v at (%d, %d), got %v", tt.name, tt.want, tt.x, tt.y, got)
		}
	}
}

func TestRenderBackground(t *testing.T) {
	doc := render.NewDocument("bg", 10)
	doc.Background = "#000000"

	img, err := NewEncoder().Render(doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if got := img.RGBAAt(400, 400); got != (color.RGBA{A: 255}) {
		t.Errorf("Expected black background, got %v", got)
	}
}

func TestRenderStrokeOnly(t *testing.T) {
	doc := render.NewDocument("stroke", 100)
	doc.AddLayer(render.LayerWafer, true).Add(render.Circle{
		Radius: 50,
		Style:  render.NewStyle(render.KeyColor, "#ff0000", render.KeyWeight, 4.0, render.KeyFill, false),
	})

	img, err := NewEncoder().Render(doc)
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	// The circle edge passes through (600, 403) on the cropped canvas.
	if got := img.RGBAAt(600, 403); !nearColor(got, red) {
		t.Errorf("Expected red outline, got %v", got)
	}
	if got := img.RGBAAt(400, 400); !nearColor(got, white) {
		t.Errorf("Expected unfilled center, got %v", got)
	}
}

func TestRenderBadImage(t *testing.T) {
	doc := render.NewDocument("bad", 10)
	doc.AddLayer(render.LayerImages, true).Add(render.Image{
		Rect: geom.Rect(r2.Point{}, r2.Point{X: 1, Y: 1}),
		URI:  "not a data uri",
	})

	_, err := NewEncoder().Render(doc)
	if !errors.Is(err, imagefile.ErrDataURI) {
		t.Errorf("Expected ErrDataURI, got %v", err)
	}
}

func TestRenderPaddingTooLarge(t *testing.T) {
	enc := NewEncoder()
	enc.Padding = 500

	if _, err := enc.Render(render.NewDocument("x", 10)); err == nil {
		t.Error("Expected an error when padding swallows the canvas")
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := NewEncoder().Encode(&buf, testDocument(t)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if cfg.Width != 800 || cfg.Height != 800 {
		t.Errorf("Expected 800x800, got %dx%d", cfg.Width, cfg.Height)
	}
}

func TestCSSColor(t *testing.T) {
	tests := []struct {
		css  string
		want color.NRGBA
	}{
		{"font-size: 8pt; color: black; text-align: center;", color.NRGBA{A: 255}},
		{"color:#ff0000", color.NRGBA{R: 255, A: 255}},
		{"Color: blue", color.NRGBA{B: 255, A: 255}},
		{"font-weight: bold", color.NRGBA{A: 255}},
		{"color: nonsense", color.NRGBA{A: 255}},
	}
	for _, tt := range tests {
		if got := cssColor(tt.css); got != tt.want {
			t.Errorf("cssColor(%q): expected %v, got %v", tt.css, tt.want, got)
		}
	}
}
