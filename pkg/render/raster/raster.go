// Package raster draws a render.Document into a PNG image. The wafer square
// is fitted into a fixed canvas with a pixel margin on every side, and the
// margin is cropped from the result.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/imagefile"
	"github.com/cap1tan/wafermap/pkg/render"
)

// Encoder renders PNG images.
type Encoder struct {
	Size    int // canvas edge in pixels, before cropping
	Padding int // pixels cropped from every side
	Layers  *render.LayerConfig
}

// NewEncoder returns a 1000px canvas with 100px padding that shows the
// labels layer and hides the cell labels.
func NewEncoder() *Encoder {
	layers := render.NewLayerConfig()
	layers.SetVisible(render.LayerLabels, true)
	layers.SetVisible(render.LayerCellLabels, false)
	return &Encoder{Size: 1000, Padding: 100, Layers: layers}
}

// Encode writes doc as a PNG.
func (e *Encoder) Encode(w io.Writer, doc *render.Document) error {
	img, err := e.Render(doc)
	if err != nil {
		return err
	}
	return png.Encode(w, img)
}

// Render draws doc and returns the cropped image.
func (e *Encoder) Render(doc *render.Document) (*image.RGBA, error) {
	if e.Size <= 2*e.Padding {
		return nil, fmt.Errorf("raster: size %d leaves no room inside padding %d", e.Size, e.Padding)
	}

	cam := render.NewCamera(e.Size, e.Size)
	r := doc.Radius
	cam.FitPadded(r2.RectFromPoints(r2.Point{X: -r, Y: -r}, r2.Point{X: r, Y: r}), float64(e.Padding))

	c := newCanvas(e.Size, cam)
	draw.Draw(c.img, c.img.Bounds(), image.NewUniform(render.ColorOr(doc.Background, color.NRGBA{R: 255, G: 255, B: 255, A: 255})), image.Point{}, draw.Src)

	for _, l := range doc.Layers {
		if !e.Layers.IsVisible(l) {
			continue
		}
		for _, it := range l.Items {
			if err := c.draw(it); err != nil {
				return nil, fmt.Errorf("raster: layer %q: %w", l.Name, err)
			}
		}
	}

	crop := image.Rect(e.Padding, e.Padding, e.Size-e.Padding, e.Size-e.Padding)
	out := image.NewRGBA(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(out, out.Bounds(), c.img, crop.Min, draw.Src)
	return out, nil
}

type canvas struct {
	img *image.RGBA
	cam *render.Camera
	z   *vector.Rasterizer
}

func newCanvas(size int, cam *render.Camera) *canvas {
	return &canvas{
		img: image.NewRGBA(image.Rect(0, 0, size, size)),
		cam: cam,
		z:   vector.NewRasterizer(size, size),
	}
}

func (c *canvas) screen(p r2.Point) r2.Point {
	x, y := c.cam.WorldToScreen(p)
	return r2.Point{X: x, Y: y}
}

func (c *canvas) draw(p render.Primitive) error {
	switch v := p.(type) {
	case render.Circle:
		c.circle(c.screen(v.Center), v.Radius*c.cam.Zoom, v.Style)
	case render.Marker:
		c.circle(c.screen(v.At), v.RadiusPx(), v.Style)
	case render.Polygon:
		c.shape(c.screenAll(v.Points), v.Style, true)
	case render.Polyline:
		c.shape(c.screenAll(v.Points), v.Style, false)
	case render.Rectangle:
		lo, hi := v.Rect.Lo(), v.Rect.Hi()
		corners := []r2.Point{lo, {X: hi.X, Y: lo.Y}, hi, {X: lo.X, Y: hi.Y}}
		c.shape(c.screenAll(corners), v.Style, true)
	case render.Text:
		c.text(v)
	case render.Image:
		return c.image(v)
	default:
		return fmt.Errorf("unsupported primitive %T", p)
	}
	return nil
}

func (c *canvas) screenAll(pts []r2.Point) []r2.Point {
	out := make([]r2.Point, len(pts))
	for i, p := range pts {
		out[i] = c.screen(p)
	}
	return out
}

// circle draws a circle of radius px.
func (c *canvas) circle(center r2.Point, radius float64, s render.Style) {
	if radius <= 0 {
		return
	}
	n := int(math.Max(16, math.Min(360, radius)))
	pts := make([]r2.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = r2.Point{X: center.X + radius*math.Cos(a), Y: center.Y + radius*math.Sin(a)}
	}
	c.shape(pts, s, true)
}

// shape fills and strokes a path. Only closed shapes are filled.
func (c *canvas) shape(pts []r2.Point, s render.Style, closed bool) {
	if len(pts) < 2 {
		return
	}
	if closed && s.Filled() {
		c.fill([][]r2.Point{pts}, s.FillNRGBA())
	}
	if s.Stroked() {
		c.stroke(pts, closed, s.Weight(), s.StrokeNRGBA())
	}
}

func (c *canvas) fill(rings [][]r2.Point, col color.NRGBA) {
	b := c.img.Bounds()
	c.z.Reset(b.Dx(), b.Dy())
	for _, ring := range rings {
		c.z.MoveTo(float32(ring[0].X), float32(ring[0].Y))
		for _, p := range ring[1:] {
			c.z.LineTo(float32(p.X), float32(p.Y))
		}
		c.z.ClosePath()
	}
	c.z.Draw(c.img, b, image.NewUniform(col), image.Point{})
}

// stroke outlines a path with width px by filling one quad per segment.
func (c *canvas) stroke(pts []r2.Point, closed bool, width float64, col color.NRGBA) {
	if width <= 0 || col.A == 0 {
		return
	}
	width = math.Max(width, 1)
	if closed {
		pts = append(append([]r2.Point(nil), pts...), pts[0])
	}
	var quads [][]r2.Point
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		d := b.Sub(a)
		if d.Norm() == 0 {
			continue
		}
		n := d.Ortho().Normalize().Mul(width / 2)
		quads = append(quads, []r2.Point{a.Add(n), b.Add(n), b.Sub(n), a.Sub(n)})
	}
	if len(quads) > 0 {
		c.fill(quads, col)
	}
}

func (c *canvas) text(t render.Text) {
	if t.Content == "" {
		return
	}
	at := c.screen(t.At)
	face := basicfont.Face7x13
	width := font.MeasureString(face, t.Content).Ceil()
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(cssColor(t.CSS)),
		Face: face,
		Dot:  fixed.P(int(math.Round(at.X))-width/2, int(math.Round(at.Y))+face.Ascent/2),
	}
	d.DrawString(t.Content)
}

func (c *canvas) image(im render.Image) error {
	src, err := imagefile.DecodeDataURI(im.URI)
	if err != nil {
		return err
	}
	r := c.cam.ScreenRect(im.Rect)
	dst := image.Rect(
		int(math.Round(r.X.Lo)), int(math.Round(r.Y.Lo)),
		int(math.Round(r.X.Hi)), int(math.Round(r.Y.Hi)),
	)
	if dst.Empty() {
		return nil
	}
	draw.ApproxBiLinear.Scale(c.img, dst, src, src.Bounds(), draw.Over, nil)
	return nil
}

func cssColor(css string) color.NRGBA {
	return render.ColorOr(render.CSSValue(css, "color"), color.NRGBA{A: 255})
}
