// Package gioview shows a render.Document in an interactive Gio view.
//
// Controls:
//
//	arrows       pan
//	scroll, +/-  zoom
//	drag         pan
//	R            rotate 90 degrees
//	F            flip
//	Space        fit the wafer
//	1-8          toggle layers in drawing order
//	Q, Escape    quit
package gioview

import (
	"image"
	"image/color"
	"io"
	"log"

	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/imagefile"
	"github.com/cap1tan/wafermap/pkg/render"
)

const (
	panStep    = 50.0
	zoomStep   = 1.25
	fitPadding = 40.0
)

// Viewer holds the view state of one document.
type Viewer struct {
	doc    *render.Document
	cam    *render.Camera
	layers *render.LayerConfig
	shaper *text.Shaper
	images *imageCache
	logger *log.Logger

	dragging bool
	last     r2.Point
}

// New creates a viewer for doc fitted to a width×height screen. Labels are
// shown and cell labels hidden, as in the PNG output.
func New(doc *render.Document, width, height int, logger *log.Logger) *Viewer {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	layers := render.NewLayerConfig()
	layers.SetVisible(render.LayerLabels, true)
	layers.SetVisible(render.LayerCellLabels, false)

	v := &Viewer{
		doc:    doc,
		cam:    render.NewCamera(width, height),
		layers: layers,
		logger: logger,
	}
	v.images = &imageCache{logger: logger, decoded: make(map[string]image.Image)}
	v.Fit()
	return v
}

func (v *Viewer) Camera() *render.Camera      { return v.cam }
func (v *Viewer) Layers() *render.LayerConfig { return v.layers }

// Fit centers the wafer and zooms to show all of it.
func (v *Viewer) Fit() {
	r := v.doc.Radius
	v.cam.FitPadded(r2.RectFromPoints(r2.Point{X: -r, Y: -r}, r2.Point{X: r, Y: r}), fitPadding)
}

// HandleKey applies a key press and reports whether the view should close.
func (v *Viewer) HandleKey(name key.Name) bool {
	switch name {
	case key.NameEscape, "Q":
		return true
	case "F":
		v.cam.Flip()
	case "R":
		v.cam.Rotate(90)
	case key.NameSpace:
		v.Fit()
	case key.NameLeftArrow:
		v.cam.Pan(panStep, 0)
	case key.NameRightArrow:
		v.cam.Pan(-panStep, 0)
	case key.NameUpArrow:
		v.cam.Pan(0, panStep)
	case key.NameDownArrow:
		v.cam.Pan(0, -panStep)
	case "+", "=":
		v.zoomCenter(zoomStep)
	case "-":
		v.zoomCenter(1 / zoomStep)
	default:
		if n := layerKey(name); n >= 0 && n < len(v.doc.Layers) {
			l := v.doc.Layers[n]
			v.layers.Toggle(l)
			v.logger.Printf("layer %q visible=%v", l.Name, v.layers.IsVisible(l))
		}
	}
	return false
}

// layerKey maps "1".."9" to a zero-based layer index, or -1.
func layerKey(name key.Name) int {
	if len(name) == 1 && name[0] >= '1' && name[0] <= '9' {
		return int(name[0] - '1')
	}
	return -1
}

func (v *Viewer) zoomCenter(factor float64) {
	v.cam.ZoomAt(float64(v.cam.ScreenWidth)/2, float64(v.cam.ScreenHeight)/2, factor)
}

// HandlePointer applies a pointer event. Scrolling zooms at the cursor
// and dragging pans.
func (v *Viewer) HandlePointer(e pointer.Event) {
	pos := r2.Point{X: float64(e.Position.X), Y: float64(e.Position.Y)}
	switch e.Kind {
	case pointer.Scroll:
		factor := 1.0 - float64(e.Scroll.Y)*0.1
		if factor > 0 {
			v.cam.ZoomAt(pos.X, pos.Y, factor)
		}
	case pointer.Press:
		v.dragging, v.last = true, pos
	case pointer.Drag:
		if v.dragging {
			d := pos.Sub(v.last)
			v.cam.Pan(d.X, d.Y)
			v.last = pos
		}
	case pointer.Release, pointer.Cancel:
		v.dragging = false
	}
}

// Frame processes pending input and draws the document. It reports
// whether the view should close.
func (v *Viewer) Frame(gtx layout.Context) bool {
	v.cam.UpdateScreenSize(gtx.Constraints.Max.X, gtx.Constraints.Max.Y)

	area := clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops)
	event.Op(gtx.Ops, v)
	area.Pop()

	for {
		ev, ok := gtx.Event(key.Filter{})
		if !ok {
			break
		}
		if ke, ok := ev.(key.Event); ok && ke.State == key.Press {
			if v.HandleKey(ke.Name) {
				return true
			}
		}
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  v,
			Kinds:   pointer.Scroll | pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
			ScrollY: pointer.ScrollRange{Min: -100, Max: 100},
		})
		if !ok {
			break
		}
		if pe, ok := ev.(pointer.Event); ok {
			v.HandlePointer(pe)
		}
	}

	v.Draw(gtx)
	return false
}

// Draw paints the background and every visible layer.
func (v *Viewer) Draw(gtx layout.Context) {
	paint.Fill(gtx.Ops, render.ColorOr(v.doc.Background, color.NRGBA{R: 255, G: 255, B: 255, A: 255}))
	if v.shaper == nil {
		v.shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	}
	p := &painter{gtx: gtx, cam: v.cam, shaper: v.shaper, images: v.images}
	for _, l := range v.doc.Layers {
		if !v.layers.IsVisible(l) {
			continue
		}
		for _, item := range l.Items {
			p.draw(item)
		}
	}
}

// imageCache decodes overlay data URIs once. Failures are cached as nil.
type imageCache struct {
	logger  *log.Logger
	decoded map[string]image.Image
}

func (c *imageCache) get(uri string) image.Image {
	if img, ok := c.decoded[uri]; ok {
		return img
	}
	img, err := imagefile.DecodeDataURI(uri)
	if err != nil {
		c.logger.Printf("skipping image overlay: %v", err)
	}
	c.decoded[uri] = img
	return img
}
