package gioview

import (
	"image"
	"image/color"
	"math"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/render"
)

// painter draws document primitives into a Gio frame.
type painter struct {
	gtx    layout.Context
	cam    *render.Camera
	shaper *text.Shaper
	images *imageCache
}

func (p *painter) screen(pt r2.Point) f32.Point {
	x, y := p.cam.WorldToScreen(pt)
	return f32.Pt(float32(x), float32(y))
}

func (p *painter) draw(item render.Primitive) {
	switch v := item.(type) {
	case render.Circle:
		p.circle(p.screen(v.Center), v.Radius*p.cam.Zoom, v.Style)
	case render.Marker:
		p.circle(p.screen(v.At), v.RadiusPx(), v.Style)
	case render.Polygon:
		p.path(v.Points, v.Style, true)
	case render.Polyline:
		p.path(v.Points, v.Style, false)
	case render.Rectangle:
		lo, hi := v.Rect.Lo(), v.Rect.Hi()
		p.path([]r2.Point{lo, {X: hi.X, Y: lo.Y}, hi, {X: lo.X, Y: hi.Y}}, v.Style, true)
	case render.Text:
		p.label(v)
	case render.Image:
		p.image(v)
	}
}

// circle renders a circle of radius px around center.
func (p *painter) circle(center f32.Point, radius float64, s render.Style) {
	if radius <= 0 {
		return
	}
	r := float32(radius)
	rect := image.Rectangle{
		Min: image.Pt(int(center.X-r), int(center.Y-r)),
		Max: image.Pt(int(math.Ceil(float64(center.X+r))), int(math.Ceil(float64(center.Y+r)))),
	}
	ellipse := clip.Ellipse(rect)
	if s.Filled() {
		paint.FillShape(p.gtx.Ops, s.FillNRGBA(), ellipse.Op(p.gtx.Ops))
	}
	p.stroke(ellipse.Path(p.gtx.Ops), s)
}

// path renders a polygon or polyline through the screen positions of pts.
func (p *painter) path(pts []r2.Point, s render.Style, closed bool) {
	if len(pts) < 2 {
		return
	}
	build := func() clip.PathSpec {
		var path clip.Path
		path.Begin(p.gtx.Ops)
		path.MoveTo(p.screen(pts[0]))
		for _, pt := range pts[1:] {
			path.LineTo(p.screen(pt))
		}
		if closed {
			path.Close()
		}
		return path.End()
	}
	if closed && s.Filled() {
		paint.FillShape(p.gtx.Ops, s.FillNRGBA(), clip.Outline{Path: build()}.Op())
	}
	p.stroke(build(), s)
}

func (p *painter) stroke(spec clip.PathSpec, s render.Style) {
	if !s.Stroked() || s.Weight() <= 0 {
		return
	}
	stroke := clip.Stroke{
		Path:  spec,
		Width: float32(s.Weight()),
	}.Op()
	paint.FillShape(p.gtx.Ops, s.StrokeNRGBA(), stroke)
}

// label renders text centered in its pixel box at the anchor.
func (p *painter) label(t render.Text) {
	if t.Content == "" {
		return
	}
	at := p.screen(t.At)
	w, h := int(math.Ceil(t.SizePx.X)), int(math.Ceil(t.SizePx.Y))
	if w <= 0 || h <= 0 {
		return
	}

	macro := op.Record(p.gtx.Ops)
	stack := op.Offset(image.Pt(int(at.X)-w/2, int(at.Y)-h/2)).Push(p.gtx.Ops)

	colorMacro := op.Record(p.gtx.Ops)
	paint.ColorOp{Color: cssColor(t.CSS)}.Add(p.gtx.Ops)
	material := colorMacro.Stop()

	gtx := p.gtx
	gtx.Constraints = layout.Exact(image.Pt(w, h))
	label := widget.Label{
		Alignment: text.Middle,
		MaxLines:  1,
	}
	label.Layout(gtx, p.shaper, font.Font{}, unit.Sp(float32(render.LabelFontPx(t.CSS))), t.Content, material)

	stack.Pop()
	call := macro.Stop()
	call.Add(p.gtx.Ops)
}

// image paints an overlay scaled into its screen rectangle.
func (p *painter) image(im render.Image) {
	img := p.images.get(im.URI)
	if img == nil {
		return
	}
	r := p.cam.ScreenRect(im.Rect)
	size := img.Bounds().Size()
	if size.X == 0 || size.Y == 0 || r.IsEmpty() {
		return
	}
	scale := f32.Pt(float32(r.X.Length())/float32(size.X), float32(r.Y.Length())/float32(size.Y))
	transform := f32.Affine2D{}.
		Scale(f32.Pt(0, 0), scale).
		Offset(f32.Pt(float32(r.X.Lo), float32(r.Y.Lo)))

	stack := op.Affine(transform).Push(p.gtx.Ops)
	defer stack.Pop()
	area := clip.Rect(image.Rectangle{Max: size}).Push(p.gtx.Ops)
	defer area.Pop()
	paint.NewImageOp(img).Add(p.gtx.Ops)
	paint.PaintOp{}.Add(p.gtx.Ops)
}

func cssColor(css string) color.NRGBA {
	return render.ColorOr(render.CSSValue(css, "color"), color.NRGBA{A: 255})
}
