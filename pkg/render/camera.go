package render

import (
	"math"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/r2"
)

// Camera is a viewport onto wafer coordinates (mm, Y up).
type Camera struct {
	// Center position in world coordinates
	CenterX float64
	CenterY float64

	// Zoom level (pixels per world unit)
	Zoom float64

	// Screen dimensions (pixels)
	ScreenWidth  int
	ScreenHeight int

	// View controls
	FlipView bool    // mirrored view
	Rotation float64 // degrees
	InvertY  bool    // world Y grows up while screen Y grows down

	// View rotates/flips around this world point
	RotationCenterX float64
	RotationCenterY float64
}

// NewCamera creates a camera for a Y-up world.
func NewCamera(screenWidth, screenHeight int) *Camera {
	return &Camera{
		Zoom:         1.0,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
		InvertY:      true,
	}
}

// WorldToScreen converts world coordinates to screen pixels.
func (c *Camera) WorldToScreen(pos r2.Point) (float64, float64) {
	pos = c.applyViewTransform(pos)

	x := (pos.X - c.CenterX) * c.Zoom
	y := (pos.Y - c.CenterY) * c.Zoom

	x += float64(c.ScreenWidth) / 2.0
	y += float64(c.ScreenHeight) / 2.0

	if c.InvertY {
		y = float64(c.ScreenHeight) - y
	}

	return x, y
}

// ScreenToWorld converts screen pixels to world coordinates.
func (c *Camera) ScreenToWorld(screenX, screenY float64) r2.Point {
	y := screenY
	if c.InvertY {
		y = float64(c.ScreenHeight) - screenY
	}

	x := screenX - float64(c.ScreenWidth)/2.0
	y = y - float64(c.ScreenHeight)/2.0

	x = x/c.Zoom + c.CenterX
	y = y/c.Zoom + c.CenterY

	return c.applyInverseViewTransform(r2.Point{X: x, Y: y})
}

// Pan moves the camera by screen pixel offsets.
func (c *Camera) Pan(deltaX, deltaY float64) {
	c.CenterX -= deltaX / c.Zoom
	if c.InvertY {
		c.CenterY += deltaY / c.Zoom
	} else {
		c.CenterY -= deltaY / c.Zoom
	}
}

// ZoomAt zooms by factor keeping the world point under (screenX, screenY)
// fixed. factor > 1 zooms in.
func (c *Camera) ZoomAt(screenX, screenY, factor float64) {
	before := c.ScreenToWorld(screenX, screenY)

	c.Zoom *= factor
	if c.Zoom < 0.01 {
		c.Zoom = 0.01
	}
	if c.Zoom > 10000.0 {
		c.Zoom = 10000.0
	}

	after := c.ScreenToWorld(screenX, screenY)
	c.CenterX += before.X - after.X
	c.CenterY += before.Y - after.Y
}

// Fit centers bbox and zooms so it fills 90% of the screen.
func (c *Camera) Fit(bbox r2.Rect) {
	w, h := float64(c.ScreenWidth)*0.1, float64(c.ScreenHeight)*0.1
	c.fit(bbox, w/2, h/2)
}

// FitPadded centers bbox and zooms so it fills the screen minus padding
// pixels on every side.
func (c *Camera) FitPadded(bbox r2.Rect, padding float64) {
	c.fit(bbox, padding, padding)
}

func (c *Camera) fit(bbox r2.Rect, padX, padY float64) {
	width := bbox.X.Length()
	height := bbox.Y.Length()
	if width <= 0 || height <= 0 {
		return
	}

	center := bbox.Center()
	c.CenterX, c.CenterY = center.X, center.Y
	c.RotationCenterX, c.RotationCenterY = center.X, center.Y

	zoomX := (float64(c.ScreenWidth) - 2*padX) / width
	zoomY := (float64(c.ScreenHeight) - 2*padY) / height
	c.Zoom = math.Min(zoomX, zoomY)
}

// UpdateScreenSize updates the camera when the window is resized.
func (c *Camera) UpdateScreenSize(width, height int) {
	c.ScreenWidth = width
	c.ScreenHeight = height
}

// Flip toggles the mirrored view.
func (c *Camera) Flip() {
	c.FlipView = !c.FlipView
}

// Rotate rotates the view by degrees, keeping Rotation in [0, 360).
func (c *Camera) Rotate(degrees float64) {
	c.Rotation = math.Mod(c.Rotation+degrees, 360)
	if c.Rotation < 0 {
		c.Rotation += 360
	}
}

func (c *Camera) applyViewTransform(pos r2.Point) r2.Point {
	x := pos.X - c.RotationCenterX
	y := pos.Y - c.RotationCenterY

	if c.Rotation != 0 {
		rad := c.Rotation * math.Pi / 180.0
		cos, sin := math.Cos(rad), math.Sin(rad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	if c.FlipView {
		x = -x
	}

	return r2.Point{X: x + c.RotationCenterX, Y: y + c.RotationCenterY}
}

func (c *Camera) applyInverseViewTransform(pos r2.Point) r2.Point {
	x := pos.X - c.RotationCenterX
	y := pos.Y - c.RotationCenterY

	// inverse flip first, then inverse rotation
	if c.FlipView {
		x = -x
	}

	if c.Rotation != 0 {
		rad := -c.Rotation * math.Pi / 180.0
		cos, sin := math.Cos(rad), math.Sin(rad)
		x, y = x*cos-y*sin, x*sin+y*cos
	}

	return r2.Point{X: x + c.RotationCenterX, Y: y + c.RotationCenterY}
}

// VisibleBounds returns the world rectangle covered by the screen.
func (c *Camera) VisibleBounds() r2.Rect {
	corners := []r2.Point{
		c.ScreenToWorld(0, 0),
		c.ScreenToWorld(float64(c.ScreenWidth), 0),
		c.ScreenToWorld(0, float64(c.ScreenHeight)),
		c.ScreenToWorld(float64(c.ScreenWidth), float64(c.ScreenHeight)),
	}
	return r2.RectFromPoints(corners...)
}

// ScreenRect maps a world rectangle to the screen box spanned by its
// lower-left and upper-right corners. View rotation is not accounted for.
func (c *Camera) ScreenRect(r r2.Rect) r2.Rect {
	x0, y0 := c.WorldToScreen(r.Lo())
	x1, y1 := c.WorldToScreen(r.Hi())
	return r2.Rect{
		X: r1.Interval{Lo: math.Min(x0, x1), Hi: math.Max(x0, x1)},
		Y: r1.Interval{Lo: math.Min(y0, y1), Hi: math.Max(y0, y1)},
	}
}
