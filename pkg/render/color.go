package render

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ErrBadColor is returned for color strings ParseColor cannot read.
var ErrBadColor = errors.New("render: invalid color")

// ParseColor reads "#rgb", "#rrggbb", "#rrggbbaa" or an SVG color name
// ("red", "black", ...).
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("%w: empty", ErrBadColor)
	}
	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[strings.ToLower(s)]
		if !ok {
			return color.NRGBA{}, fmt.Errorf("%w: unknown name %q", ErrBadColor, s)
		}
		return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// ColorOr parses s and falls back to def on error.
func ColorOr(s string, def color.NRGBA) color.NRGBA {
	c, err := ParseColor(s)
	if err != nil {
		return def
	}
	return c
}

// WithOpacity scales the alpha of c by opacity in [0, 1].
func WithOpacity(c color.NRGBA, opacity float64) color.NRGBA {
	opacity = math.Max(0, math.Min(1, opacity))
	c.A = uint8(math.Round(float64(c.A) * opacity))
	return c
}

// StrokeNRGBA resolves the stroke color and opacity of s.
func (s Style) StrokeNRGBA() color.NRGBA {
	return WithOpacity(ColorOr(s.StrokeColor(), color.NRGBA{R: 0x33, G: 0x88, B: 0xff, A: 0xff}), s.Opacity())
}

// FillNRGBA resolves the fill color and fill opacity of s.
func (s Style) FillNRGBA() color.NRGBA {
	return WithOpacity(ColorOr(s.FillColor(), color.NRGBA{R: 0x33, G: 0x88, B: 0xff, A: 0xff}), s.FillOpacity())
}
