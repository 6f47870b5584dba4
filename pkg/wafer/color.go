package wafer

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

// RGB is a color with channels in [0, 1].
type RGB struct {
	R, G, B float64
}

var (
	White = RGB{1, 1, 1}
	Black = RGB{0, 0, 0}
)

// HTML formats c as "#rrggbb".
func (c RGB) HTML() string {
	return fmt.Sprintf("#%02x%02x%02x", channel(c.R), channel(c.G), channel(c.B))
}

// Invert returns the complementary color.
func (c RGB) Invert() RGB {
	return RGB{1 - c.R, 1 - c.G, 1 - c.B}
}

func channel(v float64) int {
	n := int(math.Round(v * 255))
	if n < 0 {
		return 0
	}
	if n > 255 {
		return 255
	}
	return n
}

func (c RGB) validate() error {
	for _, v := range []float64{c.R, c.G, c.B} {
		if math.IsNaN(v) || v < 0 || v > 1 {
			return &ConfigError{Field: "background", Value: c, Reason: "channels must be in [0, 1]"}
		}
	}
	return nil
}

// HSL converts hue, saturation and lightness in [0, 1] to RGB. Hue wraps
// around.
func HSL(h, s, l float64) RGB {
	if s == 0 {
		return RGB{l, l, l}
	}
	var m2 float64
	if l <= 0.5 {
		m2 = l * (1 + s)
	} else {
		m2 = l + s - l*s
	}
	m1 := 2*l - m2
	return RGB{
		R: hueChannel(m1, m2, h+1.0/3),
		G: hueChannel(m1, m2, h),
		B: hueChannel(m1, m2, h-1.0/3),
	}
}

func hueChannel(m1, m2, h float64) float64 {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	switch {
	case h < 1.0/6:
		return m1 + (m2-m1)*h*6
	case h < 0.5:
		return m2
	case h < 2.0/3:
		return m1 + (m2-m1)*(2.0/3-h)*6
	}
	return m1
}

// ErrColormap is returned by RandomColormap when no HSL channel is left
// free.
var ErrColormap = errors.New("wafer: colormap needs at least one free HSL channel")

// ColormapOptions pins HSL channels of a random colormap. Nil channels are
// drawn at random.
type ColormapOptions struct {
	Hue, Saturation, Lightness *float64
	// MinDistance is the smallest mean difference over the free channels
	// between two colors. Zero means 0.1.
	MinDistance float64
}

const colormapTries = 100

// RandomColormap draws n colors in HSL space. A color closer than
// MinDistance to an earlier one is drawn again, at most 100 times.
func RandomColormap(n int, rng *rand.Rand, opts ColormapOptions) ([]RGB, error) {
	pinned := []*float64{opts.Hue, opts.Saturation, opts.Lightness}
	free := 0
	for _, p := range pinned {
		if p == nil {
			free++
		}
	}
	if free == 0 {
		return nil, ErrColormap
	}
	minDist := opts.MinDistance
	if minDist <= 0 {
		minDist = 0.1
	}

	draw := func() [3]float64 {
		var c [3]float64
		for i, p := range pinned {
			if p != nil {
				c[i] = *p
			} else {
				c[i] = rng.Float64()
			}
		}
		return c
	}

	seen := make([][3]float64, 0, n)
	out := make([]RGB, 0, n)
	for range n {
		c := draw()
		for try := 0; try < colormapTries && tooClose(c, seen, minDist, free); try++ {
			c = draw()
		}
		seen = append(seen, c)
		out = append(out, HSL(c[0], c[1], c[2]))
	}
	return out, nil
}

func tooClose(c [3]float64, seen [][3]float64, minDist float64, free int) bool {
	for _, p := range seen {
		d := math.Abs(c[0]-p[0]) + math.Abs(c[1]-p[1]) + math.Abs(c[2]-p[2])
		if d/float64(free) < minDist {
			return true
		}
	}
	return false
}
