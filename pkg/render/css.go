package render

import (
	"strconv"
	"strings"
)

// PxPerPt converts CSS points to pixels.
const PxPerPt = 1.333

// DefaultFontPx is the font size of a label without a font-size declaration.
const DefaultFontPx = 8 * PxPerPt

// CSSValue returns the value of the last declaration of prop in an inline
// style, or "" if there is none. Property names are case-insensitive.
func CSSValue(css, prop string) string {
	var value string
	for _, decl := range strings.Split(css, ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok && strings.EqualFold(strings.TrimSpace(k), prop) {
			value = strings.TrimSpace(v)
		}
	}
	return value
}

// LabelFontPx returns the font-size of an inline style in pixels. Sizes
// may be given in pt or px; anything else yields DefaultFontPx.
func LabelFontPx(css string) float64 {
	v := strings.ToLower(CSSValue(css, "font-size"))
	scale := 1.0
	switch {
	case strings.HasSuffix(v, "pt"):
		v, scale = strings.TrimSuffix(v, "pt"), PxPerPt
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	default:
		return DefaultFontPx
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || f <= 0 {
		return DefaultFontPx
	}
	return f * scale
}
