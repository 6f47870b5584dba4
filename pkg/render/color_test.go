package render

import (
	"errors"
	"image/color"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
	}{
		{"#ff4d4d", color.NRGBA{R: 0xff, G: 0x4d, B: 0x4d, A: 0xff}},
		{"#142D2D", color.NRGBA{R: 0x14, G: 0x2d, B: 0x2d, A: 0xff}},
		{"#0f0", color.NRGBA{G: 0xff, A: 0xff}},
		{"#00000080", color.NRGBA{A: 0x80}},
		{"black", color.NRGBA{A: 0xff}},
		{"Red", color.NRGBA{R: 0xff, A: 0xff}},
	}

	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil {
			t.Errorf("ParseColor(%q) failed: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q): expected %v, got %v", tt.in, tt.want, got)
		}
	}

	for _, bad := range []string{"", "#12", "#gggggg", "notacolor"} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrBadColor) {
			t.Errorf("ParseColor(%q): expected ErrBadColor, got %v", bad, err)
		}
	}
}

func TestStyleColors(t *testing.T) {
	s := NewStyle(KeyColor, "#ff0000", KeyOpacity, 0.5, KeyFillOpacity, 1)
	if got := s.StrokeNRGBA(); got.R != 0xff || got.A != 128 {
		t.Errorf("Unexpected stroke color %v", got)
	}
	if got := s.FillNRGBA(); got.R != 0xff || got.A != 0xff {
		t.Errorf("Unexpected fill color %v", got)
	}
}
