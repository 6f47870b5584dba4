package render

import "testing"

func TestCSSValue(t *testing.T) {
	tests := []struct {
		css, prop, want string
	}{
		{"font-size: 8pt; color: black; text-align: center;", "color", "black"},
		{"COLOR:#ff0000", "color", "#ff0000"},
		{"color: red; color: blue", "color", "blue"},
		{"font-weight: bold", "color", ""},
		{"", "color", ""},
	}
	for _, tt := range tests {
		if got := CSSValue(tt.css, tt.prop); got != tt.want {
			t.Errorf("CSSValue(%q, %q): expected %q, got %q", tt.css, tt.prop, tt.want, got)
		}
	}
}

func TestLabelFontPx(t *testing.T) {
	tests := []struct {
		css  string
		want float64
	}{
		{"font-size: 8pt", 8 * PxPerPt},
		{"font-size: 12px; color: red", 12},
		{"font-size: 3em", DefaultFontPx},
		{"font-size: -2px", DefaultFontPx},
		{"color: red", DefaultFontPx},
	}
	for _, tt := range tests {
		if got := LabelFontPx(tt.css); !near(got, tt.want) {
			t.Errorf("LabelFontPx(%q): expected %v, got %v", tt.css, tt.want, got)
		}
	}
}
