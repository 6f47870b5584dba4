package wafer

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestHSL(t *testing.T) {
	tests := []struct {
		h, s, l float64
		want    string
	}{
		{0, 1, 0.5, "#ff0000"},
		{1.0 / 3, 1, 0.5, "#00ff00"},
		{2.0 / 3, 1, 0.5, "#0000ff"},
		{1, 1, 0.5, "#ff0000"},
		{0.5, 0, 0.5, "#808080"},
		{0, 0, 1, "#ffffff"},
		{0, 1, 0, "#000000"},
		{1.0 / 6, 1, 0.75, "#ffff80"},
	}
	for _, tt := range tests {
		if got := HSL(tt.h, tt.s, tt.l).HTML(); got != tt.want {
			t.Errorf("HSL(%.3f, %.3f, %.3f): expected %s, got %s", tt.h, tt.s, tt.l, tt.want, got)
		}
	}
}

func TestRandomColormap(t *testing.T) {
	lightness := 0.5
	saturation := 1.0
	opts := ColormapOptions{Saturation: &saturation, Lightness: &lightness}

	a, err := RandomColormap(8, rand.New(rand.NewPCG(7, 7)), opts)
	if err != nil {
		t.Fatalf("RandomColormap failed: %v", err)
	}
	b, _ := RandomColormap(8, rand.New(rand.NewPCG(7, 7)), opts)
	if len(a) != 8 {
		t.Fatalf("Expected 8 colors, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Color %d differs for the same seed: %s vs %s", i, a[i].HTML(), b[i].HTML())
		}
		// Fully saturated at half lightness: one channel is 1 and one is 0.
		hi := max(a[i].R, a[i].G, a[i].B)
		lo := min(a[i].R, a[i].G, a[i].B)
		if hi < 1-1e-9 || lo > 1e-9 {
			t.Errorf("Color %d %s is not fully saturated", i, a[i].HTML())
		}
	}

	h := 0.3
	if _, err := RandomColormap(1, rand.New(rand.NewPCG(1, 1)), ColormapOptions{Hue: &h, Saturation: &saturation, Lightness: &lightness}); !errors.Is(err, ErrColormap) {
		t.Errorf("Expected ErrColormap with every channel pinned, got %v", err)
	}

	if got, err := RandomColormap(0, rand.New(rand.NewPCG(1, 1)), ColormapOptions{}); err != nil || len(got) != 0 {
		t.Errorf("Expected empty colormap, got %v, %v", got, err)
	}
}
