package render

import "testing"

func TestStyleWithDoesNotMutate(t *testing.T) {
	base := NewStyle(KeyColor, "#ff0000", KeyFill, true)
	changed := base.With(KeyColor, "#00ff00")

	if got := base.String(KeyColor, ""); got != "#ff0000" {
		t.Errorf("Expected base color #ff0000, got %s", got)
	}
	if got := changed.String(KeyColor, ""); got != "#00ff00" {
		t.Errorf("Expected changed color #00ff00, got %s", got)
	}
	if !changed.Bool(KeyFill, false) {
		t.Error("Expected fill to survive With")
	}
}

func TestStyleMerge(t *testing.T) {
	defaults := NewStyle(KeyColor, "#009900", KeyWeight, 1)
	user := NewStyle(KeyWeight, 4, KeyDashArray, "5 5")

	merged := defaults.Merge(user)
	if merged.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", merged.Len())
	}
	if merged.Weight() != 4 {
		t.Errorf("Expected weight 4, got %v", merged.Weight())
	}
	if merged.StrokeColor() != "#009900" {
		t.Errorf("Expected color from defaults, got %s", merged.StrokeColor())
	}
	if defaults.Weight() != 1 {
		t.Errorf("Merge changed its receiver: weight %v", defaults.Weight())
	}

	if !defaults.Merge(Style{}).Equal(defaults) {
		t.Error("Expected merging an empty style to be the identity")
	}
}

func TestStyleParse(t *testing.T) {
	s := Style{}.
		Parse(KeyFill, "true").
		Parse(KeyWeight, "0.5").
		Parse(KeyColor, "#142d2d").
		Parse("stroke", "no")

	if v, _ := s.Get(KeyFill); v != true {
		t.Errorf("Expected fill=true, got %v", v)
	}
	if v, _ := s.Get(KeyWeight); v != 0.5 {
		t.Errorf("Expected weight=0.5, got %v", v)
	}
	if v, _ := s.Get(KeyColor); v != "#142d2d" {
		t.Errorf("Expected color string, got %v", v)
	}
	if v, _ := s.Get("stroke"); v != false {
		t.Errorf("Expected stroke=false, got %v", v)
	}
	for _, k := range s.Keys() {
		v, _ := s.Get(k)
		if back := (Style{}).Parse(k, Format(v)); !back.Equal(Style{}.With(k, v)) {
			t.Errorf("Format/Parse mismatch for %s=%v", k, v)
		}
	}
}

func TestStyleDefaults(t *testing.T) {
	var s Style
	if s.Weight() != 3 || s.Opacity() != 1 || !s.Filled() || !s.Stroked() {
		t.Errorf("Unexpected defaults: weight=%v opacity=%v fill=%v stroke=%v", s.Weight(), s.Opacity(), s.Filled(), s.Stroked())
	}
	if s.With(KeyFill, false).Filled() || s.With(KeyStroke, false).Stroked() {
		t.Error("Expected explicit false to turn fill and stroke off")
	}
	s = s.With(KeyColor, "red")
	if s.FillColor() != "red" {
		t.Errorf("Expected fill color to fall back to stroke color, got %s", s.FillColor())
	}
}

func TestNewStylePanicsOnOddArgs(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic")
		}
	}()
	NewStyle(KeyColor)
}
