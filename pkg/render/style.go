package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Well-known style keys. They follow the Leaflet path options so the HTML
// sink can pass a Style through unchanged; the raster and Gio sinks read the
// subset they can draw.
const (
	KeyColor       = "color"
	KeyWeight      = "weight"
	KeyOpacity     = "opacity"
	KeyFill        = "fill"
	KeyStroke      = "stroke"
	KeyFillColor   = "fillColor"
	KeyFillOpacity = "fillOpacity"
	KeyRadius      = "radius"
	KeyDashArray   = "dashArray"
)

// Style is an immutable set of drawing options. Values are string, float64
// or bool. Every method that changes a Style returns a new value; the zero
// Style is empty and ready to use.
type Style struct {
	entries map[string]any
}

// NewStyle builds a Style from alternating key/value arguments.
// It panics on an odd argument count or a non-string key.
func NewStyle(kv ...any) Style {
	if len(kv)%2 != 0 {
		panic("render: NewStyle needs key/value pairs")
	}
	s := Style{}
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("render: style key %v is not a string", kv[i]))
		}
		s = s.With(key, kv[i+1])
	}
	return s
}

// With returns a copy of s with key set to value. Integers are stored as
// float64; unsupported types are stored as their fmt representation.
func (s Style) With(key string, value any) Style {
	out := Style{entries: make(map[string]any, len(s.entries)+1)}
	for k, v := range s.entries {
		out.entries[k] = v
	}
	out.entries[key] = normalize(value)
	return out
}

// Merge returns s overridden by every entry of other.
func (s Style) Merge(other Style) Style {
	if other.IsEmpty() {
		return s
	}
	if s.IsEmpty() {
		return other
	}
	out := Style{entries: make(map[string]any, len(s.entries)+len(other.entries))}
	for k, v := range s.entries {
		out.entries[k] = v
	}
	for k, v := range other.entries {
		out.entries[k] = v
	}
	return out
}

// Parse sets key from its textual form: "true"/"false" become bools,
// anything strconv.ParseFloat accepts becomes a float64, the rest is kept
// as a string.
func (s Style) Parse(key, raw string) Style {
	switch strings.ToLower(raw) {
	case "true", "yes":
		return s.With(key, true)
	case "false", "no":
		return s.With(key, false)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return s.With(key, f)
	}
	return s.With(key, raw)
}

func normalize(v any) any {
	switch x := v.(type) {
	case string, bool, float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case int32:
		return float64(x)
	default:
		return fmt.Sprint(x)
	}
}

// IsEmpty reports whether s has no entries.
func (s Style) IsEmpty() bool { return len(s.entries) == 0 }

// Len returns the number of entries.
func (s Style) Len() int { return len(s.entries) }

// Has reports whether key is set.
func (s Style) Has(key string) bool {
	_, ok := s.entries[key]
	return ok
}

// Get returns the raw value for key.
func (s Style) Get(key string) (any, bool) {
	v, ok := s.entries[key]
	return v, ok
}

// Keys returns the keys in sorted order.
func (s Style) Keys() []string {
	keys := make([]string, 0, len(s.entries))
	for k := range s.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Map returns a copy of the entries, e.g. for JSON encoding.
func (s Style) Map() map[string]any {
	m := make(map[string]any, len(s.entries))
	for k, v := range s.entries {
		m[k] = v
	}
	return m
}

// Equal reports whether both styles hold the same entries.
func (s Style) Equal(other Style) bool {
	if len(s.entries) != len(other.entries) {
		return false
	}
	for k, v := range s.entries {
		if ov, ok := other.entries[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// String returns the value of key if it is a string, else def.
func (s Style) String(key, def string) string {
	if v, ok := s.entries[key].(string); ok {
		return v
	}
	return def
}

// Float returns the value of key if it is a number, else def.
func (s Style) Float(key string, def float64) float64 {
	if v, ok := s.entries[key].(float64); ok {
		return v
	}
	return def
}

// Bool returns the value of key if it is a bool, else def.
func (s Style) Bool(key string, def bool) bool {
	if v, ok := s.entries[key].(bool); ok {
		return v
	}
	return def
}

// Format renders a value the way Parse reads it back.
func Format(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

// Stroke and fill accessors with Leaflet's defaults. Filled applies to
// closed shapes, which Leaflet fills unless fill is false.

func (s Style) StrokeColor() string { return s.String(KeyColor, "#3388ff") }
func (s Style) Weight() float64     { return s.Float(KeyWeight, 3) }
func (s Style) Opacity() float64    { return s.Float(KeyOpacity, 1) }
func (s Style) Stroked() bool       { return s.Bool(KeyStroke, true) }
func (s Style) Filled() bool        { return s.Bool(KeyFill, true) }
func (s Style) FillOpacity() float64 {
	return s.Float(KeyFillOpacity, 0.2)
}

// FillColor falls back to the stroke color when no fill color is set.
func (s Style) FillColor() string {
	return s.String(KeyFillColor, s.StrokeColor())
}
