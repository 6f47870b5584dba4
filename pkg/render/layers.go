package render

// LayerConfig overrides the visibility a Document gives its layers, so one
// sink can show a layer another hides.
type LayerConfig struct {
	visible map[string]bool
}

// NewLayerConfig creates a config that keeps every layer's own visibility.
func NewLayerConfig() *LayerConfig {
	return &LayerConfig{
		visible: make(map[string]bool),
	}
}

// SetVisible forces the visibility of a layer.
func (lc *LayerConfig) SetVisible(layer string, visible bool) {
	lc.visible[layer] = visible
}

// IsVisible reports whether l should be drawn. A nil config defers to the
// layer.
func (lc *LayerConfig) IsVisible(l *Layer) bool {
	if lc == nil {
		return l.Visible
	}
	if visible, exists := lc.visible[l.Name]; exists {
		return visible
	}
	return l.Visible
}

// Toggle flips the effective visibility of l.
func (lc *LayerConfig) Toggle(l *Layer) {
	lc.visible[l.Name] = !lc.IsVisible(l)
}
