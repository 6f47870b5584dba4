// Package htmlmap writes a render.Document as a standalone Leaflet page
// using the Simple (planar) CRS.
package htmlmap

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"html"
	"html/template"
	"io"

	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/geom"
	"github.com/cap1tan/wafermap/pkg/render"
)

//go:embed map.html.tmpl
var pageTemplate string

var tmpl = template.Must(template.New("map.html").Funcs(template.FuncMap{
	"toJSON": func(data any) (template.JS, error) {
		b, err := json.Marshal(data)
		return template.JS(b), err
	},
}).Parse(pageTemplate))

// Leaflet release served from unpkg.
const (
	DefaultLeafletCSS = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
	DefaultLeafletJS  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
)

// order is the (lat, lng) order Leaflet expects.
const order = geom.OrderYX

// Encoder writes HTML pages.
type Encoder struct {
	Padding     int // pixels around the wafer when fitting the view
	ZoomControl bool
	LeafletCSS  string
	LeafletJS   string
	Layers      *render.LayerConfig
}

// NewEncoder returns an encoder with zoom buttons, 100px padding, and the
// label layers hidden on load.
func NewEncoder() *Encoder {
	layers := render.NewLayerConfig()
	layers.SetVisible(render.LayerCellLabels, false)
	layers.SetVisible(render.LayerLabels, false)
	return &Encoder{
		Padding:     100,
		ZoomControl: true,
		LeafletCSS:  DefaultLeafletCSS,
		LeafletJS:   DefaultLeafletJS,
		Layers:      layers,
	}
}

type page struct {
	Title      string
	LeafletCSS string
	LeafletJS  string
	Wafer      waferJSON
}

type waferJSON struct {
	Background  string        `json:"background"`
	ZoomControl bool          `json:"zoomControl"`
	Padding     int           `json:"padding"`
	Bounds      [2][2]float64 `json:"bounds"`
	Layers      []layerJSON   `json:"layers"`
}

type layerJSON struct {
	Name    string     `json:"name"`
	Show    bool       `json:"show"`
	Control bool       `json:"control"`
	Items   []itemJSON `json:"items"`
}

type itemJSON struct {
	Type       string         `json:"type"`
	LatLng     *[2]float64    `json:"latlng,omitempty"`
	LatLngs    [][2]float64   `json:"latlngs,omitempty"`
	Bounds     *[2][2]float64 `json:"bounds,omitempty"`
	Radius     float64        `json:"radius,omitempty"`
	Options    map[string]any `json:"options,omitempty"`
	Popup      string         `json:"popup,omitempty"`
	Tooltip    string         `json:"tooltip,omitempty"`
	HTML       string         `json:"html,omitempty"`
	IconSize   *[2]float64    `json:"iconSize,omitempty"`
	IconAnchor *[2]float64    `json:"iconAnchor,omitempty"`
	URL        string         `json:"url,omitempty"`
	Alt        string         `json:"alt,omitempty"`
}

// Encode writes doc as an HTML page.
func (e *Encoder) Encode(w io.Writer, doc *render.Document) error {
	r := doc.Radius
	p := page{
		Title:      doc.Title,
		LeafletCSS: e.LeafletCSS,
		LeafletJS:  e.LeafletJS,
		Wafer: waferJSON{
			Background:  doc.Background,
			ZoomControl: e.ZoomControl,
			Padding:     e.Padding,
			Bounds:      rect(geom.Rect(r2.Point{X: -r, Y: -r}, r2.Point{X: r, Y: r})),
		},
	}

	for _, l := range doc.Layers {
		lj := layerJSON{
			Name:    l.Name,
			Show:    e.Layers.IsVisible(l),
			Control: l.Name != render.LayerWafer,
			Items:   make([]itemJSON, 0, len(l.Items)),
		}
		for _, it := range l.Items {
			item, err := convert(it)
			if err != nil {
				return fmt.Errorf("layer %q: %w", l.Name, err)
			}
			lj.Items = append(lj.Items, item)
		}
		p.Wafer.Layers = append(p.Wafer.Layers, lj)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, p); err != nil {
		return fmt.Errorf("executing map template: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func convert(p render.Primitive) (itemJSON, error) {
	switch v := p.(type) {
	case render.Circle:
		return itemJSON{Type: "circle", LatLng: latlng(v.Center), Radius: v.Radius, Options: v.Style.Map()}, nil
	case render.Polygon:
		return itemJSON{Type: "polygon", LatLngs: latlngs(v.Points), Options: v.Style.Map()}, nil
	case render.Polyline:
		return itemJSON{Type: "polyline", LatLngs: latlngs(v.Points), Options: v.Style.Map()}, nil
	case render.Rectangle:
		b := rect(v.Rect)
		return itemJSON{Type: "rect", Bounds: &b, Options: v.Style.Map(), Tooltip: v.Tooltip}, nil
	case render.Marker:
		return itemJSON{Type: "marker", LatLng: latlng(v.At), Options: v.Style.Map(), Popup: v.Popup}, nil
	case render.Text:
		size := [2]float64{v.SizePx.X, v.SizePx.Y}
		anchor := [2]float64{v.SizePx.X / 2, v.SizePx.Y / 2}
		return itemJSON{
			Type:       "text",
			LatLng:     latlng(v.At),
			HTML:       LabelHTML(v.CSS, v.Content),
			IconSize:   &size,
			IconAnchor: &anchor,
			Popup:      v.Popup,
		}, nil
	case render.Image:
		b := rect(v.Rect)
		return itemJSON{Type: "image", Bounds: &b, URL: v.URI, Alt: v.Alt, Options: v.Style.Map()}, nil
	default:
		return itemJSON{}, fmt.Errorf("htmlmap: unsupported primitive %T", p)
	}
}

// LabelHTML is the div a label icon shows.
func LabelHTML(css, text string) string {
	return fmt.Sprintf(`<div style="%s">%s</div>`, html.EscapeString(css), html.EscapeString(text))
}

func latlng(p r2.Point) *[2]float64 {
	ll := order.Pair(p)
	return &ll
}

func latlngs(pts []r2.Point) [][2]float64 {
	out := make([][2]float64, len(pts))
	for i, p := range pts {
		out[i] = order.Pair(p)
	}
	return out
}

func rect(r r2.Rect) [2][2]float64 {
	return [2][2]float64{order.Pair(r.Lo()), order.Pair(r.Hi())}
}
