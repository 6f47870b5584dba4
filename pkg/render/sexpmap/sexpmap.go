// Package sexpmap stores a render.Document as an S-expression file:
//
//	(wafermap (version 1) (generator "wafermap") (title "...")
//	  (wafer (radius R) (edge_exclusion E) (notch θ) (background "#ffffff"))
//	  (layer "grid" (visible yes)
//	    (rect (start x y) (end x y) (tooltip "(0, 0)") (style (color "#142d2d") ...))
//	    ...))
package sexpmap

import (
	"errors"
	"fmt"
	"io"

	"github.com/golang/geo/r2"

	"github.com/cap1tan/wafermap/pkg/geom"
	"github.com/cap1tan/wafermap/pkg/render"
	"github.com/cap1tan/wafermap/pkg/render/sexpmap/sexpr"
)

// Version is the file format version written by Encode.
const Version = 1

// ErrFormat marks input that is not a wafermap S-expression file.
var ErrFormat = errors.New("sexpmap: malformed wafermap file")

// Encoder writes the S-expression form.
type Encoder struct{}

// NewEncoder returns an Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// Encode writes doc to w.
func (e *Encoder) Encode(w io.Writer, doc *render.Document) error {
	root, err := Marshal(doc)
	if err != nil {
		return err
	}
	return sexpr.Write(w, root)
}

// Marshal converts doc to its S-expression tree.
func Marshal(doc *render.Document) (*sexpr.List, error) {
	root := sexpr.Node("wafermap",
		sexpr.Node("version", sexpr.Float(Version)),
		sexpr.Node("generator", sexpr.String("wafermap")),
		sexpr.Node("title", sexpr.String(doc.Title)),
		sexpr.Node("wafer",
			sexpr.Node("radius", sexpr.Float(doc.Radius)),
			sexpr.Node("edge_exclusion", sexpr.Float(doc.EdgeExclusion)),
			sexpr.Node("notch", sexpr.Float(doc.NotchOrientation)),
			sexpr.Node("background", sexpr.String(doc.Background)),
		),
	)

	for _, l := range doc.Layers {
		layer := sexpr.Node("layer", sexpr.String(l.Name), sexpr.Node("visible", sexpr.Bool(l.Visible)))
		for _, it := range l.Items {
			node, err := marshalItem(it)
			if err != nil {
				return nil, fmt.Errorf("layer %q: %w", l.Name, err)
			}
			layer.Append(node)
		}
		root.Append(layer)
	}
	return root, nil
}

func xy(name string, p r2.Point) *sexpr.List {
	return sexpr.Node(name, sexpr.Float(p.X), sexpr.Float(p.Y))
}

func pts(points []r2.Point) *sexpr.List {
	n := sexpr.Node("pts")
	for _, p := range points {
		n.Append(xy("xy", p))
	}
	return n
}

func str(name, value string) *sexpr.List {
	return sexpr.Node(name, sexpr.String(value))
}

func style(s render.Style) *sexpr.List {
	n := sexpr.Node("style")
	for _, k := range s.Keys() {
		v, _ := s.Get(k)
		switch x := v.(type) {
		case bool:
			n.Append(sexpr.Node(k, sexpr.Bool(x)))
		case float64:
			n.Append(sexpr.Node(k, sexpr.Float(x)))
		default:
			n.Append(sexpr.Node(k, sexpr.String(render.Format(x))))
		}
	}
	return n
}

// optional appends (name "value") when value is set.
func optional(n *sexpr.List, name, value string) {
	if value != "" {
		n.Append(str(name, value))
	}
}

func marshalItem(p render.Primitive) (*sexpr.List, error) {
	var n *sexpr.List
	switch v := p.(type) {
	case render.Circle:
		n = sexpr.Node("circle", xy("center", v.Center), sexpr.Node("radius", sexpr.Float(v.Radius)), style(v.Style))
	case render.Polygon:
		n = sexpr.Node("polygon", pts(v.Points), style(v.Style))
	case render.Polyline:
		n = sexpr.Node("polyline", pts(v.Points), style(v.Style))
	case render.Rectangle:
		n = sexpr.Node("rect", xy("start", v.Rect.Lo()), xy("end", v.Rect.Hi()))
		optional(n, "tooltip", v.Tooltip)
		n.Append(style(v.Style))
	case render.Marker:
		n = sexpr.Node("marker", xy("at", v.At))
		optional(n, "popup", v.Popup)
		n.Append(style(v.Style))
	case render.Text:
		n = sexpr.Node("text", xy("at", v.At), str("content", v.Content), xy("size", v.SizePx))
		optional(n, "css", v.CSS)
		optional(n, "popup", v.Popup)
	case render.Image:
		n = sexpr.Node("image", xy("start", v.Rect.Lo()), xy("end", v.Rect.Hi()))
		optional(n, "alt", v.Alt)
		n.Append(str("uri", v.URI), style(v.Style))
	default:
		return nil, fmt.Errorf("sexpmap: unsupported primitive %T", p)
	}
	return n, nil
}

// Decode reads a document written by Encode.
func Decode(r io.Reader) (*render.Document, error) {
	exprs, err := sexpr.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if len(exprs) != 1 {
		return nil, fmt.Errorf("%w: expected one top-level expression, got %d", ErrFormat, len(exprs))
	}
	return Unmarshal(exprs[0])
}

// Unmarshal converts an S-expression tree back to a Document.
func Unmarshal(root sexpr.Sexp) (*render.Document, error) {
	if name, err := sexpr.Name(root); err != nil || name != "wafermap" {
		return nil, fmt.Errorf("%w: root is not (wafermap ...)", ErrFormat)
	}
	versionNode, ok := sexpr.FindNode(root, "version")
	if !ok {
		return nil, fmt.Errorf("%w: missing version", ErrFormat)
	}
	version, err := sexpr.GetInt(versionNode, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	if version != Version {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, version)
	}

	wafer, ok := sexpr.FindNode(root, "wafer")
	if !ok {
		return nil, fmt.Errorf("%w: missing (wafer ...)", ErrFormat)
	}
	d := decoder{}
	doc := render.NewDocument("", d.float(wafer, "radius"))
	doc.Title, _ = sexpr.Value(root, "title")
	doc.EdgeExclusion = d.float(wafer, "edge_exclusion")
	doc.NotchOrientation = d.float(wafer, "notch")
	if bg, ok := sexpr.Value(wafer, "background"); ok {
		doc.Background = bg
	}

	for _, ln := range sexpr.FindAllNodes(root, "layer") {
		name, err := sexpr.Atom(ln, 1)
		if err != nil {
			return nil, fmt.Errorf("%w: layer without name", ErrFormat)
		}
		visible := true
		if v, ok := sexpr.FindNode(ln, "visible"); ok {
			visible, err = sexpr.GetBool(v, 1)
			if err != nil {
				return nil, fmt.Errorf("%w: layer %q: %v", ErrFormat, name, err)
			}
		}
		layer := doc.AddLayer(name, visible)
		for _, item := range ln.Items()[2:] {
			if kind, _ := sexpr.Name(item); kind == "visible" {
				continue
			}
			p, err := d.item(item)
			if err != nil {
				return nil, fmt.Errorf("%w: layer %q: %v", ErrFormat, name, err)
			}
			layer.Add(p)
		}
	}
	if d.err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, d.err)
	}
	return doc, nil
}

// decoder keeps the first error so field reads can be chained.
type decoder struct {
	err error
}

func (d *decoder) fail(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *decoder) float(n sexpr.Sexp, key string) float64 {
	node, ok := sexpr.FindNode(n, key)
	if !ok {
		d.fail(fmt.Errorf("missing (%s ...) in %s", key, n))
		return 0
	}
	v, err := sexpr.GetFloat(node, 1)
	if err != nil {
		d.fail(err)
	}
	return v
}

func (d *decoder) point(n sexpr.Sexp, key string) r2.Point {
	node, ok := sexpr.FindNode(n, key)
	if !ok {
		d.fail(fmt.Errorf("missing (%s x y) in %s", key, n))
		return r2.Point{}
	}
	return d.xy(node)
}

func (d *decoder) xy(node *sexpr.List) r2.Point {
	x, err := sexpr.GetFloat(node, 1)
	if err != nil {
		d.fail(err)
	}
	y, err := sexpr.GetFloat(node, 2)
	if err != nil {
		d.fail(err)
	}
	return r2.Point{X: x, Y: y}
}

func (d *decoder) points(n sexpr.Sexp) []r2.Point {
	node, ok := sexpr.FindNode(n, "pts")
	if !ok {
		d.fail(fmt.Errorf("missing (pts ...) in %s", n))
		return nil
	}
	var out []r2.Point
	for _, p := range sexpr.FindAllNodes(node, "xy") {
		out = append(out, d.xy(p))
	}
	return out
}

func (d *decoder) style(n sexpr.Sexp) render.Style {
	node, ok := sexpr.FindNode(n, "style")
	if !ok {
		return render.Style{}
	}
	var s render.Style
	for _, e := range node.Items()[1:] {
		entry, ok := e.(*sexpr.List)
		if !ok || entry.Len() != 2 {
			d.fail(fmt.Errorf("bad style entry %s", e))
			continue
		}
		key, _ := sexpr.Name(entry)
		switch v := entry.Get(1).(type) {
		case sexpr.String:
			s = s.With(key, string(v))
		case sexpr.Symbol:
			s = s.Parse(key, string(v))
		default:
			d.fail(fmt.Errorf("bad style value %s", entry))
		}
	}
	return s
}

func (d *decoder) item(s sexpr.Sexp) (render.Primitive, error) {
	kind, err := sexpr.Name(s)
	if err != nil {
		return nil, err
	}
	text := func(key string) string {
		v, _ := sexpr.Value(s, key)
		return v
	}

	var p render.Primitive
	switch kind {
	case "circle":
		p = render.Circle{Center: d.point(s, "center"), Radius: d.float(s, "radius"), Style: d.style(s)}
	case "polygon":
		p = render.Polygon{Points: d.points(s), Style: d.style(s)}
	case "polyline":
		p = render.Polyline{Points: d.points(s), Style: d.style(s)}
	case "rect":
		p = render.Rectangle{
			Rect:    geom.Rect(d.point(s, "start"), d.point(s, "end")),
			Tooltip: text("tooltip"),
			Style:   d.style(s),
		}
	case "marker":
		p = render.Marker{At: d.point(s, "at"), Popup: text("popup"), Style: d.style(s)}
	case "text":
		p = render.Text{
			At:      d.point(s, "at"),
			Content: text("content"),
			SizePx:  d.point(s, "size"),
			CSS:     text("css"),
			Popup:   text("popup"),
		}
	case "image":
		p = render.Image{
			Rect:  geom.Rect(d.point(s, "start"), d.point(s, "end")),
			URI:   text("uri"),
			Alt:   text("alt"),
			Style: d.style(s),
		}
	default:
		return nil, fmt.Errorf("unknown primitive %q", kind)
	}
	if d.err != nil {
		return nil, d.err
	}
	return p, nil
}
