package waferfile

import "github.com/alecthomas/participle/v2/lexer"

// File is a parsed .wafer file: one wafer block.
// Example: wafer "lot 7" { radius 150; cell_size 10 20; point at 0 0; }
type File struct {
	Pos        lexer.Position
	Name       string       `"wafer" @String "{"`
	Statements []*Statement `@@* "}"`
}

// Statement is one spec field or annotation inside the wafer block.
type Statement struct {
	Pos lexer.Position

	Radius        *float64 `  "radius" @Number ";"`
	CellSize      *Pair    `| "cell_size" @@ ";"`
	Margin        *Pair    `| "margin" @@ ";"`
	Origin        *Index   `| "origin" @@ ";"`
	Offset        *Pair    `| "offset" @@ ";"`
	EdgeExclusion *float64 `| "edge_exclusion" @Number ";"`
	Coverage      *string  `| "coverage" @Ident ";"`
	Notch         *float64 `| "notch" @Number ";"`
	Background    *Color   `| "background" @@ ";"`
	Conversion    *float64 `| "conversion" @Number ";"`

	Point   *PointStmt   `| @@`
	Vector  *VectorStmt  `| @@`
	Label   *LabelStmt   `| @@`
	Image   *ImageStmt   `| @@`
	Style   *StyleStmt   `| @@`
	Palette *PaletteStmt `| @@`
}

// Pair is two numbers, x then y.
type Pair struct {
	X float64 `@Number`
	Y float64 `@Number`
}

// Index is an integer x y pair.
type Index struct {
	X int `@Number`
	Y int `@Number`
}

// Cell selects a grid cell by logical index.
// Example: cell 3 -2
type Cell struct {
	Index Index `"cell" @@`
}

// Color is either an HTML color string or r g b in [0, 1].
type Color struct {
	HTML     *string   `  @String`
	Channels []float64 `| @Number @Number @Number`
}

// StyleBlock is a list of style entries.
// Example: { color = "red", weight = 2, fill = yes }
type StyleBlock struct {
	Entries []*StyleEntry `"{" ( @@ ( "," @@ )* ","? )? "}"`
}

// StyleEntry is one key = value pair. Values keep their source text and are
// typed by render.Style.Parse.
type StyleEntry struct {
	Key   string `@Ident "="`
	Value string `@( String | Number | Ident )`
}

// PointStmt places a circle marker.
// Example: point cell 0 0 at 1 2 style { color = "blue" } popup "probe";
type PointStmt struct {
	Cell  *Cell       `"point" @@?`
	At    Position    `@@`
	Style *StyleBlock `( "style" @@ )?`
	Popup *string     `( "popup" @String )? ";"`
}

// Position is an offset given as x y, or as a radius and an angle in
// degrees counter-clockwise from +X.
// Example: polar 40 135
type Position struct {
	At    *Pair `  "at" @@`
	Polar *Pair `| "polar" @@`
}

// VectorStmt draws an arrow from one offset to another.
// Example: vector cell 1 1 from 0 0 to 2 3 scale 10 root { radius = 2 };
type VectorStmt struct {
	Cell  *Cell       `"vector" @@?`
	From  Pair        `"from" @@`
	To    Pair        `"to" @@`
	Scale *float64    `( "scale" @Number )?`
	Style *StyleBlock `( "style" @@ )?`
	Root  *StyleBlock `( "root" @@ )? ";"`
}

// LabelStmt places a text label.
// Example: label "A1" cell 0 0 at 5 10 css "color: red";
type LabelStmt struct {
	Text  string  `"label" @String`
	Cell  *Cell   `@@?`
	At    Pair    `"at" @@`
	CSS   *string `( "css" @String )?`
	Popup *string `( "popup" @String )? ";"`
}

// ImageStmt places an image overlay, or a marker when marker is given.
// Example: image "die.png" cell 0 0 at 0 0 marker { color = "green" };
type ImageStmt struct {
	Path   string      `"image" @String`
	Cell   *Cell       `@@?`
	At     Pair        `"at" @@`
	Marker *StyleBlock `( "marker" @@ )? ";"`
}

// StyleStmt styles one cell or all of them.
// Example: style all { fill = yes, fillColor = "#ccccff" };
type StyleStmt struct {
	Target StyleTarget `"style" @@`
	Style  StyleBlock  `@@ ";"`
}

// StyleTarget is "all" or a cell.
type StyleTarget struct {
	All  bool  `  @"all"`
	Cell *Cell `| @@`
}

// PaletteStmt fills every cell with its own random color. Hue, saturation
// and lightness in [0, 1] may be pinned; the seed makes the colors
// reproducible.
// Example: palette seed 7 lightness 0.7;
type PaletteStmt struct {
	Seed       *int     `"palette" ( "seed" @Number )?`
	Hue        *float64 `( "hue" @Number )?`
	Saturation *float64 `( "saturation" @Number )?`
	Lightness  *float64 `( "lightness" @Number )? ";"`
}
