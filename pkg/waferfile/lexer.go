package waferfile

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// WaferLexer tokenizes .wafer description files.
var WaferLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run to the end of the line
	{Name: "Comment", Pattern: `(?:#|//)[^\n]*`},

	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},

	// Numbers, optionally signed, with optional fraction and exponent
	{Name: "Number", Pattern: `[-+]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][-+]?[0-9]+)?`},

	// Keywords are matched as identifiers by the grammar
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},

	{Name: "Punct", Pattern: `[{}=,;]`},
})
