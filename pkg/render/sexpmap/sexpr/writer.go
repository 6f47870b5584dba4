package sexpr

import (
	"bufio"
	"io"
	"strings"
)

// Write pretty-prints s: lists of atoms stay on one line, lists holding
// other lists put each child on its own line, indented by two spaces.
func Write(w io.Writer, s Sexp) error {
	bw := bufio.NewWriter(w)
	write(bw, s, 0)
	bw.WriteByte('\n')
	return bw.Flush()
}

func write(w *bufio.Writer, s Sexp, depth int) {
	l, ok := s.(*List)
	if !ok || flat(l) {
		w.WriteString(s.String())
		return
	}

	w.WriteByte('(')
	for i, elem := range l.elements {
		if i > 0 {
			if _, isList := elem.(*List); isList {
				w.WriteByte('\n')
				w.WriteString(strings.Repeat("  ", depth+1))
			} else {
				w.WriteByte(' ')
			}
		}
		write(w, elem, depth+1)
	}
	w.WriteByte(')')
}

func flat(l *List) bool {
	for _, e := range l.elements {
		if sub, ok := e.(*List); ok && !allLeaves(sub) {
			return false
		}
	}
	return len(l.elements) <= 4
}

func allLeaves(l *List) bool {
	for _, e := range l.elements {
		if !e.IsLeaf() {
			return false
		}
	}
	return true
}
