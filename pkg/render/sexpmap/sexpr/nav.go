package sexpr

import (
	"fmt"
	"strconv"
)

// S-expression navigation helpers

// Name returns the first symbol of a list (the node type).
func Name(s Sexp) (string, error) {
	l, ok := s.(*List)
	if !ok || l.Len() == 0 {
		return "", fmt.Errorf("expected non-empty list, got %v", s)
	}
	sym, ok := l.Head().(Symbol)
	if !ok {
		return "", fmt.Errorf("expected symbol at head of %v", s)
	}
	return string(sym), nil
}

// FindNode returns the first child list whose name is key.
// Example: FindNode(sexp, "at") finds (at 100 50) in a list
func FindNode(s Sexp, key string) (*List, bool) {
	l, ok := s.(*List)
	if !ok {
		return nil, false
	}
	for _, item := range l.elements {
		if sub, ok := item.(*List); ok {
			if name, err := Name(sub); err == nil && name == key {
				return sub, true
			}
		}
	}
	return nil, false
}

// FindAllNodes returns every child list whose name is key.
func FindAllNodes(s Sexp, key string) []*List {
	var results []*List
	l, ok := s.(*List)
	if !ok {
		return results
	}
	for _, item := range l.elements {
		if sub, ok := item.(*List); ok {
			if name, err := Name(sub); err == nil && name == key {
				results = append(results, sub)
			}
		}
	}
	return results
}

// Atom returns the text of the atom at index, quoted or not.
// Index 0 is the key, 1 is first value, etc.
func Atom(s Sexp, index int) (string, error) {
	l, ok := s.(*List)
	if !ok {
		return "", fmt.Errorf("expected list, got leaf")
	}
	if index < 0 || index >= l.Len() {
		return "", fmt.Errorf("%v: index %d out of bounds (length %d)", s, index, l.Len())
	}
	switch a := l.elements[index].(type) {
	case Symbol:
		return string(a), nil
	case String:
		return string(a), nil
	}
	return "", fmt.Errorf("%v: expected atom at index %d", s, index)
}

// GetFloat extracts a float64 value at the given index
func GetFloat(s Sexp, index int) (float64, error) {
	str, err := Atom(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse float %q: %w", str, err)
	}

	return val, nil
}

// GetInt extracts an int value at the given index
func GetInt(s Sexp, index int) (int, error) {
	str, err := Atom(s, index)
	if err != nil {
		return 0, err
	}

	val, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("failed to parse int %q: %w", str, err)
	}

	return val, nil
}

// GetBool reads a yes/no symbol at the given index.
func GetBool(s Sexp, index int) (bool, error) {
	str, err := Atom(s, index)
	if err != nil {
		return false, err
	}
	switch str {
	case "yes", "true":
		return true, nil
	case "no", "false":
		return false, nil
	}
	return false, fmt.Errorf("expected yes or no, got %q", str)
}

// Value returns the single atom of (key value), e.g. "yes" for (visible yes).
func Value(s Sexp, key string) (string, bool) {
	n, ok := FindNode(s, key)
	if !ok {
		return "", false
	}
	v, err := Atom(n, 1)
	return v, err == nil
}
