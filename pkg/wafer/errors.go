package wafer

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration marks an invalid Spec; no Grid or Map is built.
	ErrConfiguration = errors.New("wafer: invalid configuration")
	// ErrCellNotFound marks a reference to a cell that is not on the wafer.
	ErrCellNotFound = errors.New("wafer: cell not found")
	// ErrImage marks an annotation image that exists but cannot be used.
	ErrImage = errors.New("wafer: unusable image")
)

// ConfigError describes one invalid Spec field.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("wafer: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfiguration }

// CellNotFoundError names the missing cell.
type CellNotFoundError struct {
	Cell CellIndex
}

func (e *CellNotFoundError) Error() string {
	return fmt.Sprintf("wafer: cell %s does not exist in wafermap", e.Cell)
}

func (e *CellNotFoundError) Unwrap() error { return ErrCellNotFound }
