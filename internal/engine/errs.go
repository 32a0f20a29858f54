package engine

import (
	"errors"
	"fmt"
)

// Sentinel errors for the engine package. Callers use errors.Is against
// these to distinguish malformed input from resource or protocol failures
// without string-matching error text.
var (
	// ErrParse indicates malformed input (a FEN, move string, or UCI
	// command the caller supplied was not well-formed).
	ErrParse = errors.New("parse error")

	// ErrResource indicates a failure to load or access an external
	// resource (NNUE network file, persisted TT snapshot database).
	ErrResource = errors.New("resource error")

	// ErrProtocol indicates a UCI protocol violation (unknown command,
	// option set out of sequence, etc).
	ErrProtocol = errors.New("protocol error")

	// ErrInternal indicates an invariant the engine itself is
	// responsible for upholding was violated.
	ErrInternal = errors.New("internal error")
)

// WrapParse wraps err with ErrParse and a contextual message.
func WrapParse(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), ErrParse, err)
}

// WrapResource wraps err with ErrResource and a contextual message.
func WrapResource(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), ErrResource, err)
}

// WrapProtocol wraps err with ErrProtocol and a contextual message.
func WrapProtocol(err error, format string, args ...any) error {
	return fmt.Errorf("%s: %w: %w", fmt.Sprintf(format, args...), ErrProtocol, err)
}
