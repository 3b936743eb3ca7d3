package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMachineNotFound is returned when a machine name is not registered.
var ErrMachineNotFound = errors.New("machine not found")

// ErrSnapshotNotFound is returned when a run ID cannot be found in a snapshot store.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// ErrInvalidSnapshot is returned when a snapshot does not fit the machine it is restored on.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// UnknownSymbolError reports an input character that belongs to neither alphabet.
// It is raised while encoding a word, before any execution exists.
type UnknownSymbolError struct {
	Symbol   string // The offending character
	Position int    // Character (not byte) offset inside the word
}

func (e *UnknownSymbolError) Error() string {
	return fmt.Sprintf("unknown symbol %q at position %d", e.Symbol, e.Position)
}

// HeadOverflowFault is the panic value raised when a rightward move would push
// the head past the addressable range. It signals a broken engine invariant,
// never a machine outcome.
type HeadOverflowFault struct {
	Head int
	Move int
}

func (f *HeadOverflowFault) Error() string {
	return fmt.Sprintf("head position overflow: %d%+d exceeds the addressable range", f.Head, f.Move)
}

// FieldError is a single machine definition violation.
type FieldError struct {
	Field  string // e.g. "transitions[3][0].next"
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// DefinitionError aggregates every violation found while building a machine.
type DefinitionError struct {
	Errors []error
}

func (e *DefinitionError) Error() string {
	if len(e.Errors) == 1 {
		return "invalid machine: " + e.Errors[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "invalid machine: %d errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual violations to errors.Is and errors.As.
func (e *DefinitionError) Unwrap() []error {
	return e.Errors
}

// DefinitionErrors returns all violations if err is a DefinitionError.
// Otherwise returns nil.
func DefinitionErrors(err error) []error {
	var defErr *DefinitionError
	if errors.As(err, &defErr) {
		return defErr.Errors
	}
	return nil
}
