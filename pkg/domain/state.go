package domain

// State is the label of a machine state.
// Two states are the same state only if they sit at the same index of a
// machine's state list; labels should be unique but are not required to be.
type State string

// Symbol is the label of a tape symbol.
// Symbols whose label is a single character can appear in input words.
type Symbol string

// Reserved positions inside the tape-control alphabet.
const (
	// Blank is the combined index of the blank symbol used for fresh tape cells.
	Blank = 0
	// LeftMarker is the combined index of the symbol seeded into tape cell 0.
	LeftMarker = 1
)
