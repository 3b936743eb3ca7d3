package domain

// Transition is one entry of a transition table, keyed by (state, read symbol).
type Transition struct {
	// Next is the index of the state to adopt.
	Next int `json:"next" yaml:"next"`

	// Write is the combined-alphabet index written over the read cell.
	Write int `json:"write" yaml:"write"`

	// Move is the signed head offset. Only -1, 0 and +1 are common, but any
	// offset is valid: leftward moves clamp at cell 0 and rightward moves grow
	// the tape.
	Move int `json:"move" yaml:"move"`
}
