package machine

import (
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// String renders the tape configuration on a single line: every cell's symbol
// label in order, with the head cell prefixed by the current state's label in
// parentheses, e.g. ">11(iterate_to_end)10".
func (e *Execution) String() string {
	var sb strings.Builder
	for i, cell := range e.tape {
		if i == e.head {
			sb.WriteByte('(')
			sb.WriteString(string(e.def.states[e.state]))
			sb.WriteByte(')')
		}
		sb.WriteString(string(e.def.alphabet[cell]))
	}
	return sb.String()
}

// Word renders the tape after the left-end marker using symbol labels, with
// trailing blanks removed.
func (e *Execution) Word() string {
	end := len(e.tape)
	for end > 1 && e.tape[end-1] == domain.Blank {
		end--
	}
	var sb strings.Builder
	for _, cell := range e.tape[1:end] {
		sb.WriteString(string(e.def.alphabet[cell]))
	}
	return sb.String()
}
