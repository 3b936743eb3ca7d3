package machine

import (
	"context"
	"fmt"
	"math"

	"github.com/aretw0/turing/pkg/domain"
)

// HaltOrder selects how a step that enters the accept or reject state is applied.
type HaltOrder uint8

const (
	// HaltOnDecision writes the symbol and adopts the terminal state, but the
	// head does not move and the tape does not grow. A halting step can
	// therefore never run out of space.
	HaltOnDecision HaltOrder = iota

	// HaltAfterMove applies the halting transition in full, including head
	// movement and tape growth. If that growth reaches the space limit the
	// run ends in StatusSpaceout rather than StatusAccept or StatusReject.
	HaltAfterMove
)

func (o HaltOrder) String() string {
	switch o {
	case HaltOnDecision:
		return "decision"
	case HaltAfterMove:
		return "move"
	}
	return fmt.Sprintf("halt_order(%d)", uint8(o))
}

// ParseHaltOrder returns the HaltOrder named by name ("decision" or "move").
func ParseHaltOrder(name string) (HaltOrder, error) {
	switch name {
	case "decision", "":
		return HaltOnDecision, nil
	case "move":
		return HaltAfterMove, nil
	}
	return 0, fmt.Errorf("unknown halt order %q (expected decision or move)", name)
}

// MarshalText implements encoding.TextMarshaler.
func (o HaltOrder) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *HaltOrder) UnmarshalText(text []byte) error {
	v, err := ParseHaltOrder(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Option configures an Execution at start.
type Option func(*Execution)

// WithHaltOrder selects the halting-step semantics. The default is HaltOnDecision.
func WithHaltOrder(order HaltOrder) Option {
	return func(e *Execution) {
		e.order = order
	}
}

// Execution is one run of a Definition on one word.
// It is not safe for concurrent use; the Definition it points to is.
type Execution struct {
	def    *Definition
	state  int
	head   int
	tape   []int
	status domain.Status
	clock  domain.Clock
	order  HaltOrder
}

// Step advances the execution by one transition.
// It is a no-op once the status is terminal. A rightward move that overflows
// the head position panics with a *domain.HeadOverflowFault before anything
// is mutated.
func (e *Execution) Step() {
	if e.status != domain.StatusRunning {
		return
	}

	e.clock.Time++
	if e.clock.TimeExhausted() {
		e.status = domain.StatusTimeout
		return
	}

	// Only reachable when the start state is terminal.
	if e.def.isTerminal(e.state) {
		e.status = e.def.outcome(e.state)
		return
	}

	t := e.def.transitions[e.state][e.tape[e.head]]
	outcome := e.def.outcome(t.Next)

	if outcome != domain.StatusRunning && e.order == HaltOnDecision {
		e.tape[e.head] = t.Write
		e.state = t.Next
		e.status = outcome
		return
	}

	next := e.target(t.Move)
	e.tape[e.head] = t.Write
	e.state = t.Next
	e.head = next

	if next >= len(e.tape) {
		e.grow(next)
		if e.clock.SpaceExhausted() {
			e.status = domain.StatusSpaceout
			return
		}
	}

	e.status = outcome
}

// target computes the head position after moving by offset.
func (e *Execution) target(offset int) int {
	if offset >= 0 {
		if e.head > math.MaxInt-offset {
			panic(&domain.HeadOverflowFault{Head: e.head, Move: offset})
		}
		return e.head + offset
	}
	if p := e.head + offset; p > 0 {
		return p
	}
	return 0
}

// grow appends blank cells until position is on the tape.
func (e *Execution) grow(position int) {
	for len(e.tape) <= position {
		e.tape = append(e.tape, domain.Blank)
		e.clock.Space++
	}
}

// Run steps until the status is terminal. Without limits, a machine that
// never halts makes Run loop forever.
func (e *Execution) Run() {
	for e.status == domain.StatusRunning {
		e.Step()
	}
}

// cancelCheckInterval is the number of steps between context checks in RunContext.
const cancelCheckInterval = 1 << 12

// RunContext is Run with cooperative cancellation between batches of steps.
// It returns ctx.Err() if the context ends before the execution halts; the
// execution is left running and can be resumed.
func (e *Execution) RunContext(ctx context.Context) error {
	for e.status == domain.StatusRunning {
		if err := ctx.Err(); err != nil {
			return err
		}
		e.StepN(cancelCheckInterval)
	}
	return nil
}

// StepN performs up to n steps, stopping early if the execution halts.
// It returns the number of steps attempted.
func (e *Execution) StepN(n int) int {
	i := 0
	for ; i < n && e.status == domain.StatusRunning; i++ {
		e.Step()
	}
	return i
}

// Machine returns the definition the execution runs on.
func (e *Execution) Machine() *Definition { return e.def }

// State returns the index of the current state.
func (e *Execution) State() int { return e.state }

// StateLabel returns the label of the current state.
func (e *Execution) StateLabel() domain.State { return e.def.states[e.state] }

// Head returns the head position.
func (e *Execution) Head() int { return e.head }

// Status returns the run status.
func (e *Execution) Status() domain.Status { return e.status }

// Halted reports whether the status is terminal.
func (e *Execution) Halted() bool { return e.status.IsTerminal() }

// Clock returns a copy of the resource clock.
func (e *Execution) Clock() domain.Clock { return e.clock }

// HaltOrder returns the halting-step semantics in use.
func (e *Execution) HaltOrder() HaltOrder { return e.order }

// Len returns the current tape length.
func (e *Execution) Len() int { return len(e.tape) }

// Cell returns the combined symbol index stored in tape cell i.
func (e *Execution) Cell(i int) int { return e.tape[i] }

// Tape returns a copy of the tape.
func (e *Execution) Tape() []int {
	return append([]int(nil), e.tape...)
}
