package machine_test

import (
	"context"
	"math"
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/fixtures"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecution_LastSymbol(t *testing.T) {
	def := fixtures.LastSymbol()

	tests := []struct {
		name   string
		word   string
		limits domain.Limits
		status domain.Status
		tape   []int
		head   int
		time   int
		space  int
	}{
		{
			name:   "Accept",
			word:   "1110",
			status: domain.StatusAccept,
			tape:   []int{1, 3, 3, 3, 2, 0},
			head:   4, time: 7, space: 6,
		},
		{
			name:   "Reject",
			word:   "0001",
			status: domain.StatusReject,
			tape:   []int{1, 2, 2, 2, 3, 0},
			head:   4, time: 7, space: 6,
		},
		{
			name:   "Timeout",
			word:   "1110",
			limits: domain.Limits{Time: 3},
			status: domain.StatusTimeout,
			tape:   []int{1, 3, 3, 3, 2},
			head:   2, time: 3, space: 5,
		},
		{
			name:   "Spaceout",
			word:   "1110",
			limits: domain.Limits{Space: 5},
			status: domain.StatusSpaceout,
			tape:   []int{1, 3, 3, 3, 2, 0},
			head:   5, time: 5, space: 6,
		},
		{
			name:   "Empty Word Rejects",
			word:   "",
			status: domain.StatusReject,
			tape:   []int{1, 0},
			head:   0, time: 3, space: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec, err := def.BoundedCompute(tt.word, tt.limits)
			require.NoError(t, err)
			exec.Run()

			assert.Equal(t, tt.status, exec.Status())
			assert.Equal(t, tt.tape, exec.Tape())
			assert.Equal(t, tt.head, exec.Head())
			assert.Equal(t, tt.time, exec.Clock().Time)
			assert.Equal(t, tt.space, exec.Clock().Space)
			assert.Equal(t, len(tt.tape), exec.Clock().Space, "space always equals tape length")
		})
	}
}

func TestExecution_HaltAfterMove(t *testing.T) {
	t.Run("Head Moves On Halting Step", func(t *testing.T) {
		exec, err := fixtures.LastSymbol().Compute("1110", machine.WithHaltOrder(machine.HaltAfterMove))
		require.NoError(t, err)
		exec.Run()

		assert.Equal(t, domain.StatusAccept, exec.Status())
		assert.Equal(t, 5, exec.Head())
		assert.Equal(t, []int{1, 3, 3, 3, 2, 0}, exec.Tape())
		assert.Equal(t, 7, exec.Clock().Time)
	})

	t.Run("Spaceout Overrides Decision", func(t *testing.T) {
		def := fixtures.Minimal()
		limits := domain.Limits{Space: 2}

		decided, err := def.BoundedCompute("", limits)
		require.NoError(t, err)
		decided.Run()
		assert.Equal(t, domain.StatusAccept, decided.Status())
		assert.Equal(t, 0, decided.Head())
		assert.Equal(t, []int{1}, decided.Tape())

		moved, err := def.BoundedCompute("", limits, machine.WithHaltOrder(machine.HaltAfterMove))
		require.NoError(t, err)
		moved.Run()
		assert.Equal(t, domain.StatusSpaceout, moved.Status())
		assert.Equal(t, 1, moved.Head())
		assert.Equal(t, []int{1, 0}, moved.Tape())
		assert.Equal(t, 1, moved.State(), "the halting state is still adopted")
	})
}

func TestExecution_Minimal(t *testing.T) {
	exec, err := fixtures.Minimal().Compute("0110")
	require.NoError(t, err)

	exec.Step()
	assert.Equal(t, domain.StatusAccept, exec.Status())
	assert.Equal(t, 1, exec.Clock().Time)
	assert.Equal(t, "q1", string(exec.StateLabel()))
}

func TestExecution_UnknownSymbol(t *testing.T) {
	_, err := fixtures.Minimal().Compute("2")

	var symErr *domain.UnknownSymbolError
	require.ErrorAs(t, err, &symErr)
	assert.Equal(t, "2", symErr.Symbol)
	assert.Equal(t, 0, symErr.Position)

	_, err = fixtures.Minimal().Compute("01é1")
	require.ErrorAs(t, err, &symErr)
	assert.Equal(t, "é", symErr.Symbol)
	assert.Equal(t, 2, symErr.Position, "positions count characters, not bytes")
}

func TestExecution_StepAfterHaltIsNoOp(t *testing.T) {
	for name, limits := range map[string]domain.Limits{
		"Accept":   {},
		"Timeout":  {Time: 3},
		"Spaceout": {Space: 5},
	} {
		t.Run(name, func(t *testing.T) {
			exec, err := fixtures.LastSymbol().BoundedCompute("1110", limits)
			require.NoError(t, err)
			exec.Run()
			before := exec.Snapshot()

			exec.Step()
			exec.Run()
			assert.Equal(t, 0, exec.StepN(10))

			assert.Equal(t, before, exec.Snapshot())
		})
	}
}

func TestExecution_Invariants(t *testing.T) {
	def := fixtures.EvenOnes()
	exec, err := def.Compute("1101001")
	require.NoError(t, err)

	prevTime := exec.Clock().Time
	prevLen := exec.Len()
	for !exec.Halted() {
		exec.Step()
		clock := exec.Clock()

		assert.Equal(t, prevTime+1, clock.Time, "time advances by one per step")
		assert.GreaterOrEqual(t, exec.Len(), prevLen, "tape never shrinks")
		assert.Equal(t, exec.Len(), clock.Space)
		assert.Less(t, exec.Head(), exec.Len(), "head stays on the tape")
		assert.Equal(t, domain.LeftMarker, exec.Cell(0), "left-end marker survives")

		prevTime = clock.Time
		prevLen = exec.Len()
	}
	assert.Equal(t, domain.StatusAccept, exec.Status(), "four 1s is even")
}

func TestExecution_EvenOnes(t *testing.T) {
	def := fixtures.EvenOnes()
	tests := map[string]domain.Status{
		"":       domain.StatusAccept,
		"0":      domain.StatusAccept,
		"1":      domain.StatusReject,
		"11":     domain.StatusAccept,
		"10101":  domain.StatusReject,
		"011110": domain.StatusAccept,
	}
	for word, want := range tests {
		exec, err := def.Compute(word)
		require.NoError(t, err)
		exec.Run()
		assert.Equal(t, want, exec.Status(), "word %q", word)
	}
}

func TestExecution_Runaway(t *testing.T) {
	exec, err := fixtures.Runaway().BoundedCompute("01", domain.Limits{Time: 100})
	require.NoError(t, err)
	exec.Run()

	assert.Equal(t, domain.StatusTimeout, exec.Status())
	assert.Equal(t, 100, exec.Clock().Time)
	// 99 moves right from cell 0 leave the head on cell 99.
	assert.Equal(t, 99, exec.Head())
	assert.Equal(t, 100, exec.Len())
}

// jumper moves the head by a fixed offset each step in state "jump" and
// accepts after a fixed number of rounds.
func jumper(t *testing.T, offset int) *machine.Definition {
	t.Helper()
	row := func(next, move int) []domain.Transition {
		r := make([]domain.Transition, 4)
		for c := range r {
			r[c] = domain.Transition{Next: next, Write: c, Move: move}
		}
		return r
	}
	def, err := machine.New(machine.Config{
		States:          []domain.State{"start", "accept", "reject", "jump"},
		ControlSymbols:  []domain.Symbol{"_", ">"},
		LanguageSymbols: []domain.Symbol{"0", "1"},
		Transitions: [][]domain.Transition{
			row(3, 1),
			nil,
			nil,
			row(1, offset),
		},
		Start:  0,
		Accept: 1,
		Reject: 2,
	})
	require.NoError(t, err)
	return def
}

func TestExecution_MoveOffsets(t *testing.T) {
	t.Run("Long Right Move Grows Tape", func(t *testing.T) {
		exec, err := jumper(t, 4).Compute("0", machine.WithHaltOrder(machine.HaltAfterMove))
		require.NoError(t, err)
		exec.Run()

		assert.Equal(t, domain.StatusAccept, exec.Status())
		assert.Equal(t, 5, exec.Head())
		assert.Equal(t, []int{1, 2, 0, 0, 0, 0}, exec.Tape())
		assert.Equal(t, 6, exec.Clock().Space)
	})

	t.Run("Left Move Clamps At Zero", func(t *testing.T) {
		exec, err := jumper(t, -7).Compute("0", machine.WithHaltOrder(machine.HaltAfterMove))
		require.NoError(t, err)
		exec.Run()

		assert.Equal(t, domain.StatusAccept, exec.Status())
		assert.Equal(t, 0, exec.Head())
		assert.Equal(t, 2, exec.Len())
	})

	t.Run("Overflow Panics", func(t *testing.T) {
		exec, err := jumper(t, math.MaxInt).Compute("0", machine.WithHaltOrder(machine.HaltAfterMove))
		require.NoError(t, err)
		exec.Step()
		before := exec.Snapshot()

		defer func() {
			r := recover()
			fault, ok := r.(*domain.HeadOverflowFault)
			require.True(t, ok, "expected *domain.HeadOverflowFault, got %T", r)
			assert.Equal(t, 1, fault.Head)
			assert.Equal(t, math.MaxInt, fault.Move)

			after := exec.Snapshot()
			assert.Equal(t, before.Tape, after.Tape)
			assert.Equal(t, before.State, after.State)
			assert.Equal(t, before.Head, after.Head)
		}()
		exec.Step()
		t.Fatal("expected a panic")
	})
}

func TestExecution_TerminalStart(t *testing.T) {
	def, err := machine.New(machine.Config{
		States:          []domain.State{"yes", "no"},
		ControlSymbols:  []domain.Symbol{"_", ">"},
		LanguageSymbols: []domain.Symbol{"a"},
		Start:           0,
		Accept:          0,
		Reject:          1,
	})
	require.NoError(t, err)

	exec, err := def.Compute("aaa")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, exec.Status())

	exec.Step()
	assert.Equal(t, domain.StatusAccept, exec.Status())
	assert.Equal(t, 1, exec.Clock().Time)
	assert.Equal(t, []int{1, 2, 2, 2}, exec.Tape())
}

func TestExecution_TimeLimitOne(t *testing.T) {
	exec, err := fixtures.Minimal().BoundedCompute("0", domain.Limits{Time: 1})
	require.NoError(t, err)
	exec.Run()

	// The limit is checked before the transition is applied.
	assert.Equal(t, domain.StatusTimeout, exec.Status())
	assert.Equal(t, 0, exec.State())
	assert.Equal(t, 0, exec.Head())
}

func TestExecution_NegativeLimitsAreUnbounded(t *testing.T) {
	exec, err := fixtures.LastSymbol().BoundedCompute("10", domain.Limits{Time: -1, Space: -5})
	require.NoError(t, err)
	exec.Run()

	assert.Equal(t, domain.StatusAccept, exec.Status())
	assert.Equal(t, 0, exec.Clock().TimeLimit)
	assert.Equal(t, 0, exec.Clock().SpaceLimit)
}

func TestExecution_RunContext(t *testing.T) {
	t.Run("Halts", func(t *testing.T) {
		exec, err := fixtures.LastSymbol().Compute("1110")
		require.NoError(t, err)
		require.NoError(t, exec.RunContext(context.Background()))
		assert.Equal(t, domain.StatusAccept, exec.Status())
	})

	t.Run("Canceled", func(t *testing.T) {
		exec, err := fixtures.Runaway().Compute("")
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err = exec.RunContext(ctx)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, domain.StatusRunning, exec.Status())
	})
}

func TestExecution_StepN(t *testing.T) {
	exec, err := fixtures.LastSymbol().Compute("1110")
	require.NoError(t, err)

	assert.Equal(t, 3, exec.StepN(3))
	assert.Equal(t, 3, exec.Clock().Time)
	assert.False(t, exec.Halted())

	assert.Equal(t, 4, exec.StepN(100), "stops at the halting step")
	assert.True(t, exec.Halted())
}

func TestExecution_TapeIsCopied(t *testing.T) {
	exec, err := fixtures.LastSymbol().Compute("10")
	require.NoError(t, err)

	tape := exec.Tape()
	tape[1] = 0
	assert.Equal(t, 3, exec.Cell(1))
}
