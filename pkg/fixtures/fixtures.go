// Package fixtures provides named machines for tests, examples and benchmarks.
// They are ordinary constructors, not process-wide defaults.
package fixtures

import (
	"github.com/aretw0/turing/pkg/dsl"
	"github.com/aretw0/turing/pkg/machine"
)

// Names of the fixtures returned by All.
const (
	MinimalName    = "minimal"
	LastSymbolName = "last-symbol"
	EvenOnesName   = "even-ones"
	RunawayName    = "runaway"
)

// binary returns a builder over the {_, >} control and {0, 1} language alphabets.
func binary(states ...string) *dsl.Builder {
	return dsl.New().
		Control("_", ">").
		Language("0", "1").
		States(states...)
}

// Minimal is the three-state machine q0, q1, q2 that moves right once and
// accepts every word.
func Minimal() *machine.Definition {
	b := binary("q0", "q1", "q2").Start("q0").Accept("q1").Reject("q2")
	b.From("q0").Otherwise().Right().Go("q1")
	return must(b.Build())
}

// LastSymbol accepts words over {0, 1} whose last symbol is 0. It walks to the
// first blank, steps back once and inspects the cell.
func LastSymbol() *machine.Definition {
	b := binary("start", "accept", "reject", "iterate_to_end", "last_symbol_check").
		Start("start").Accept("accept").Reject("reject")

	b.From("start").Otherwise().Right().Go("iterate_to_end")

	b.From("iterate_to_end").On("_").Left().Go("last_symbol_check")
	b.From("iterate_to_end").Otherwise().Right().Go("iterate_to_end")

	b.From("last_symbol_check").On("0").Right().Go("accept")
	b.From("last_symbol_check").Otherwise().Right().Go("reject")

	return must(b.Build())
}

// EvenOnes accepts words over {0, 1} containing an even number of 1s.
func EvenOnes() *machine.Definition {
	b := binary("start", "accept", "reject", "even", "odd").
		Start("start").Accept("accept").Reject("reject")

	b.From("start").Otherwise().Right().Go("even")

	b.From("even").On("0").Right().Go("even")
	b.From("even").On("1").Right().Go("odd")
	b.From("even").On("_").Go("accept")
	b.From("even").Otherwise().Go("reject")

	b.From("odd").On("0").Right().Go("odd")
	b.From("odd").On("1").Right().Go("even")
	b.From("odd").Otherwise().Go("reject")

	return must(b.Build())
}

// Runaway never halts: it moves right forever, growing the tape by one blank
// per step. Only limits stop it.
func Runaway() *machine.Definition {
	b := binary("start", "accept", "reject", "run").
		Start("start").Accept("accept").Reject("reject")

	b.From("start").Otherwise().Right().Go("run")
	b.From("run").Otherwise().Right().Go("run")

	return must(b.Build())
}

// All returns a fresh instance of every fixture keyed by name.
func All() map[string]*machine.Definition {
	return map[string]*machine.Definition{
		MinimalName:    Minimal(),
		LastSymbolName: LastSymbol(),
		EvenOnesName:   EvenOnes(),
		RunawayName:    Runaway(),
	}
}

func must(def *machine.Definition, err error) *machine.Definition {
	if err != nil {
		panic("fixtures: " + err.Error())
	}
	return def
}
