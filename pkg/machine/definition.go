package machine

import (
	"fmt"
	"unicode/utf8"

	"github.com/aretw0/turing/pkg/domain"
)

// Config holds the raw parts of a machine definition.
// Transitions is indexed [state][combined symbol]; rows of the accept and
// reject states may be nil.
type Config struct {
	States          []domain.State
	ControlSymbols  []domain.Symbol
	LanguageSymbols []domain.Symbol
	Transitions     [][]domain.Transition
	Start           int
	Accept          int
	Reject          int
}

// Definition is an immutable deterministic Turing machine.
type Definition struct {
	states      []domain.State
	alphabet    []domain.Symbol // control symbols followed by language symbols
	control     int             // number of control symbols
	transitions [][]domain.Transition
	start       int
	accept      int
	reject      int
	runes       map[rune]int // combined index of every single-character symbol
}

// New validates cfg and returns the machine it describes.
// Every violation is reported at once through a *domain.DefinitionError.
// The caller's slices are copied, so later changes to cfg do not leak in.
func New(cfg Config) (*Definition, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	d := &Definition{
		states:      append([]domain.State(nil), cfg.States...),
		control:     len(cfg.ControlSymbols),
		transitions: make([][]domain.Transition, len(cfg.States)),
		start:       cfg.Start,
		accept:      cfg.Accept,
		reject:      cfg.Reject,
		runes:       make(map[rune]int),
	}
	d.alphabet = make([]domain.Symbol, 0, len(cfg.ControlSymbols)+len(cfg.LanguageSymbols))
	d.alphabet = append(d.alphabet, cfg.ControlSymbols...)
	d.alphabet = append(d.alphabet, cfg.LanguageSymbols...)

	for i, row := range cfg.Transitions {
		if d.isTerminal(i) {
			continue
		}
		d.transitions[i] = append([]domain.Transition(nil), row...)
	}

	// Language symbols take precedence over control symbols when encoding.
	for i, s := range d.alphabet {
		if r, size := utf8.DecodeRuneInString(string(s)); size == len(s) && r != utf8.RuneError {
			if _, taken := d.runes[r]; !taken || i >= d.control {
				d.runes[r] = i
			}
		}
	}

	return d, nil
}

func validate(cfg Config) error {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &domain.FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	nStates := len(cfg.States)
	nControl := len(cfg.ControlSymbols)
	width := nControl + len(cfg.LanguageSymbols)

	if nStates == 0 {
		fail("states", "at least one state is required")
	}
	if nControl < 2 {
		fail("control_symbols", "a blank and a left-end marker are required, got %d symbols", nControl)
	}

	seen := make(map[domain.Symbol]string, width)
	check := func(kind string, symbols []domain.Symbol) {
		for i, s := range symbols {
			field := fmt.Sprintf("%s[%d]", kind, i)
			if s == "" {
				fail(field, "empty label")
				continue
			}
			if prev, dup := seen[s]; dup {
				fail(field, "label %q already used by %s", s, prev)
				continue
			}
			seen[s] = field
		}
	}
	check("control_symbols", cfg.ControlSymbols)
	check("language_symbols", cfg.LanguageSymbols)

	inRange := func(field string, v int) bool {
		if v < 0 || v >= nStates {
			fail(field, "state index %d out of range [0, %d)", v, nStates)
			return false
		}
		return true
	}
	inRange("start", cfg.Start)
	okAccept := inRange("accept", cfg.Accept)
	okReject := inRange("reject", cfg.Reject)
	if okAccept && okReject && cfg.Accept == cfg.Reject {
		fail("reject", "accept and reject must be distinct states, both are %d", cfg.Accept)
	}

	if len(cfg.Transitions) > nStates {
		fail("transitions", "%d rows for %d states", len(cfg.Transitions), nStates)
	}

	for s := 0; s < nStates; s++ {
		if s == cfg.Accept || s == cfg.Reject {
			continue
		}
		field := fmt.Sprintf("transitions[%d]", s)
		if s >= len(cfg.Transitions) {
			fail(field, "missing row for non-terminal state %q", cfg.States[s])
			continue
		}
		row := cfg.Transitions[s]
		if len(row) != width {
			fail(field, "state %q has %d entries, want %d", cfg.States[s], len(row), width)
			continue
		}
		for c, t := range row {
			if t.Next < 0 || t.Next >= nStates {
				fail(fmt.Sprintf("%s[%d].next", field, c), "state index %d out of range [0, %d)", t.Next, nStates)
			}
			if t.Write < 0 || t.Write >= width {
				fail(fmt.Sprintf("%s[%d].write", field, c), "symbol index %d out of range [0, %d)", t.Write, width)
			}
		}
	}

	if len(errs) > 0 {
		return &domain.DefinitionError{Errors: errs}
	}
	return nil
}

// Encode maps word onto a fresh tape: cell 0 holds the left-end marker and
// cells 1..len(word) hold the combined index of each character.
// A character in neither alphabet yields a *domain.UnknownSymbolError.
func (d *Definition) Encode(word string) ([]int, error) {
	tape := make([]int, 1, utf8.RuneCountInString(word)+1)
	tape[0] = domain.LeftMarker

	pos := 0
	for _, r := range word {
		index, ok := d.runes[r]
		if !ok {
			return nil, &domain.UnknownSymbolError{Symbol: string(r), Position: pos}
		}
		tape = append(tape, index)
		pos++
	}
	return tape, nil
}

// Start encodes word and returns a running execution positioned on cell 0 in
// the start state.
func (d *Definition) Start(word string, limits domain.Limits, opts ...Option) (*Execution, error) {
	tape, err := d.Encode(word)
	if err != nil {
		return nil, err
	}
	e := &Execution{
		def:    d,
		state:  d.start,
		head:   0,
		tape:   tape,
		status: domain.StatusRunning,
		clock:  domain.NewClock(limits, len(tape)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Compute starts an unbounded execution of word.
func (d *Definition) Compute(word string, opts ...Option) (*Execution, error) {
	return d.Start(word, domain.Limits{}, opts...)
}

// BoundedCompute starts an execution of word under the given limits.
func (d *Definition) BoundedCompute(word string, limits domain.Limits, opts ...Option) (*Execution, error) {
	return d.Start(word, limits, opts...)
}

// States returns a copy of the state labels.
func (d *Definition) States() []domain.State {
	return append([]domain.State(nil), d.states...)
}

// Alphabet returns a copy of the combined alphabet.
func (d *Definition) Alphabet() []domain.Symbol {
	return append([]domain.Symbol(nil), d.alphabet...)
}

// ControlSymbols returns a copy of the tape-control alphabet.
func (d *Definition) ControlSymbols() []domain.Symbol {
	return append([]domain.Symbol(nil), d.alphabet[:d.control]...)
}

// LanguageSymbols returns a copy of the language alphabet.
func (d *Definition) LanguageSymbols() []domain.Symbol {
	return append([]domain.Symbol(nil), d.alphabet[d.control:]...)
}

// StateLabel returns the label of state i.
func (d *Definition) StateLabel(i int) domain.State {
	return d.states[i]
}

// SymbolLabel returns the label of combined symbol i.
func (d *Definition) SymbolLabel(i int) domain.Symbol {
	return d.alphabet[i]
}

// Transition returns the table entry for (state, symbol). The boolean is false
// for terminal states, whose rows are never consulted.
func (d *Definition) Transition(state, symbol int) (domain.Transition, bool) {
	if d.isTerminal(state) {
		return domain.Transition{}, false
	}
	return d.transitions[state][symbol], true
}

func (d *Definition) StartState() int  { return d.start }
func (d *Definition) AcceptState() int { return d.accept }
func (d *Definition) RejectState() int { return d.reject }

// IsTerminal reports whether state is the accept or the reject state.
func (d *Definition) IsTerminal(state int) bool {
	return d.isTerminal(state)
}

func (d *Definition) isTerminal(state int) bool {
	return state == d.accept || state == d.reject
}

// outcome maps a state to the status entering it produces.
func (d *Definition) outcome(state int) domain.Status {
	switch state {
	case d.accept:
		return domain.StatusAccept
	case d.reject:
		return domain.StatusReject
	}
	return domain.StatusRunning
}
