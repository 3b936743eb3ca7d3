package dsl

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
)

// Builder manages the machine construction.
type Builder struct {
	states   []domain.State
	control  []domain.Symbol
	language []domain.Symbol
	start    domain.State
	accept   domain.State
	reject   domain.State
	rules    []*RuleBuilder
}

// New creates a new machine builder.
func New() *Builder {
	return &Builder{}
}

// States appends state labels, in index order.
func (b *Builder) States(labels ...string) *Builder {
	for _, l := range labels {
		b.states = append(b.states, domain.State(l))
	}
	return b
}

// Control appends tape-control symbols. The first is the blank and the
// second the left-end marker.
func (b *Builder) Control(labels ...string) *Builder {
	for _, l := range labels {
		b.control = append(b.control, domain.Symbol(l))
	}
	return b
}

// Language appends language symbols.
func (b *Builder) Language(labels ...string) *Builder {
	for _, l := range labels {
		b.language = append(b.language, domain.Symbol(l))
	}
	return b
}

// Start sets the start state.
func (b *Builder) Start(state string) *Builder {
	b.start = domain.State(state)
	return b
}

// Accept sets the accept state.
func (b *Builder) Accept(state string) *Builder {
	b.accept = domain.State(state)
	return b
}

// Reject sets the reject state.
func (b *Builder) Reject(state string) *Builder {
	b.reject = domain.State(state)
	return b
}

// From begins a rule for the given state. The rule is added to the machine
// when Go is called.
func (b *Builder) From(state string) *RuleBuilder {
	return &RuleBuilder{builder: b, from: domain.State(state)}
}

// Build resolves labels to indices and validates the resulting machine.
func (b *Builder) Build() (*machine.Definition, error) {
	var errs []error
	fail := func(field, format string, args ...any) {
		errs = append(errs, &domain.FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	stateIndex := make(map[domain.State]int, len(b.states))
	for i, s := range b.states {
		if _, dup := stateIndex[s]; dup {
			fail("states", "duplicate state %q", s)
			continue
		}
		stateIndex[s] = i
	}

	alphabet := make([]domain.Symbol, 0, len(b.control)+len(b.language))
	alphabet = append(alphabet, b.control...)
	alphabet = append(alphabet, b.language...)
	symbolIndex := make(map[domain.Symbol]int, len(alphabet))
	for i, s := range alphabet {
		if _, dup := symbolIndex[s]; !dup {
			symbolIndex[s] = i
		}
	}

	lookupState := func(field string, s domain.State) int {
		i, ok := stateIndex[s]
		if !ok {
			fail(field, "unknown state %q", s)
			return -1
		}
		return i
	}
	lookupSymbol := func(field string, s domain.Symbol) int {
		i, ok := symbolIndex[s]
		if !ok {
			fail(field, "unknown symbol %q", s)
			return -1
		}
		return i
	}

	cfg := machine.Config{
		States:          b.states,
		ControlSymbols:  b.control,
		LanguageSymbols: b.language,
		Start:           lookupState("start", b.start),
		Accept:          lookupState("accept", b.accept),
		Reject:          lookupState("reject", b.reject),
		Transitions:     make([][]domain.Transition, len(b.states)),
	}

	width := len(alphabet)
	explicit := make([][]*RuleBuilder, len(b.states))
	fallback := make([]*RuleBuilder, len(b.states))

	for n, r := range b.rules {
		field := fmt.Sprintf("rules[%d]", n)
		from := lookupState(field+".from", r.from)
		to := lookupState(field+".to", r.to)
		if from < 0 || to < 0 {
			continue
		}
		r.next = to
		if r.write != nil {
			r.writeIndex = lookupSymbol(field+".write", *r.write)
		}
		if explicit[from] == nil {
			explicit[from] = make([]*RuleBuilder, width)
		}
		if r.on == nil {
			if fallback[from] != nil {
				fail(field, "state %q already has an Otherwise rule", r.from)
			}
			fallback[from] = r
			continue
		}
		for _, sym := range r.on {
			c := lookupSymbol(field+".on", sym)
			if c < 0 {
				continue
			}
			if explicit[from][c] != nil {
				fail(field, "state %q already has a rule for %q", r.from, sym)
				continue
			}
			explicit[from][c] = r
		}
	}

	for s := range b.states {
		if s == cfg.Accept || s == cfg.Reject {
			continue
		}
		row := make([]domain.Transition, width)
		for c := 0; c < width; c++ {
			var r *RuleBuilder
			if explicit[s] != nil {
				r = explicit[s][c]
			}
			if r == nil {
				r = fallback[s]
			}
			if r == nil {
				fail(fmt.Sprintf("states[%d]", s), "no rule for state %q reading %q", b.states[s], alphabet[c])
				continue
			}
			row[c] = r.transition(c)
		}
		cfg.Transitions[s] = row
	}

	if len(errs) > 0 {
		return nil, &domain.DefinitionError{Errors: errs}
	}

	return machine.New(cfg)
}
