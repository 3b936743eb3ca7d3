package dsl

import "github.com/aretw0/turing/pkg/domain"

// RuleBuilder provides a fluent API for configuring one transition rule.
type RuleBuilder struct {
	builder *Builder
	from    domain.State
	on      []domain.Symbol // nil for an Otherwise rule
	write   *domain.Symbol  // nil keeps the symbol read
	move    int
	to      domain.State

	// resolved by Build
	next       int
	writeIndex int
}

// On restricts the rule to the given read symbols.
func (r *RuleBuilder) On(symbols ...string) *RuleBuilder {
	r.on = make([]domain.Symbol, 0, len(symbols))
	for _, s := range symbols {
		r.on = append(r.on, domain.Symbol(s))
	}
	return r
}

// Otherwise makes the rule cover every symbol without an explicit rule.
func (r *RuleBuilder) Otherwise() *RuleBuilder {
	r.on = nil
	return r
}

// Write sets the symbol written over the read cell.
func (r *RuleBuilder) Write(symbol string) *RuleBuilder {
	s := domain.Symbol(symbol)
	r.write = &s
	return r
}

// Move sets an arbitrary head offset.
func (r *RuleBuilder) Move(offset int) *RuleBuilder {
	r.move = offset
	return r
}

// Left moves the head one cell to the left.
func (r *RuleBuilder) Left() *RuleBuilder { return r.Move(-1) }

// Right moves the head one cell to the right.
func (r *RuleBuilder) Right() *RuleBuilder { return r.Move(1) }

// Stay keeps the head in place.
func (r *RuleBuilder) Stay() *RuleBuilder { return r.Move(0) }

// Go sets the target state and adds the rule to the machine.
func (r *RuleBuilder) Go(state string) *Builder {
	r.to = domain.State(state)
	r.builder.rules = append(r.builder.rules, r)
	return r.builder
}

func (r *RuleBuilder) transition(read int) domain.Transition {
	write := read
	if r.write != nil {
		write = r.writeIndex
	}
	return domain.Transition{Next: r.next, Write: write, Move: r.move}
}
