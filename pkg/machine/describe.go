package machine

import "github.com/aretw0/turing/pkg/domain"

// Description is a label-based view of a definition, suitable for encoding.
type Description struct {
	Name            string          `json:"name" yaml:"name"`
	States          []domain.State  `json:"states" yaml:"states"`
	ControlSymbols  []domain.Symbol `json:"control_symbols" yaml:"control_symbols"`
	LanguageSymbols []domain.Symbol `json:"language_symbols" yaml:"language_symbols"`
	Start           domain.State    `json:"start" yaml:"start"`
	Accept          domain.State    `json:"accept" yaml:"accept"`
	Reject          domain.State    `json:"reject" yaml:"reject"`
	Rules           []Rule          `json:"rules,omitempty" yaml:"rules,omitempty"`
}

// Rule is one transition with its indices resolved to labels.
type Rule struct {
	State domain.State  `json:"state" yaml:"state"`
	Read  domain.Symbol `json:"read" yaml:"read"`
	Next  domain.State  `json:"next" yaml:"next"`
	Write domain.Symbol `json:"write" yaml:"write"`
	Move  int           `json:"move" yaml:"move"`
}

// Describe returns the definition's labels under name. With rules set, every
// transition of the non-terminal states is listed in table order.
func (d *Definition) Describe(name string, rules bool) Description {
	desc := Description{
		Name:            name,
		States:          d.States(),
		ControlSymbols:  d.ControlSymbols(),
		LanguageSymbols: d.LanguageSymbols(),
		Start:           d.states[d.start],
		Accept:          d.states[d.accept],
		Reject:          d.states[d.reject],
	}
	if !rules {
		return desc
	}
	for q := range d.states {
		if d.isTerminal(q) {
			continue
		}
		for s, t := range d.transitions[q] {
			desc.Rules = append(desc.Rules, Rule{
				State: d.states[q],
				Read:  d.alphabet[s],
				Next:  d.states[t.Next],
				Write: d.alphabet[t.Write],
				Move:  t.Move,
			})
		}
	}
	return desc
}
