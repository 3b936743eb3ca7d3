package machine_test

import (
	"testing"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/fixtures"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() machine.Config {
	row := []domain.Transition{{Next: 1}, {Next: 1, Write: 1, Move: 1}, {Next: 2, Write: 2}}
	return machine.Config{
		States:          []domain.State{"s", "yes", "no"},
		ControlSymbols:  []domain.Symbol{"_", ">"},
		LanguageSymbols: []domain.Symbol{"a"},
		Transitions:     [][]domain.Transition{row, nil, nil},
		Start:           0,
		Accept:          1,
		Reject:          2,
	}
}

func TestNew_Valid(t *testing.T) {
	def, err := machine.New(validConfig())
	require.NoError(t, err)

	assert.Equal(t, []domain.State{"s", "yes", "no"}, def.States())
	assert.Equal(t, []domain.Symbol{"_", ">", "a"}, def.Alphabet())
	assert.Equal(t, []domain.Symbol{"_", ">"}, def.ControlSymbols())
	assert.Equal(t, []domain.Symbol{"a"}, def.LanguageSymbols())
	assert.Equal(t, 0, def.StartState())
	assert.True(t, def.IsTerminal(1))
	assert.True(t, def.IsTerminal(2))
	assert.False(t, def.IsTerminal(0))

	tr, ok := def.Transition(0, 1)
	assert.True(t, ok)
	assert.Equal(t, domain.Transition{Next: 1, Write: 1, Move: 1}, tr)

	_, ok = def.Transition(1, 0)
	assert.False(t, ok, "terminal rows are never consulted")
}

func TestNew_CopiesConfig(t *testing.T) {
	cfg := validConfig()
	def, err := machine.New(cfg)
	require.NoError(t, err)

	cfg.States[0] = "mutated"
	cfg.Transitions[0][0].Next = 2
	cfg.LanguageSymbols[0] = "z"

	assert.Equal(t, domain.State("s"), def.StateLabel(0))
	tr, _ := def.Transition(0, 0)
	assert.Equal(t, 1, tr.Next)
	assert.Equal(t, domain.Symbol("a"), def.SymbolLabel(2))

	// Accessors hand out copies too.
	def.States()[0] = "mutated"
	assert.Equal(t, domain.State("s"), def.StateLabel(0))
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*machine.Config)
		fields []string
	}{
		{
			name:   "No States",
			mutate: func(c *machine.Config) { c.States = nil; c.Transitions = nil },
			fields: []string{"states", "start", "accept", "reject"},
		},
		{
			name:   "Missing Left Marker",
			mutate: func(c *machine.Config) {
				c.ControlSymbols = []domain.Symbol{"_"}
				c.LanguageSymbols = []domain.Symbol{"a", "b"}
			},
			fields: []string{"control_symbols"},
		},
		{
			name:   "Duplicate Symbol",
			mutate: func(c *machine.Config) { c.LanguageSymbols = []domain.Symbol{">"} },
			fields: []string{"language_symbols[0]"},
		},
		{
			name:   "Empty Symbol",
			mutate: func(c *machine.Config) { c.LanguageSymbols = []domain.Symbol{""} },
			fields: []string{"language_symbols[0]"},
		},
		{
			name:   "Accept Equals Reject",
			mutate: func(c *machine.Config) { c.Reject = 1 },
			fields: []string{"reject", "transitions[2]"},
		},
		{
			name:   "Start Out Of Range",
			mutate: func(c *machine.Config) { c.Start = 3 },
			fields: []string{"start"},
		},
		{
			name:   "Short Row",
			mutate: func(c *machine.Config) { c.Transitions[0] = c.Transitions[0][:2] },
			fields: []string{"transitions[0]"},
		},
		{
			name:   "Bad Next And Write",
			mutate: func(c *machine.Config) { c.Transitions[0][2] = domain.Transition{Next: 7, Write: -1} },
			fields: []string{"transitions[0][2].next", "transitions[0][2].write"},
		},
		{
			name: "Extra Rows",
			mutate: func(c *machine.Config) {
				c.Transitions = append(c.Transitions, nil)
			},
			fields: []string{"transitions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			def, err := machine.New(cfg)
			require.Error(t, err)
			assert.Nil(t, def)

			var defErr *domain.DefinitionError
			require.ErrorAs(t, err, &defErr)

			var fields []string
			for _, e := range domain.DefinitionErrors(err) {
				var fe *domain.FieldError
				require.ErrorAs(t, e, &fe)
				fields = append(fields, fe.Field)
			}
			assert.ElementsMatch(t, tt.fields, fields)
		})
	}
}

func TestEncode(t *testing.T) {
	def := fixtures.LastSymbol()

	tape, err := def.Encode("0110")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 3, 2}, tape)

	tape, err = def.Encode("")
	require.NoError(t, err)
	assert.Equal(t, []int{1}, tape)

	// Control symbols are valid input characters too.
	tape, err = def.Encode("0_")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 0}, tape)
}

func TestEncode_MixedAlphabet(t *testing.T) {
	def, err := machine.New(machine.Config{
		States:          []domain.State{"s", "yes", "no"},
		ControlSymbols:  []domain.Symbol{"_", ">", "#"},
		LanguageSymbols: []domain.Symbol{"x", "ab"},
		Transitions: [][]domain.Transition{
			make([]domain.Transition, 5), nil, nil,
		},
		Accept: 1,
		Reject: 2,
	})
	require.NoError(t, err)

	tape, err := def.Encode("x#")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 2}, tape)

	// Multi-character labels are legal but cannot be spelled in a word.
	_, err = def.Encode("ab")
	var symErr *domain.UnknownSymbolError
	require.ErrorAs(t, err, &symErr)
	assert.Equal(t, "a", symErr.Symbol)
}

func TestDescribe(t *testing.T) {
	def, err := machine.New(validConfig())
	require.NoError(t, err)

	short := def.Describe("tiny", false)
	assert.Equal(t, "tiny", short.Name)
	assert.Equal(t, domain.State("s"), short.Start)
	assert.Equal(t, domain.State("yes"), short.Accept)
	assert.Equal(t, domain.State("no"), short.Reject)
	assert.Empty(t, short.Rules)

	full := def.Describe("tiny", true)
	require.Len(t, full.Rules, 3)
	assert.Equal(t, machine.Rule{State: "s", Read: ">", Next: "yes", Write: ">", Move: 1}, full.Rules[1])
	assert.Equal(t, machine.Rule{State: "s", Read: "a", Next: "no", Write: "a"}, full.Rules[2])
}
