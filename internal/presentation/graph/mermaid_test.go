package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/fixtures"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name        string
		def         *machine.Definition
		contains    []string
		notContains []string
	}{
		{
			name: "Shapes",
			def:  fixtures.LastSymbol(),
			contains: []string{
				"graph LR",
				`s0(("start"))`,
				`s1(["accept"])`,
				`s2{{"reject"}}`,
				`s3["iterate_to_end"]`,
			},
		},
		{
			name: "Merged Edges",
			def:  fixtures.LastSymbol(),
			contains: []string{
				`s3 -- "_/_,L" --> s4`,
				`s3 -- "#gt;/#gt;,R<br/>0/0,R<br/>1/1,R" --> s3`,
				`s4 -- "0/0,R" --> s1`,
			},
		},
		{
			name: "Stay Moves",
			def:  fixtures.EvenOnes(),
			contains: []string{
				`s3 -- "_/_,S" --> s1`,
			},
		},
		{
			name:        "Terminal States Have No Edges",
			def:         fixtures.Minimal(),
			notContains: []string{"s1 --", "s2 --"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := graph.GenerateMermaid(tt.def, nil)
			for _, c := range tt.contains {
				assert.Contains(t, out, c)
			}
			for _, c := range tt.notContains {
				assert.NotContains(t, out, c)
			}
			assert.NotContains(t, out, "Overlay")
		})
	}
}

func TestGenerateMermaid_LongMoves(t *testing.T) {
	def, err := machine.New(machine.Config{
		States:          []domain.State{"s", "y", "n"},
		ControlSymbols:  []domain.Symbol{"_", ">"},
		LanguageSymbols: []domain.Symbol{`"`},
		Transitions: [][]domain.Transition{
			{{Next: 1, Move: 3}, {Next: 1, Write: 1, Move: -2}, {Next: 2, Write: 2}},
			nil, nil,
		},
		Accept: 1,
		Reject: 2,
	})
	require.NoError(t, err)

	out := graph.GenerateMermaid(def, nil)
	assert.Contains(t, out, `"_/_,+3<br/>#gt;/#gt;,-2"`)
	assert.Contains(t, out, `"#quot;/#quot;,S"`)
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	exec, err := fixtures.LastSymbol().Compute("10")
	require.NoError(t, err)
	exec.StepN(2)

	out := graph.GenerateMermaid(exec.Machine(), graph.Overlay(exec, 0, 3, 3, 99))

	assert.Contains(t, out, "classDef visited")
	assert.Contains(t, out, "class s0 visited;")
	assert.Equal(t, 1, strings.Count(out, "class s3 visited;"), "visited states are deduplicated")
	assert.NotContains(t, out, "class s99")
	assert.Contains(t, out, "class s3 current;")
}

func TestStatus(t *testing.T) {
	exec, err := fixtures.LastSymbol().Compute("10")
	require.NoError(t, err)
	assert.Equal(t, `running in "start" after 0 steps, 3 cells`, graph.Status(exec))

	exec.Run()
	assert.Equal(t, `accept in "accept" after 5 steps, 4 cells`, graph.Status(exec))
}
