package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
)

// GraphOverlay contains execution data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []int
	CurrentState  int
	HasCurrent    bool
}

// Overlay builds an overlay marking the execution's current state.
func Overlay(exec *machine.Execution, visited ...int) *GraphOverlay {
	return &GraphOverlay{
		VisitedStates: visited,
		CurrentState:  exec.State(),
		HasCurrent:    true,
	}
}

// GenerateMermaid produces a Mermaid flowchart of the transition table.
// It applies semantic styling:
// - Start: ((Circle))
// - Accept: (["Stadium"])
// - Reject: {{Hexagon}}
// - Default: [Rectangle]
// Transitions between the same pair of states are merged into one edge whose
// label lists every "read/write,move" triple. Overlay styles (Visited/Current)
// are applied if provided.
func GenerateMermaid(def *machine.Definition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	states := def.States()
	for i, label := range states {
		opener, closer := "[", "]"
		switch i {
		case def.StartState():
			opener, closer = "((", "))"
		case def.AcceptState():
			opener, closer = "([", "])"
		case def.RejectState():
			opener, closer = "{{", "}}"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(i), opener, escape(string(label)), closer)
	}

	// A terminal start state has no outgoing edges, so the shapes above
	// already say everything.
	width := len(def.Alphabet())
	for from := range states {
		if def.IsTerminal(from) {
			continue
		}
		labels := make(map[int][]string)
		var order []int
		for read := 0; read < width; read++ {
			t, _ := def.Transition(from, read)
			if _, seen := labels[t.Next]; !seen {
				order = append(order, t.Next)
			}
			labels[t.Next] = append(labels[t.Next], fmt.Sprintf("%s/%s,%s",
				escape(string(def.SymbolLabel(read))),
				escape(string(def.SymbolLabel(t.Write))),
				move(t.Move)))
		}
		for _, to := range order {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(from), strings.Join(labels[to], "<br/>"), nodeID(to))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, s := range overlay.VisitedStates {
			if s < 0 || s >= len(states) || seen[s] {
				continue
			}
			seen[s] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(s))
		}
		if overlay.HasCurrent && overlay.CurrentState >= 0 && overlay.CurrentState < len(states) {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.CurrentState))
		}
	}

	return sb.String()
}

// Status returns a short caption for an execution, used under rendered graphs.
func Status(exec *machine.Execution) string {
	c := exec.Clock()
	caption := fmt.Sprintf("%s in %q after %d steps, %d cells", exec.Status(), exec.StateLabel(), c.Time, c.Space)
	if exec.Status() == domain.StatusRunning {
		caption = fmt.Sprintf("running in %q after %d steps, %d cells", exec.StateLabel(), c.Time, c.Space)
	}
	return caption
}

func nodeID(state int) string {
	return fmt.Sprintf("s%d", state)
}

func move(offset int) string {
	switch offset {
	case -1:
		return "L"
	case 0:
		return "S"
	case 1:
		return "R"
	}
	return fmt.Sprintf("%+d", offset)
}

// escape makes a label safe inside a quoted Mermaid string.
func escape(label string) string {
	r := strings.NewReplacer(`"`, "#quot;", "<", "#lt;", ">", "#gt;")
	return r.Replace(label)
}
