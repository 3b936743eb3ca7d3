package runner

import (
	"fmt"
	"math"
	"strings"
)

// Report renders samples as a Markdown table, one row per word.
func Report(title string, samples []Sample) string {
	var sb strings.Builder
	if title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}
	if len(samples) == 0 {
		sb.WriteString("_No samples._\n")
		return sb.String()
	}

	sb.WriteString("| Length | Steps | Cells | Status | Elapsed | Steps/s |\n")
	sb.WriteString("|-------:|------:|------:|:-------|--------:|--------:|\n")

	var steps int
	var seconds float64
	for _, s := range samples {
		fmt.Fprintf(&sb, "| %d | %d | %d | %s | %s | %s |\n",
			s.Length, s.Steps, s.Cells, s.Status, s.Elapsed, magnitude(s.StepsPerSecond))
		steps += s.Steps
		seconds += s.Elapsed.Seconds()
	}

	if seconds > 0 {
		fmt.Fprintf(&sb, "\n**Overall:** %d steps in %.3fs (%s steps/s)\n",
			steps, seconds, magnitude(float64(steps)/seconds))
	}
	return sb.String()
}

// magnitude formats a rate as "1eX" with one decimal on the exponent.
func magnitude(rate float64) string {
	if rate <= 0 {
		return "-"
	}
	return fmt.Sprintf("1e%.1f", math.Log10(rate))
}
