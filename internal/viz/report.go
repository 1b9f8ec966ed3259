package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dsatizabal/pid-controller/internal/storage"
)

// RenderReport formats a finished or stored run for the terminal.
func RenderReport(meta *storage.RunMetadata) string {
	var s strings.Builder

	title := meta.Scenario
	if title == "" {
		title = "scenario"
	}
	s.WriteString(titleStyle.Render(title) + " " + subtleStyle.Render("("+meta.Model+")") + "  " + Badge(meta.Outcome) + "\n")
	if meta.ID != "" {
		s.WriteString(subtleStyle.Render("run "+meta.ID) + "\n")
	}
	s.WriteString("\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}

	p := meta.Policy
	row("setpoint", fmt.Sprintf("%d", meta.Setpoint))
	row("initial feedback", fmt.Sprintf("%d", meta.InitialFeedback))
	row("final feedback", fmt.Sprintf("%d", meta.FinalFeedback))
	row("cycles", fmt.Sprintf("%d / %d", meta.CyclesRun, p.TotalCycles))
	row("settling", fmt.Sprintf("±%d from cycle %d", p.ToleranceDuringSettling, p.SettlingCycleThreshold))
	row("final tolerance", fmt.Sprintf("±%d", p.ToleranceFinal))
	if meta.Clock != "" {
		row("clock", fmt.Sprintf("%s (%.2f MHz)", meta.Clock, meta.ClockHz/1e6))
	}
	if len(meta.Gains) > 0 {
		gains := make([]string, 0, len(meta.Gains))
		for _, name := range sortedKeys(meta.Gains) {
			gains = append(gains, fmt.Sprintf("%s=%g", name, meta.Gains[name]))
		}
		row("gains", strings.Join(gains, " "))
	}

	if len(meta.Metrics) > 0 {
		s.WriteString("\n")
		for _, name := range sortedKeys(meta.Metrics) {
			row(name, fmt.Sprintf("%.2f", meta.Metrics[name]))
		}
	}

	if meta.Failure != "" {
		s.WriteString("\n" + errorStyle.Render(meta.Failure) + "\n")
	}

	return panelStyle.Render(strings.TrimRight(s.String(), "\n"))
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
