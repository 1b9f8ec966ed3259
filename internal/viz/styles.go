package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	green  = lipgloss.Color("#00ff88")
	amber  = lipgloss.Color("#ffcc00")
	red    = lipgloss.Color("#ff4444")
	muted  = lipgloss.Color("#666688")
	accent = lipgloss.Color("#00ccff")
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444466")).
			Padding(1, 2)

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff"))
	subtleStyle  = lipgloss.NewStyle().Foreground(muted)
	hintStyle    = subtleStyle.Italic(true)
	runningStyle = lipgloss.NewStyle().Bold(true).Foreground(green)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#888899")).Width(20)
	valueStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	errorStyle   = lipgloss.NewStyle().Foreground(red)
)

func badge(fg, bg lipgloss.Color, text string) string {
	return lipgloss.NewStyle().Bold(true).Foreground(fg).Background(bg).Padding(0, 1).Render(text)
}

// Badge renders an outcome name ("converged", "failed", "aborted").
func Badge(outcome string) string {
	switch outcome {
	case "converged":
		return badge("#000000", green, "PASS")
	case "failed":
		return badge("#ffffff", red, "FAIL")
	default:
		return badge("#000000", lipgloss.Color("#ffaa00"), strings.ToUpper(outcome))
	}
}

// paint colors s green, amber or red by level in [0, 1], low being good.
func paint(s string, level float64) string {
	c := green
	switch {
	case level > 0.7:
		c = red
	case level > 0.3:
		c = amber
	}
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

// ProgressBar renders done/total as a bar of the given width.
func ProgressBar(done, total, width int) string {
	if total <= 0 {
		total = 1
	}
	filled := min(max(done*width/total, 0), width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return paint(bar, 1-float64(done)/float64(total))
}

// Sparkline renders the magnitude of values, one rune per sample, keeping
// the most recent width samples. Small values are green.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune("▁▂▃▄▅▆▇█")

	peak := 0.0
	for _, v := range values {
		peak = max(peak, math.Abs(v))
	}
	if peak == 0 {
		peak = 1
	}

	var out strings.Builder
	for _, v := range values {
		norm := math.Abs(v) / peak
		out.WriteString(paint(string(chars[int(norm*float64(len(chars)-1))]), norm))
	}
	return out.String()
}
