package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/monitor"
)

const (
	graphWidth  = 60
	graphHeight = 10
	barWidth    = 40
)

// CycleMsg carries one completed cycle into the watch view.
type CycleMsg bench.CycleRecord

// DoneMsg reports that the scenario returned.
type DoneMsg struct {
	Result *bench.Result
	Err    error
}

// Watch is the bubbletea model behind the live view. The scenario runs on
// its own goroutine and feeds the program through Forward.
type Watch struct {
	title   string
	policy  monitor.Policy
	records []bench.CycleRecord
	errors  []float64
	result  *bench.Result
	err     error
	done    bool
}

func NewWatch(title string, policy monitor.Policy) Watch {
	return Watch{
		title:   title,
		policy:  policy,
		records: make([]bench.CycleRecord, 0, policy.TotalCycles),
		errors:  make([]float64, 0, policy.TotalCycles),
	}
}

// Forward returns an observer that sends each record to p.
func Forward(p *tea.Program) bench.ObserverFunc {
	return func(rec bench.CycleRecord) { p.Send(CycleMsg(rec)) }
}

func (m Watch) Init() tea.Cmd { return nil }

func (m Watch) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case CycleMsg:
		m.records = append(m.records, bench.CycleRecord(msg))
		m.errors = append(m.errors, float64(msg.Error))
	case DoneMsg:
		m.done = true
		m.result = msg.Result
		m.err = msg.Err
	}
	return m, nil
}

func (m Watch) Records() []bench.CycleRecord { return m.records }
func (m Watch) Done() bool                   { return m.done }
func (m Watch) Result() *bench.Result        { return m.result }

func (m Watch) status() string {
	if !m.done {
		return runningStyle.Render("RUNNING")
	}
	if m.result == nil {
		return Badge(bench.OutcomeAborted.String())
	}
	return Badge(m.result.Outcome.String())
}

func (m Watch) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(m.title) + "  " + m.status() + "\n\n")
	s.WriteString(ProgressBar(len(m.records), m.policy.TotalCycles, barWidth))
	s.WriteString(subtleStyle.Render(fmt.Sprintf(" %d/%d", len(m.records), m.policy.TotalCycles)) + "\n\n")

	if len(m.records) > 1 {
		s.WriteString(PlotFeedback(m.records, graphWidth, graphHeight) + "\n\n")
	}

	if n := len(m.records); n > 0 {
		last := m.records[n-1]
		s.WriteString(labelStyle.Render("phase") + valueStyle.Render(last.Phase.String()) + "\n")
		s.WriteString(labelStyle.Render("feedback") + valueStyle.Render(fmt.Sprintf("%d", last.Feedback)) + "\n")
		s.WriteString(labelStyle.Render("control signal") + valueStyle.Render(fmt.Sprintf("%d", last.ControlOutput)) + "\n")
		s.WriteString(labelStyle.Render("error") + valueStyle.Render(fmt.Sprintf("%d", last.Error)) + "\n")
		s.WriteString(labelStyle.Render("|error|") + Sparkline(m.errors, barWidth) + "\n")
	}

	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString("\n" + hintStyle.Render("q: quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(s.String())
}
