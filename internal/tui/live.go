// Package tui provides a live terminal view of an ensemble solve: a
// progress bar plus a scrolling tail of finished paths. Events arrive via
// program.Send from the ensemble's worker goroutines.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/polypath/internal/tracker"
	"github.com/san-kum/polypath/internal/viz"
)

const tailLen = 8

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// EventMsg wraps a tracker event for the bubbletea loop.
type EventMsg struct {
	Event tracker.Event
}

// DoneMsg signals that the ensemble finished.
type DoneMsg struct {
	Summary *tracker.Summary
}

type Model struct {
	problem string
	total   int

	running   int
	done      int
	converged int
	stopped   int
	stalled   int
	failed    int

	tail   []string
	cancel func()
}

func New(problem string, total int, cancel func()) Model {
	return Model{problem: problem, total: total, cancel: cancel}
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

	case EventMsg:
		if msg.Event.Result == nil {
			m.running++
			return m, nil
		}
		m.running--
		m.done++
		switch msg.Event.Result.Status {
		case tracker.StatusConverged:
			m.converged++
		case tracker.StatusStopped:
			m.stopped++
		case tracker.StatusStalled:
			m.stalled++
		case tracker.StatusFailed:
			m.failed++
		}
		m.tail = append(m.tail, viz.PathLine(msg.Event.Result))
		if len(m.tail) > tailLen {
			m.tail = m.tail[len(m.tail)-tailLen:]
		}
		return m, nil

	case DoneMsg:
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("solving %s: %d paths", m.problem, m.total)))
	b.WriteString("\n\n")

	b.WriteString(progressBar(m.done, m.total, 50))
	b.WriteString(fmt.Sprintf("  %d/%d", m.done, m.total))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf(
		"running %d | converged %d | stopped %d | stalled %d | failed %d",
		m.running, m.converged, m.stopped, m.stalled, m.failed)))
	b.WriteString("\n\n")

	for _, line := range m.tail {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("q: cancel and quit"))
	return b.String()
}

func progressBar(done, total, width int) string {
	if total == 0 {
		return ""
	}
	filled := done * width / total
	return barStyle.Render(strings.Repeat("█", filled)) + dimStyle.Render(strings.Repeat("░", width-filled))
}
