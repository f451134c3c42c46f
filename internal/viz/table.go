package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/polypath/internal/tracker"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	convergedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stoppedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	panelStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

func statusStyle(s tracker.Status) lipgloss.Style {
	switch s {
	case tracker.StatusConverged:
		return convergedStyle
	case tracker.StatusStopped:
		return stoppedStyle
	default:
		return failedStyle
	}
}

// RootsTable renders the distinct roots of a solve in a bordered panel.
func RootsTable(summary *tracker.Summary) string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(fmt.Sprintf("%d distinct roots", len(summary.Roots))))
	b.WriteString("\n")
	for i, root := range summary.Roots {
		parts := make([]string, len(root))
		for j, z := range root {
			parts[j] = fmt.Sprintf("%.6f%+.6fi", real(z), imag(z))
		}
		b.WriteString(fmt.Sprintf("  %2d: (%s)\n", i, strings.Join(parts, ", ")))
	}

	b.WriteString(subtleStyle.Render(fmt.Sprintf(
		"paths: %d converged, %d stopped, %d stalled, %d failed (%.1fms)",
		summary.Converged, summary.Stopped, summary.Stalled, summary.Failed,
		float64(summary.Elapsed.Microseconds())/1000)))

	return panelStyle.Render(b.String())
}

// PathLine renders a one-line colored summary of a single path result.
func PathLine(r *tracker.PathResult) string {
	status := statusStyle(r.Status).Render(r.Status.String())
	return fmt.Sprintf("path %3d  %s  steps=%d endgame=%d residual=%.2e",
		r.Path, status, r.StepsTaken, r.EndgameSteps, r.Residual)
}
