package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(42)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

func (t Theme) header() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).MarginBottom(1)
}

func (t Theme) status(running, done bool) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch {
	case done:
		return s.Foreground(t.Accent)
	case running:
		return s.Foreground(t.Success)
	}
	return s.Foreground(t.Warning)
}

// ProgressBar renders a filled bar for percent in [0, 1].
func (t Theme) ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := lipgloss.NewStyle().Foreground(t.Primary).Render(strings.Repeat("█", filled))
	return bar + lipgloss.NewStyle().Foreground(t.Muted).Render(strings.Repeat("░", width-filled))
}

// keyHints renders "key desc" pairs on one line.
func (t Theme) keyHints(pairs ...string) string {
	key := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.Muted)
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(key.Render(pairs[i]) + desc.Render(" "+pairs[i+1]))
	}
	return b.String()
}
