package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/dendrite/internal/config"
)

const (
	stateMenu = iota
	stateLive
)

// picker lists the tree presets and hands the chosen one to a replay Model.
type picker struct {
	state   int
	cursor  int
	presets []string
	seed    int64
	snapDir string
	live    Model
	err     error
}

// OptionsFromConfig maps the render section of cfg onto replay options.
func OptionsFromConfig(cfg *config.Config) Options {
	opts := DefaultOptions()
	opts.Name = cfg.Name
	opts.Seed = cfg.Seed
	opts.Frames = cfg.Render.Frames
	opts.Delay = time.Duration(cfg.Render.DelayMs) * time.Millisecond
	opts.Extent = cfg.Render.Extent
	opts.Reveal = cfg.Reveal()
	return opts
}

func newPicker(seed int64, snapDir string) picker {
	return picker{presets: config.ListPresets("tree"), seed: seed, snapDir: snapDir}
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == stateLive {
		next, cmd := p.live.Update(msg)
		p.live = next.(Model)
		return p, cmd
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch key.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.presets)-1 {
			p.cursor++
		}
	case "enter", " ":
		return p.start()
	}
	return p, nil
}

func (p picker) start() (tea.Model, tea.Cmd) {
	cfg := config.GetPreset("tree", p.presets[p.cursor])
	opts := OptionsFromConfig(cfg)
	opts.Seed = p.seed
	opts.SnapshotDir = p.snapDir
	live, err := NewModel(cfg.ForestParams(), opts)
	if err != nil {
		p.err = err
		return p, nil
	}
	p.live, p.state = live, stateLive
	return p, live.Init()
}

func describe(cfg *config.Config) string {
	fc := cfg.Forest
	return fmt.Sprintf("%d roots, depth %d, %d-%d branches", fc.Roots, fc.MaxDepth, fc.MinBranches, fc.MaxBranches)
}

func (p picker) View() string {
	if p.state == stateLive {
		return p.live.View()
	}
	t := ThemeNeuron
	var b strings.Builder
	h, sub := lipgloss.NewStyle().Foreground(t.Secondary).Bold(true), lipgloss.NewStyle().Foreground(t.Muted)
	b.WriteString("\n\n    " + h.Render("DENDRITE") + "\n    " + sub.Render("fractal branch growth") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, name := range p.presets {
		desc := describe(config.GetPreset("tree", name))
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n",
				lipgloss.NewStyle().Foreground(t.Secondary).Bold(true).Render("▸"),
				lipgloss.NewStyle().Foreground(t.Text).Bold(true).Render(fmt.Sprintf("%-12s", name)),
				lipgloss.NewStyle().Foreground(t.Primary).Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", sub.Render(fmt.Sprintf("  %-12s", name)), sub.Render(desc)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(t.Error).Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + t.keyHints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return b.String()
}

// RunPicker shows the preset menu, then replays the chosen preset.
func RunPicker(seed int64, snapDir string) error {
	_, err := tea.NewProgram(newPicker(seed, snapDir), tea.WithAltScreen()).Run()
	return err
}
