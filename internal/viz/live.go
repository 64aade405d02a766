package viz

import (
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/dendrite/internal/dendrite"
	"github.com/san-kum/dendrite/internal/export"
	"github.com/san-kum/dendrite/internal/palette"
	"github.com/san-kum/dendrite/internal/render"
)

const (
	width     = 80
	height    = 32
	curveStep = 8
	maxSpeed  = 16
)

type TickMsg time.Time

// Options configures a replay session.
type Options struct {
	Name   string
	Seed   int64
	Frames int
	Delay  time.Duration
	// Extent is the half-width of the world window shown on the canvas.
	Extent float64
	Reveal render.Reveal
	Theme  string
	// SnapshotDir receives SVG snapshots; empty means the working directory.
	SnapshotDir string
}

func DefaultOptions() Options {
	return Options{
		Name:   "neuron",
		Seed:   42,
		Frames: 101,
		Delay:  60 * time.Millisecond,
		Extent: 3,
		Theme:  ThemeNeuron.Name,
	}
}

// Model replays a grown forest frame by frame on a Braille canvas.
type Model struct {
	params   dendrite.ForestParams
	opts     Options
	seed     int64
	plan     *render.Plan
	frame    int
	speed    int
	running  bool
	showHelp bool
	theme    Theme
	canvas   *Canvas
	message  string
}

// NewModel grows the first forest and prepares the replay.
func NewModel(fp dendrite.ForestParams, opts Options) (Model, error) {
	if opts.Frames < 1 {
		return Model{}, render.ErrNoFrames
	}
	if !(opts.Extent > 0) {
		return Model{}, fmt.Errorf("viz: extent must be positive, got %g", opts.Extent)
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultOptions().Delay
	}
	m := Model{
		params:  fp,
		opts:    opts,
		speed:   1,
		running: true,
		theme:   GetTheme(opts.Theme),
		canvas:  NewCanvas(width, height),
	}
	if err := m.grow(opts.Seed); err != nil {
		return Model{}, err
	}
	return m, nil
}

func (m *Model) grow(seed int64) error {
	f, err := dendrite.GrowForest(rand.New(rand.NewSource(seed)), m.params)
	if err != nil {
		return err
	}
	plan, err := render.NewPlan(f, m.opts.Frames)
	if err != nil {
		return err
	}
	plan.SetReveal(m.opts.Reveal)
	m.seed, m.plan, m.frame = seed, plan, 0
	return nil
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Delay, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Seed() int64 { return m.seed }
func (m Model) Frame() int { return m.frame }
func (m Model) Speed() int { return m.speed }
func (m Model) Running() bool { return m.running }
func (m Model) Theme() Theme { return m.theme }

func (m Model) done() bool { return m.frame >= m.plan.Frames()-1 }

// Update handles keys and advances the replay on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.done() {
				m.frame = 0
				m.running = true
			} else {
				m.running = !m.running
			}
		case "r":
			if err := m.grow(m.seed + 1); err != nil {
				m.message = err.Error()
			} else {
				m.running = true
				m.message = fmt.Sprintf("regrown with seed %d", m.seed)
			}
		case "+", "=":
			m.speed = min(m.speed*2, maxSpeed)
		case "-", "_":
			m.speed = max(m.speed/2, 1)
		case "t":
			m.theme = NextTheme(m.theme.Name)
		case "s":
			path, err := m.snapshot()
			if err != nil {
				m.message = err.Error()
			} else {
				m.message = "saved " + path
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.frame = min(m.frame+m.speed, m.plan.Frames()-1)
			if m.done() {
				m.running = false
			}
		}
		return m, m.tick()
	}
	return m, nil
}

// snapshot writes the current frame as SVG.
func (m Model) snapshot() (string, error) {
	fr := m.plan.Frame(m.frame)
	opts := export.DefaultSVGOptions()
	opts.Extent = m.opts.Extent
	svg := export.FrameToSVG(m.plan.Forest(), fr, opts)

	name := fmt.Sprintf("%s_%d_%03d.svg", m.opts.Name, m.seed, m.frame)
	path := filepath.Join(m.opts.SnapshotDir, name)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return "", err
	}
	return path, nil
}

// project maps world coordinates to canvas sub-pixels, y up, keeping
// sub-pixels square.
func (m Model) project(p dendrite.Point) (int, int) {
	cw, ch := m.canvas.SubWidth(), m.canvas.SubHeight()
	scale := float64(min(cw, ch)) / (2 * m.opts.Extent)
	x := float64(cw)/2 + p.X*scale
	y := float64(ch)/2 - p.Y*scale
	return int(math.Round(x)), int(math.Round(y))
}

func (m Model) colorOf(depth, key int) string {
	if m.theme.Mono != "" {
		return string(m.theme.Mono)
	}
	return palette.ColorFor(depth, m.plan.Forest().MaxDepth(), key).Hex()
}

// draw paints the current frame onto the canvas.
func (m Model) draw() {
	m.canvas.Clear()
	fr := m.plan.Frame(m.frame)
	for _, s := range fr.Segments {
		hex := m.colorOf(s.Depth, s.ColorKey)
		pts := render.Sample(s, curveStep)
		for i := 1; i < len(pts); i++ {
			x0, y0 := m.project(pts[i-1])
			x1, y1 := m.project(pts[i])
			m.canvas.DrawLine(x0, y0, x1, y1, hex)
		}
	}
	for _, t := range fr.Terminals {
		x, y := m.project(t.At)
		m.canvas.Set(x, y, m.colorOf(t.Depth, t.ColorKey))
	}
}

func (m Model) statusText() string {
	switch {
	case m.done():
		return "DONE"
	case m.running:
		return "GROWING"
	}
	return "PAUSED"
}

// View renders the canvas beside a stats panel.
func (m Model) View() string {
	m.draw()
	fr := m.plan.Frame(m.frame)
	f := m.plan.Forest()

	var s strings.Builder
	s.WriteString(m.theme.header().Render(strings.ToUpper(m.opts.Name)) + "\n")
	s.WriteString(m.theme.status(m.running, m.done()).Render(m.statusText()) + "\n\n")
	s.WriteString(m.theme.ProgressBar(fr.Progress, 24) + fmt.Sprintf(" %3d%%", int(fr.Progress*100)) + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Frame", fmt.Sprintf("%d/%d", m.frame+1, m.plan.Frames()))
	row("Segments", fmt.Sprintf("%d/%d", len(fr.Segments), fr.Total))
	row("Terminals", fmt.Sprintf("%d/%d", len(fr.Terminals), len(f.Terminals)))
	row("Roots", fmt.Sprintf("%d", len(f.Roots)))
	row("Seed", fmt.Sprintf("%d", m.seed))
	row("Speed", fmt.Sprintf("x%d", m.speed))
	row("Theme", m.theme.Name)

	if hist := f.DepthHistogram(); len(hist) > 1 {
		data := make([]float64, len(hist))
		for i, n := range hist {
			data[i] = float64(n)
		}
		chart := asciigraph.Plot(data, asciigraph.Height(5), asciigraph.Width(30), asciigraph.Caption("segments per depth"))
		s.WriteString(graphStyle.Foreground(m.theme.Primary).Render(chart) + "\n")
	}
	if m.message != "" {
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Muted).Render(m.message) + "\n")
	}
	s.WriteString(helpStyle.Render(m.theme.keyHints("SP", "pause", "r", "regrow", "q", "quit") + "\n" + m.theme.keyHints("+/-", "speed", "t", "theme", "s", "svg")))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.Render()), statsStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume, replay     ║
║  R        - Regrow with next seed    ║
║  + / -    - Faster / slower          ║
║  T        - Cycle themes             ║
║  S        - Save frame as SVG        ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run replays fp in the terminal until the user quits.
func Run(fp dendrite.ForestParams, opts Options) error {
	m, err := NewModel(fp, opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
