package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bouncesim/internal/dynamo"
	"github.com/san-kum/bouncesim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 600
	statsWidth      = 50

	// TiltStep is how far one arrow press moves the gravity vector.
	TiltStep = 0.25
)

type TickMsg time.Time

// Model drives a simulator from the bubbletea event loop and draws its
// snapshot on a braille canvas.
type Model struct {
	sim      *sim.Simulator
	name     string
	dt       float64
	fps      int
	limit    int
	canvas   *Canvas
	theme    int
	gravity  dynamo.Vector2
	showHelp bool

	popHistory    []float64
	energyHistory []float64
	stepHistory   []float64
}

// NewModel wraps s, which should already be initialized. Each tick
// advances it by dt; ticks arrive fps times a second.
func NewModel(s *sim.Simulator, name string, dt float64, fps int, gravity dynamo.Vector2) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{
		sim:           s,
		name:          name,
		dt:            dt,
		fps:           fps,
		limit:         s.Config().PopulationLimit,
		canvas:        NewCanvas(width, height),
		gravity:       gravity,
		popHistory:    make([]float64, 0, historyCapacity),
		energyHistory: make([]float64, 0, historyCapacity),
		stepHistory:   make([]float64, 0, historyCapacity),
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.togglePause()
		case "r":
			m.sim.Restart()
			m.resetHistory()
		case "up", "k":
			m.tilt(dynamo.Vec(0, -TiltStep))
		case "down", "j":
			m.tilt(dynamo.Vec(0, TiltStep))
		case "left", "h":
			m.tilt(dynamo.Vec(-TiltStep, 0))
		case "right", "l":
			m.tilt(dynamo.Vec(TiltStep, 0))
		case "0":
			m.gravity = dynamo.Vec(0, 1)
			m.sim.SetGravity(m.gravity)
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.canvas.Resize(max(msg.Width-statsWidth-6, 20), max(msg.Height-4, 8))
	case TickMsg:
		m.step()
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) togglePause() {
	if m.sim.State() == sim.StateRunning {
		m.sim.Pause()
	} else {
		m.sim.Run()
	}
}

// tilt nudges gravity by d, keeping its length at most one.
func (m *Model) tilt(d dynamo.Vector2) {
	g := m.gravity.Add(d)
	if mag := g.Mag(); mag > 1 {
		g = g.Scale(1 / mag)
	}
	m.gravity = g
	m.sim.SetGravity(g)
}

func (m *Model) step() {
	before := m.sim.SimulationTime()
	m.sim.Advance(m.dt)
	if m.sim.SimulationTime() == before {
		return
	}
	m.popHistory = appendCapped(m.popHistory, float64(m.sim.Population()))
	m.energyHistory = appendCapped(m.energyHistory, m.sim.KineticEnergy())
	m.stepHistory = appendCapped(m.stepHistory, float64(m.sim.SubSteps()))
}

func (m *Model) resetHistory() {
	m.popHistory = m.popHistory[:0]
	m.energyHistory = m.energyHistory[:0]
	m.stepHistory = m.stepHistory[:0]
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m Model) status() string {
	switch m.sim.State() {
	case sim.StateRunning:
		return StatusRunning.Render("RUNNING")
	case sim.StatePaused:
		return StatusPaused.Render("PAUSED")
	default:
		return StatusIdle.Render(strings.ToUpper(m.sim.State().String()))
	}
}

// View renders the TUI interface.
func (m Model) View() string {
	theme := Themes[m.theme]
	m.canvas.Clear()
	m.canvas.DrawShapes(m.sim.Snapshot())
	canvasView := canvasStyle.Render(m.canvas.Render(theme))

	var s strings.Builder
	s.WriteString(headerStyle.Foreground(theme.Accent).Render(strings.ToUpper(m.name)) + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(Row("Time", "%.1f", m.sim.SimulationTime()))
	pop := m.sim.Population()
	if m.limit > 0 {
		s.WriteString(Row("Balls", "%d/%d ", pop, m.limit) + ProgressBar(float64(pop)/float64(m.limit), 16) + "\n")
	} else {
		s.WriteString(Row("Balls", "%d", pop))
	}
	s.WriteString(Row("Lost", "%d", m.sim.LostBalls()))
	s.WriteString(Row("Energy", "%.2f", m.sim.KineticEnergy()))
	s.WriteString(Row("Contacts", "%d", m.sim.Constraints()))
	s.WriteString(Row("Substeps", "%d %s", m.sim.SubSteps(), Sparkline(m.stepHistory, 16)))
	s.WriteString(Row("Gravity", "(%+.2f, %+.2f)", m.gravity.X(), m.gravity.Y()))
	s.WriteString(Row("Theme", "%s", theme.Name))

	if chart := PlotSeries(m.popHistory, "Population", 30, 4); chart != "" {
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(helpStyle.Render("─────────────────────\nSP:Pause R:Restart Q:Quit\n←↑↓→:Tilt 0:Level T:Theme ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

var helpText = fmt.Sprintf(`
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Restart arena            ║
║  Arrows   - Tilt gravity (%.2f)      ║
║  0        - Level gravity            ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`, TiltStep)

// RunLive runs the live view until the user quits.
func RunLive(m Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
