package viz

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bouncesim/internal/config"
	"github.com/san-kum/bouncesim/internal/sim"
)

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

var presetInfo = map[string]string{
	"default": "gentle gravity, closed box",
	"zero-g":  "no gravity, lively bounces",
	"pinball": "open floor, balls get lost",
	"crowd":   "many small balls",
	"bouncy":  "restitution above one",
}

const (
	stateMenu = iota
	stateSim
)

// picker lists the presets and hands the chosen one to a live Model.
type picker struct {
	state, cursor int
	presets       []string
	base          *config.Config
	log           *slog.Logger
	err           error
	live          Model
	winMsg        *tea.WindowSizeMsg
}

// NewPicker builds the preset menu. base supplies run settings such as
// dt and fps; arena and physics come from the chosen preset. log may be nil.
func NewPicker(base *config.Config, log *slog.Logger) tea.Model {
	return picker{
		presets: config.ListPresets(),
		base:    base,
		log:     log,
	}
}

func (m picker) Init() tea.Cmd { return nil }

func (m picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.winMsg = &ws
	}
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		return m.menuKey(key)
	}
	return m, nil
}

func (m picker) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		return m.start()
	}
	return m, nil
}

func (m picker) start() (tea.Model, tea.Cmd) {
	name := m.presets[m.cursor]
	cfg := config.GetPreset(name)
	cfg.Run = m.base.Run

	var opts []sim.Option
	if m.log != nil {
		opts = append(opts, sim.WithLogger(m.log))
	}
	s, err := cfg.NewSimulator(opts...)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live = NewModel(s, name, cfg.Run.Dt, cfg.Run.FPS, cfg.Gravity())
	if m.winMsg != nil {
		next, _ := m.live.Update(*m.winMsg)
		m.live = next.(Model)
	}
	m.state = stateSim
	return m, m.live.Init()
}

func (m picker) View() string {
	if m.state == stateSim {
		return m.live.View()
	}

	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("BOUNCESIM") + "\n    " + menuSub.Render("balls in a box") + "\n    " + menuSub.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", name)), menuIdle.Render(desc)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + SparkLow.Render(m.err.Error()) + "\n")
	}
	b.WriteString("\n    " + menuKey.Render("j/k") + menuIdle.Render(" navigate  ") + menuKey.Render("enter") + menuIdle.Render(" select  ") + menuKey.Render("q") + menuIdle.Render(" quit") + "\n")
	return b.String()
}

func RunInteractive(base *config.Config, log *slog.Logger) error {
	_, err := tea.NewProgram(NewPicker(base, log), tea.WithAltScreen()).Run()
	return err
}
