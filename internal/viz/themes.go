package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name   string
	Balls  []lipgloss.Color
	Wall   lipgloss.Color
	Text   lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

// Available themes
var (
	ThemeClassic = Theme{
		Name:   "classic",
		Balls:  []lipgloss.Color{"#ff5f5f", "#5fafff", "#5fff87", "#ffd75f"},
		Wall:   lipgloss.Color("#cccccc"),
		Text:   lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#00ffff"),
		Muted:  lipgloss.Color("#666688"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Balls:  []lipgloss.Color{"#00ff00", "#88ff88", "#00cc00", "#ccffcc"},
		Wall:   lipgloss.Color("#005500"),
		Text:   lipgloss.Color("#00ff00"),
		Accent: lipgloss.Color("#88ff88"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Balls:  []lipgloss.Color{"#ff6b6b", "#feca57", "#ff9ff3", "#5fd068"},
		Wall:   lipgloss.Color("#8b6b8c"),
		Text:   lipgloss.Color("#fff5f5"),
		Accent: lipgloss.Color("#ff9ff3"),
		Muted:  lipgloss.Color("#8b6b8c"),
	}

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeRetroGreen,
		ThemeSunset,
	}
)

// InkColor maps a canvas ink value to a color.
func (t Theme) InkColor(ink int) lipgloss.Color {
	switch {
	case ink == InkWall:
		return t.Wall
	case ink == InkText:
		return t.Text
	case ink >= InkBall && len(t.Balls) > 0:
		return t.Balls[(ink-InkBall)%len(t.Balls)]
	default:
		return t.Text
	}
}

// GetTheme returns a theme by name, falling back to classic.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
