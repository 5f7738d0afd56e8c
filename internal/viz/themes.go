package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI
type Theme struct {
	Name       string
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Accent     lipgloss.Color
	Background lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color

	// Engine parts and the per-stroke trace colors.
	Metal       lipgloss.Color
	Head        lipgloss.Color
	Piston      lipgloss.Color
	Rod         lipgloss.Color
	Valve       lipgloss.Color
	Spark       lipgloss.Color
	Intake      lipgloss.Color
	Compression lipgloss.Color
	Power       lipgloss.Color
	Exhaust     lipgloss.Color
}

// Available themes
var (
	ThemeWorkshop = Theme{
		Name:        "workshop",
		Primary:     lipgloss.Color("#6495ed"), // Cornflower
		Secondary:   lipgloss.Color("#00ffff"),
		Accent:      lipgloss.Color("#ffff00"),
		Background:  lipgloss.Color("#282828"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#808080"),
		Success:     lipgloss.Color("#00ff00"),
		Warning:     lipgloss.Color("#ffa500"),
		Error:       lipgloss.Color("#ff0000"),
		Metal:       lipgloss.Color("#969696"),
		Head:        lipgloss.Color("#646464"),
		Piston:      lipgloss.Color("#bebebe"),
		Rod:         lipgloss.Color("#a0a0a0"),
		Valve:       lipgloss.Color("#d2b48c"),
		Spark:       lipgloss.Color("#ffff00"),
		Intake:      lipgloss.Color("#6495ed"),
		Compression: lipgloss.Color("#ffa500"),
		Power:       lipgloss.Color("#ff3232"),
		Exhaust:     lipgloss.Color("#969696"),
	}

	ThemeCyberpunk = Theme{
		Name:        "cyberpunk",
		Primary:     lipgloss.Color("#ff00ff"), // Magenta
		Secondary:   lipgloss.Color("#00ffff"), // Cyan
		Accent:      lipgloss.Color("#ffff00"), // Yellow
		Background:  lipgloss.Color("#0a0a0a"),
		Text:        lipgloss.Color("#ffffff"),
		Muted:       lipgloss.Color("#666666"),
		Success:     lipgloss.Color("#00ff00"),
		Warning:     lipgloss.Color("#ff8800"),
		Error:       lipgloss.Color("#ff0000"),
		Metal:       lipgloss.Color("#8888aa"),
		Head:        lipgloss.Color("#555577"),
		Piston:      lipgloss.Color("#00ffff"),
		Rod:         lipgloss.Color("#ff00ff"),
		Valve:       lipgloss.Color("#ffff00"),
		Spark:       lipgloss.Color("#ffffff"),
		Intake:      lipgloss.Color("#00ffff"),
		Compression: lipgloss.Color("#ffff00"),
		Power:       lipgloss.Color("#ff0055"),
		Exhaust:     lipgloss.Color("#8888aa"),
	}

	ThemeRetroGreen = Theme{
		Name:        "retro",
		Primary:     lipgloss.Color("#00ff00"), // Green phosphor
		Secondary:   lipgloss.Color("#00cc00"),
		Accent:      lipgloss.Color("#88ff88"),
		Background:  lipgloss.Color("#001100"),
		Text:        lipgloss.Color("#00ff00"),
		Muted:       lipgloss.Color("#005500"),
		Success:     lipgloss.Color("#88ff88"),
		Warning:     lipgloss.Color("#ffff00"),
		Error:       lipgloss.Color("#ff0000"),
		Metal:       lipgloss.Color("#00aa00"),
		Head:        lipgloss.Color("#007700"),
		Piston:      lipgloss.Color("#00ff00"),
		Rod:         lipgloss.Color("#00cc00"),
		Valve:       lipgloss.Color("#88ff88"),
		Spark:       lipgloss.Color("#ccffcc"),
		Intake:      lipgloss.Color("#00cc00"),
		Compression: lipgloss.Color("#88ff88"),
		Power:       lipgloss.Color("#ccffcc"),
		Exhaust:     lipgloss.Color("#007700"),
	}

	ThemeOcean = Theme{
		Name:        "ocean",
		Primary:     lipgloss.Color("#0077be"), // Ocean blue
		Secondary:   lipgloss.Color("#00a8cc"),
		Accent:      lipgloss.Color("#ffd700"),
		Background:  lipgloss.Color("#001a33"),
		Text:        lipgloss.Color("#e0f0ff"),
		Muted:       lipgloss.Color("#4488aa"),
		Success:     lipgloss.Color("#00ff88"),
		Warning:     lipgloss.Color("#ffcc00"),
		Error:       lipgloss.Color("#ff4444"),
		Metal:       lipgloss.Color("#88aacc"),
		Head:        lipgloss.Color("#4488aa"),
		Piston:      lipgloss.Color("#e0f0ff"),
		Rod:         lipgloss.Color("#00a8cc"),
		Valve:       lipgloss.Color("#ffd700"),
		Spark:       lipgloss.Color("#ffffff"),
		Intake:      lipgloss.Color("#00a8cc"),
		Compression: lipgloss.Color("#ffd700"),
		Power:       lipgloss.Color("#ff4444"),
		Exhaust:     lipgloss.Color("#4488aa"),
	}

	ThemeSunset = Theme{
		Name:        "sunset",
		Primary:     lipgloss.Color("#ff6b6b"), // Coral
		Secondary:   lipgloss.Color("#feca57"),
		Accent:      lipgloss.Color("#ff9ff3"),
		Background:  lipgloss.Color("#2d1b2e"),
		Text:        lipgloss.Color("#fff5f5"),
		Muted:       lipgloss.Color("#8b6b8c"),
		Success:     lipgloss.Color("#5fd068"),
		Warning:     lipgloss.Color("#ffc048"),
		Error:       lipgloss.Color("#ff4757"),
		Metal:       lipgloss.Color("#b59cb6"),
		Head:        lipgloss.Color("#8b6b8c"),
		Piston:      lipgloss.Color("#fff5f5"),
		Rod:         lipgloss.Color("#ff9ff3"),
		Valve:       lipgloss.Color("#feca57"),
		Spark:       lipgloss.Color("#ffffff"),
		Intake:      lipgloss.Color("#ff9ff3"),
		Compression: lipgloss.Color("#feca57"),
		Power:       lipgloss.Color("#ff4757"),
		Exhaust:     lipgloss.Color("#8b6b8c"),
	}

	// Default theme
	CurrentTheme = ThemeWorkshop

	// All available themes
	Themes = []Theme{
		ThemeWorkshop,
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeWorkshop
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme advances CurrentTheme to the following entry in Themes.
func NextTheme() {
	names := ThemeNames()
	for i, name := range names {
		if name == CurrentTheme.Name {
			SetTheme(names[(i+1)%len(names)])
			return
		}
	}
	CurrentTheme = Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
