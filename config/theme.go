package config

// Theme holds the colors used when rendering the timer display.
type Theme struct {
	Background string
	Foreground string
	Accent     string
}

var themes = map[string]Theme{
	"default": {Background: "#1a1a2e", Foreground: "#eeeeee", Accent: "#16f4d0"},
	"dark":    {Background: "#000000", Foreground: "#00ff00", Accent: "#ff0000"},
	"light":   {Background: "#ffffff", Foreground: "#000000", Accent: "#007acc"},
	"neon":    {Background: "#0a0a0a", Foreground: "#ff00ff", Accent: "#00ffff"},
	"forest":  {Background: "#1b4332", Foreground: "#d8f3dc", Accent: "#52b788"},
	"ocean":   {Background: "#006494", Foreground: "#e8f4fd", Accent: "#00a6fb"},
	"sunset":  {Background: "#832161", Foreground: "#ffd23f", Accent: "#ee4266"},
}

// GetTheme returns the named color theme, or the default theme if the name
// is unrecognised.
func GetTheme(name string) Theme {
	if t, ok := themes[name]; ok {
		return t
	}

	return themes["default"]
}

// ThemeNames lists the available color themes.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}

	return names
}
