package styles

import "github.com/charmbracelet/lipgloss"

// Theme is the colour scheme for one terminal background.
type Theme struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	TextPrimary lipgloss.Color
	TextMuted   lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border lipgloss.Color

	// Persona badges, keyed by persona name
	Personas map[string]lipgloss.Color
}

var DarkTheme = Theme{
	Primary:   lipgloss.Color("#B39DDB"),
	Secondary: lipgloss.Color("#90CAF9"),
	Accent:    lipgloss.Color("#FFCC80"),

	TextPrimary: lipgloss.Color("#E0E0E0"),
	TextMuted:   lipgloss.Color("#64748B"),

	Success: lipgloss.Color("#34D399"),
	Warning: lipgloss.Color("#FBBF24"),
	Error:   lipgloss.Color("#EF9A9A"),

	Border: lipgloss.Color("#333333"),

	Personas: map[string]lipgloss.Color{
		"Default":      lipgloss.Color("#81D4FA"),
		"Friendly":     lipgloss.Color("#A5D6A7"),
		"Professional": lipgloss.Color("#B39DDB"),
		"Casual":       lipgloss.Color("#FFCC80"),
	},
}

var LightTheme = Theme{
	Primary:   lipgloss.Color("#5E35B1"),
	Secondary: lipgloss.Color("#1E88E5"),
	Accent:    lipgloss.Color("#EF6C00"),

	TextPrimary: lipgloss.Color("#18181B"),
	TextMuted:   lipgloss.Color("#71717A"),

	Success: lipgloss.Color("#10B981"),
	Warning: lipgloss.Color("#F59E0B"),
	Error:   lipgloss.Color("#E53935"),

	Border: lipgloss.Color("#E4E4E7"),

	Personas: map[string]lipgloss.Color{
		"Default":      lipgloss.Color("#0288D1"),
		"Friendly":     lipgloss.Color("#2E7D32"),
		"Professional": lipgloss.Color("#5E35B1"),
		"Casual":       lipgloss.Color("#EF6C00"),
	},
}

// CurrentTheme is chosen once at startup by InitTheme.
var CurrentTheme = DarkTheme

var providerColors = map[string]lipgloss.Color{
	"OpenAI":   lipgloss.Color("#A5D6A7"),
	"Google":   lipgloss.Color("#CE93D8"),
	"xAI":      lipgloss.Color("#FFCC80"),
	"DeepSeek": lipgloss.Color("#80CBC4"),
}

// ProviderColor returns the header colour for a model provider.
func ProviderColor(provider string) lipgloss.Color {
	if c, ok := providerColors[provider]; ok {
		return c
	}
	return CurrentTheme.TextMuted
}

// PersonaColor returns the badge colour for a persona name.
func PersonaColor(persona string) lipgloss.Color {
	if c, ok := CurrentTheme.Personas[persona]; ok {
		return c
	}
	return CurrentTheme.Primary
}

// GlamourStyle is the glamour style path matching the current theme.
func GlamourStyle() string {
	if CurrentTheme.Primary == LightTheme.Primary {
		return "light"
	}
	return "dark"
}

// InitTheme picks the theme from the terminal background.
func InitTheme() {
	if lipgloss.HasDarkBackground() {
		CurrentTheme = DarkTheme
	} else {
		CurrentTheme = LightTheme
	}
}
