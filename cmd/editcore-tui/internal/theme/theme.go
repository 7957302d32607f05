// Package theme holds the terminal palette and the lipgloss styles built
// from it.
package theme

import (
	"runtime"

	"github.com/charmbracelet/lipgloss"
)

// Palette defines the system colors.
type Palette struct {
	Text      lipgloss.TerminalColor
	TextMuted lipgloss.TerminalColor
	Primary   lipgloss.TerminalColor
	Border    lipgloss.TerminalColor
	Selection lipgloss.TerminalColor
	Error     lipgloss.TerminalColor
	Success   lipgloss.TerminalColor
}

// Styles are the rendered pieces of the form.
type Styles struct {
	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	Field        lipgloss.Style
	FieldFocused lipgloss.Style
	Disabled     lipgloss.Style
	Selection    lipgloss.Style
	Cursor       lipgloss.Style
	Composition  lipgloss.Style
	Toolbar      lipgloss.Style
	ToolbarKey   lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
	Help         lipgloss.Style
}

// Theme pairs a palette with its styles.
type Theme struct {
	Palette Palette
	Styles  Styles
}

// New creates a theme for the current OS.
func New() *Theme {
	t := &Theme{}
	if runtime.GOOS == "darwin" {
		setupMacOSTheme(t)
	} else {
		setupDefaultTheme(t)
	}
	t.Styles = buildStyles(t.Palette)
	return t
}

func setupDefaultTheme(t *Theme) {
	t.Palette = Palette{
		Text:      lipgloss.AdaptiveColor{Light: "235", Dark: "252"},
		TextMuted: lipgloss.AdaptiveColor{Light: "245", Dark: "243"},
		Primary:   lipgloss.Color("33"),
		Border:    lipgloss.AdaptiveColor{Light: "250", Dark: "238"},
		Selection: lipgloss.AdaptiveColor{Light: "153", Dark: "24"},
		Error:     lipgloss.Color("160"),
		Success:   lipgloss.Color("70"),
	}
}

func setupMacOSTheme(t *Theme) {
	setupDefaultTheme(t)
	t.Palette.Primary = lipgloss.Color("#0A84FF")
	t.Palette.Error = lipgloss.Color("#FF453A")
	t.Palette.Success = lipgloss.Color("#30D158")
}

func buildStyles(p Palette) Styles {
	field := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(p.Border).
		Foreground(p.Text)

	return Styles{
		Label:        lipgloss.NewStyle().Foreground(p.TextMuted),
		LabelFocused: lipgloss.NewStyle().Foreground(p.Primary).Bold(true),
		Field:        field,
		FieldFocused: field.BorderForeground(p.Primary),
		Disabled:     lipgloss.NewStyle().Foreground(p.TextMuted).Faint(true),
		Selection:    lipgloss.NewStyle().Background(p.Selection),
		Cursor:       lipgloss.NewStyle().Reverse(true),
		Composition:  lipgloss.NewStyle().Underline(true),
		Toolbar:      lipgloss.NewStyle().Foreground(p.Text).Background(p.Border).Padding(0, 1),
		ToolbarKey:   lipgloss.NewStyle().Foreground(p.Primary).Background(p.Border).Bold(true),
		Status:       lipgloss.NewStyle().Foreground(p.Success),
		StatusError:  lipgloss.NewStyle().Foreground(p.Error),
		Help:         lipgloss.NewStyle().Foreground(p.TextMuted),
	}
}
