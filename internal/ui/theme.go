package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors for the UI. Pattern nodes carry their own colors;
// the theme covers everything else.
type Theme struct {
	Name string

	Background string
	Surface    string

	// Selected row in the pattern table / hex cursor.
	SelectionBg   string
	SelectionText string

	Border string

	Text   string
	Muted  string
	Faint  string
	Accent string
	Danger string

	// Pattern table column colors.
	TypeColor   string
	OffsetColor string
}

var builtinThemes = []Theme{
	{
		Name:          "Slate",
		Background:    "#1c1f26",
		Surface:       "#262a33",
		SelectionBg:   "#3d5a96",
		SelectionText: "#f5f7fa",
		Border:        "#6a7285",
		Text:          "#d8dce6",
		Muted:         "#8b93a6",
		Faint:         "#565e70",
		Accent:        "#7aa2f7",
		Danger:        "#f7768e",
		TypeColor:     "#569cd6",
		OffsetColor:   "#9cdcb0",
	},
	{
		Name:          "Paper",
		Background:    "#f4f1ea",
		Surface:       "#e8e4da",
		SelectionBg:   "#c5d5ef",
		SelectionText: "#1a1a1a",
		Border:        "#9a948a",
		Text:          "#2e2c28",
		Muted:         "#6e685e",
		Faint:         "#a8a296",
		Accent:        "#2456a6",
		Danger:        "#a62430",
		TypeColor:     "#7a3e9d",
		OffsetColor:   "#2d6e4f",
	},
}

// themeByName returns the named theme, falling back to the first builtin.
func themeByName(name string) Theme {
	for _, t := range builtinThemes {
		if t.Name == name {
			return t
		}
	}
	return builtinThemes[0]
}

// nextTheme cycles through the builtin themes.
func nextTheme(name string) Theme {
	for i, t := range builtinThemes {
		if t.Name == name {
			return builtinThemes[(i+1)%len(builtinThemes)]
		}
	}
	return builtinThemes[0]
}

// Styles contains pre-built Lipgloss styles for the theme.
type Styles struct {
	Text       lipgloss.Style
	MutedText  lipgloss.Style
	FaintText  lipgloss.Style
	AccentText lipgloss.Style
	DangerText lipgloss.Style

	Header lipgloss.Style
	Footer lipgloss.Style
	Title  lipgloss.Style

	Selected lipgloss.Style

	// Highlight is the alternate text color applied to cells whose byte
	// span overlaps the live selection.
	Highlight lipgloss.Style

	TypeText   lipgloss.Style
	OffsetText lipgloss.Style
}

// Styles returns Lipgloss styles for this theme.
func (t Theme) Styles() Styles {
	return Styles{
		Text: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Text)),

		MutedText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Muted)),

		FaintText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Faint)),

		AccentText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)),

		DangerText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Danger)).
			Bold(true),

		Header: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Muted)).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Background(lipgloss.Color(t.Surface)).
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true).
			Padding(0, 1),

		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		Highlight: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.Accent)).
			Bold(true),

		TypeText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.TypeColor)),

		OffsetText: lipgloss.NewStyle().
			Foreground(lipgloss.Color(t.OffsetColor)),
	}
}

// swatchStyle renders a node's own color as a foreground style for the
// color swatch cell. Node colors are 0xAARRGGBB.
func swatchStyle(color uint32) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%06X", color&0xFFFFFF)))
}
