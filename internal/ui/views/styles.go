package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title        lipgloss.Style
	Prompt       lipgloss.Style
	SearchBar    lipgloss.Style
	Dim          lipgloss.Style
	Status       lipgloss.Style
	Card         lipgloss.Style
	CardFocused  lipgloss.Style
	CardTitle    lipgloss.Style
	Excerpt      lipgloss.Style
	Authors      lipgloss.Style
	Mark         lipgloss.Style
	NoMatch      lipgloss.Style
	Preview      lipgloss.Style
	PreviewTitle lipgloss.Style
	CodeBlock    lipgloss.Style
	Quote        lipgloss.Style
	Link         lipgloss.Style
	Error        lipgloss.Style
	Help         lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")),
		SearchBar: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("39")),
		Dim:    lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("241")),
		CardFocused: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("99")),
		CardTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		Excerpt:   lipgloss.NewStyle().Foreground(lipgloss.Color("248")),
		Authors:   lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
		Mark: lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true),
		NoMatch: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
		Preview: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("241")),
		PreviewTitle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		CodeBlock:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Quote:        lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245")),
		Link:         lipgloss.NewStyle().Underline(true).Foreground(lipgloss.Color("39")),
		Error:        lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Help:         lipgloss.NewStyle().Faint(true),
	}
}
