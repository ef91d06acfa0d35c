package editor

import "github.com/charmbracelet/lipgloss"

// Style controls the terminal rendering.
type Style struct {
	Text      lipgloss.Style
	Selection lipgloss.Style
	Cursor    lipgloss.Style
	Link      lipgloss.Style

	// Headings are indexed by level minus one.
	Headings [3]lipgloss.Style
	Marker   lipgloss.Style
	Quote    lipgloss.Style
	Rule     lipgloss.Style

	Image         lipgloss.Style
	ImageSelected lipgloss.Style
	Handle        lipgloss.Style
	Toolbar       lipgloss.Style
	Status        lipgloss.Style
}

func DefaultStyle() Style {
	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	accent := lipgloss.Color("69")
	return Style{
		Text:      lipgloss.NewStyle(),
		Selection: lipgloss.NewStyle().Background(lipgloss.Color("237")),
		Cursor:    lipgloss.NewStyle().Reverse(true),
		Link:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true),
		Headings: [3]lipgloss.Style{
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
			lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("177")),
			lipgloss.NewStyle().Bold(true),
		},
		Marker:        muted,
		Quote:         muted,
		Rule:          muted,
		Image:         muted,
		ImageSelected: lipgloss.NewStyle().Foreground(accent),
		Handle:        lipgloss.NewStyle().Foreground(accent).Bold(true),
		Toolbar:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
		Status:        muted,
	}
}
