package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color
	Primary       lipgloss.Color
	Accent        lipgloss.Color
	Success       lipgloss.Color
	Warning       lipgloss.Color
	Error         lipgloss.Color
	Border        lipgloss.Color
	BorderFocus   lipgloss.Color
	Selection     lipgloss.Color
}

var DefaultTheme = Theme{
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),
	Primary:       lipgloss.Color("#7aa2f7"),
	Accent:        lipgloss.Color("#bb9af7"),
	Success:       lipgloss.Color("#9ece6a"),
	Warning:       lipgloss.Color("#e0af68"),
	Error:         lipgloss.Color("#f7768e"),
	Border:        lipgloss.Color("#3b4261"),
	BorderFocus:   lipgloss.Color("#7aa2f7"),
	Selection:     lipgloss.Color("#33467c"),
}

const maxWidth = 72

type styles struct {
	title       lipgloss.Style
	dim         lipgloss.Style
	errorText   lipgloss.Style
	success     lipgloss.Style
	tab         lipgloss.Style
	tabSelected lipgloss.Style
	box         lipgloss.Style
	boxFocus    lipgloss.Style
	boxShake    lipgloss.Style
	row         lipgloss.Style
	rowCursor   lipgloss.Style
	done        lipgloss.Style
	badge       lipgloss.Style
	stats       lipgloss.Style
	modal       lipgloss.Style
}

func newStyles(t Theme) styles {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return styles{
		title:       lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		dim:         lipgloss.NewStyle().Foreground(t.ForegroundDim),
		errorText:   lipgloss.NewStyle().Foreground(t.Error),
		success:     lipgloss.NewStyle().Bold(true).Foreground(t.Success),
		tab:         lipgloss.NewStyle().Padding(0, 1).Foreground(t.ForegroundDim),
		tabSelected: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(t.Foreground).Background(t.Selection),
		box:         box,
		boxFocus:    box.BorderForeground(t.BorderFocus),
		boxShake:    box.BorderForeground(t.Error),
		row:         lipgloss.NewStyle().Foreground(t.Foreground),
		rowCursor:   lipgloss.NewStyle().Foreground(t.Foreground).Background(t.Selection),
		done:        lipgloss.NewStyle().Foreground(t.ForegroundDim).Strikethrough(true),
		badge:       lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		stats:       lipgloss.NewStyle().Foreground(t.Accent),
		modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(t.Accent).
			Padding(1, 2),
	}
}
