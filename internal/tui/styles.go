package tui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = newPalette("#1DB954", "#1DB954", "#DC3545", "#FFA500", "#626262")

// palette is the stylesheet for every screen.
type palette struct {
	title    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	selected lipgloss.Style
	help     lipgloss.Style
	button   lipgloss.Style
	disabled lipgloss.Style
}

func newPalette(title, ok, err, selected, help string) *palette {
	return &palette{
		title:    newBold(title).MarginBottom(1),
		ok:       newBold(ok),
		err:      newBold(err),
		selected: newStyle(selected),
		help:     newEm(help),
		button: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(ok)).
			Padding(0, 2),
		disabled: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color(help)).
			Padding(0, 2),
	}
}

func newStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func newBold(fg string) lipgloss.Style {
	return newStyle(fg).Bold(true)
}

func newEm(fg string) lipgloss.Style {
	return newStyle(fg).Italic(true)
}
