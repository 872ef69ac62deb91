package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette(Swatch{
	Title: "#C2185B",
	OK:    "#04B575",
	Err:   "#FF4F4F",
	Warn:  "#FFA500",
	Help:  "#626262",
	Heart: "#E91E63",
})

// Swatch names the foreground colors of a [Palette].
type Swatch struct {
	Title, OK, Err, Warn, Help, Heart string
}

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title   lipgloss.Style
	ok      lipgloss.Style
	err     lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
	heart   lipgloss.Style
	focused lipgloss.Style
	blurred lipgloss.Style
}

func NewPalette(s Swatch) *Palette {
	return &Palette{
		title:   NewBold(s.Title).MarginBottom(1),
		ok:      NewBold(s.OK),
		err:     NewBold(s.Err),
		warn:    NewStyle(s.Warn),
		help:    NewEm(s.Help),
		heart:   NewBold(s.Heart),
		focused: NewStyle(s.Title),
		blurred: NewStyle(s.Help),
	}
}

var plainStyle = lipgloss.NewStyle()

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

// heart renders the favorite marker for a list row.
func heart(saved bool) string {
	if saved {
		return styles.heart.Render("♥")
	}
	return styles.blurred.Render("♡")
}
