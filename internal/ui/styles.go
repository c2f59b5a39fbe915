package ui

import (
	"github.com/charmbracelet/lipgloss"

	"kasalog/internal/model"
)

type Styles struct {
	Base       lipgloss.Style
	Status     lipgloss.Style
	Help       lipgloss.Style
	Rule       lipgloss.Style
	Label      lipgloss.Style
	Plain      lipgloss.Style
	PopupBox   lipgloss.Style
	PopupTitle lipgloss.Style
	ToastInfo  lipgloss.Style
	ToastWarn  lipgloss.Style
	ToastError lipgloss.Style
	Level      map[model.SeverityTag]lipgloss.Style
}

// palette turns semantic color tags into terminal colors. Neutral and
// default are left unset so the terminal's own colors show through.
type palette map[model.ColorTag]lipgloss.TerminalColor

var darkPalette = palette{
	model.ColorGreen:   lipgloss.Color("42"),
	model.ColorWhite:   lipgloss.Color("231"),
	model.ColorOrange:  lipgloss.Color("208"),
	model.ColorRed:     lipgloss.Color("160"),
	model.ColorMagenta: lipgloss.Color("163"),
	model.ColorSky:     lipgloss.Color("117"),
	model.ColorBlue:    lipgloss.Color("75"),
}

var lightPalette = palette{
	model.ColorGreen:   lipgloss.Color("28"),
	model.ColorWhite:   lipgloss.Color("231"),
	model.ColorOrange:  lipgloss.Color("208"),
	model.ColorRed:     lipgloss.Color("160"),
	model.ColorMagenta: lipgloss.Color("127"),
	model.ColorSky:     lipgloss.Color("31"),
	model.ColorBlue:    lipgloss.Color("25"),
}

func (p palette) style(fg, bg model.ColorTag) lipgloss.Style {
	s := lipgloss.NewStyle()
	if c, ok := p[fg]; ok {
		s = s.Foreground(c)
	}
	if c, ok := p[bg]; ok {
		s = s.Background(c)
	}
	return s
}

func NewStyles(dark bool) Styles {
	s := Styles{}
	p := lightPalette
	if dark {
		p = darkPalette
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
		s.Rule = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("60")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("81"))
	} else {
		s.Status = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Help = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
		s.Rule = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		s.PopupBox = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 2)
		s.PopupTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("27"))
	}
	s.Base = lipgloss.NewStyle()
	s.Label = p.style(model.StyleColors(model.StyleLabel)).Bold(true)
	s.Plain = p.style(model.StyleColors(model.StylePlain))
	s.Level = make(map[model.SeverityTag]lipgloss.Style, len(model.AllTags))
	for _, tag := range model.AllTags {
		s.Level[tag] = p.style(model.Classify(tag))
	}
	s.ToastInfo = p.style(model.ColorWhite, model.ColorBlue).Padding(0, 1)
	s.ToastWarn = p.style(model.ColorWhite, model.ColorOrange).Padding(0, 1)
	s.ToastError = p.style(model.ColorWhite, model.ColorRed).Padding(0, 1)
	return s
}

// Segment returns the style for a segment style tag.
func (s Styles) Segment(st model.Style) lipgloss.Style {
	switch st {
	case model.StyleLabel:
		return s.Label
	case model.StylePlain:
		return s.Plain
	}
	if ls, ok := s.Level[model.SeverityTag(st)]; ok {
		return ls
	}
	return s.Level[model.TagUnknown]
}
