package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/collector/internal/core"
)

// palette maps screen colors to styles bound to one renderer, so every SSH
// session gets the color profile of its own terminal.
type palette struct {
	styles map[core.Color]lipgloss.Style
	title  lipgloss.Style
	dim    lipgloss.Style
	cursor lipgloss.Style
}

var ansiCodes = map[core.Color]string{
	core.ColorRed:    "9",
	core.ColorGreen:  "10",
	core.ColorYellow: "11",
	core.ColorBlue:   "12",
	core.ColorCyan:   "14",
	core.ColorWhite:  "15",
	core.ColorOrange: "208",
	core.ColorGray:   "245",
}

func newPalette(r *lipgloss.Renderer) palette {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}
	p := palette{
		styles: map[core.Color]lipgloss.Style{core.ColorDefault: r.NewStyle()},
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		dim:    r.NewStyle().Foreground(lipgloss.Color("241")),
		cursor: r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
	}
	for c, code := range ansiCodes {
		p.styles[c] = r.NewStyle().Foreground(lipgloss.Color(code))
	}
	return p
}

func (p palette) style(c core.Color) lipgloss.Style {
	if st, ok := p.styles[c]; ok {
		return st
	}
	return p.styles[core.ColorDefault]
}

var defaultPalette = newPalette(nil)

// RenderScreen converts a screen buffer to styled text using the default
// renderer.
func RenderScreen(s *core.Screen) string {
	return defaultPalette.render(s)
}

// render styles each run of same-colored cells once.
func (p palette) render(s *core.Screen) string {
	var sb strings.Builder
	sb.Grow(s.Width()*s.Height()*2 + s.Height())

	var run strings.Builder
	for y := range s.Height() {
		if y > 0 {
			sb.WriteByte('\n')
		}
		run.Reset()
		color := s.GetCell(0, y).Color
		for x := range s.Width() {
			cell := s.GetCell(x, y)
			if cell.Color != color {
				sb.WriteString(p.style(color).Render(run.String()))
				run.Reset()
				color = cell.Color
			}
			run.WriteRune(cell.Rune)
		}
		if run.Len() > 0 {
			sb.WriteString(p.style(color).Render(run.String()))
		}
	}
	return sb.String()
}
