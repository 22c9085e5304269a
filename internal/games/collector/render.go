package collector

import (
	"fmt"
	"math"
	"strings"

	platformcore "github.com/vovakirdan/collector/internal/core"
	"github.com/vovakirdan/collector/internal/games/collector/core"
)

const (
	cellW      = 2 // terminal columns per grid cell
	hudHeight  = 1
	panelWidth = 22
	gaugeWidth = 12
)

// Arrows indexed by screen heading in eighths of a turn, starting east and
// going clockwise.
var arrows = [8]rune{'→', '↘', '↓', '↙', '←', '↖', '↑', '↗'}

// Render draws the arena, the entities and the status panel.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if !g.ready {
		g.renderFailure(dst)
		return
	}

	grid := g.ep.Grid()
	if dst.Width() < grid.Width()*cellW || dst.Height() < grid.Height()+hudHeight {
		dst.DrawTextCentered(dst.Height()/2-1, "Window too small", platformcore.ColorYellow)
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("Need %dx%d", grid.Width()*cellW, grid.Height()+hudHeight), platformcore.ColorGray)
		return
	}

	g.renderHUD(dst)

	ox := (dst.Width() - grid.Width()*cellW) / 2
	if dst.Width() >= grid.Width()*cellW+panelWidth+2 {
		ox = 0
	}
	oy := hudHeight
	g.renderArena(dst, ox, oy)
	g.renderEntities(dst, ox, oy)

	if px := ox + grid.Width()*cellW + 2; px+panelWidth <= dst.Width() {
		g.renderPanel(dst, px, oy+1)
	}

	mid := oy + grid.Height()/2
	switch {
	case g.reason == endComplete:
		overlay(dst, mid, "Level complete!", "R: next level", platformcore.ColorGreen)
	case g.reason == endFuel:
		overlay(dst, mid, "Out of fuel", "R: next level", platformcore.ColorRed)
	case g.reason == endTimeout:
		overlay(dst, mid, "Time up", "R: next level", platformcore.ColorOrange)
	case g.reason == endError:
		overlay(dst, mid, "Step failed", g.err.Error(), platformcore.ColorRed)
	case g.paused:
		overlay(dst, mid, "Paused", "P: resume", platformcore.ColorYellow)
	}
}

// renderFailure explains why there is no level, wrapping the error to the
// screen width.
func (g *Game) renderFailure(dst *platformcore.Screen) {
	if g.err == nil {
		dst.DrawTextCentered(dst.Height()/2, "No level", platformcore.ColorGray)
		return
	}

	detail := wrapText(g.err.Error(), dst.Width()-2)
	lines := make([]string, 0, len(detail)+3)
	lines = append(lines, "Layout failed")
	lines = append(lines, detail...)
	if g.ep != nil {
		lines = append(lines, "", "R: try the next seed")
	}

	top := max((dst.Height()-len(lines))/2, 0)
	for i, line := range lines {
		c := platformcore.ColorGray
		if i == 0 {
			c = platformcore.ColorRed
		}
		dst.DrawTextCentered(top+i, fitText(line, dst.Width()), c)
	}
}

// wrapText breaks s into lines of at most width runes, splitting on spaces
// and cutting words that are longer than a line.
func wrapText(s string, width int) []string {
	width = max(width, 1)
	var lines []string
	var cur []rune
	for _, word := range strings.Fields(s) {
		w := []rune(word)
		if len(cur) > 0 && len(cur)+1+len(w) > width {
			lines = append(lines, string(cur))
			cur = nil
		}
		for len(w) > width {
			if len(cur) > 0 {
				lines = append(lines, string(cur))
				cur = nil
			}
			lines = append(lines, string(w[:width]))
			w = w[width:]
		}
		if len(w) == 0 {
			continue
		}
		if len(cur) > 0 {
			cur = append(cur, ' ')
		}
		cur = append(cur, w...)
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}
	return lines
}

// fitText cuts s to width runes, marking the cut with an ellipsis.
func fitText(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:max(width, 0)])
	}
	return string(r[:width-1]) + "…"
}

// overlay draws a framed two-line message centered on row mid. Both lines are
// cut to fit inside the screen.
func overlay(dst *platformcore.Screen, mid int, title, hint string, c platformcore.Color) {
	inner := max(dst.Width()-4, 1)
	title, hint = fitText(title, inner), fitText(hint, inner)
	w := max(len([]rune(title)), len([]rune(hint))) + 4
	box := platformcore.NewRect((dst.Width()-w)/2, mid-1, w, 4)
	for y := box.Y; y < box.Bottom(); y++ {
		for x := box.X; x < box.Right(); x++ {
			dst.Set(x, y, ' ', platformcore.ColorDefault)
		}
	}
	dst.DrawBox(box, c)
	dst.DrawTextCentered(mid, title, c)
	dst.DrawTextCentered(mid+1, hint, platformcore.ColorGray)
}

func (g *Game) renderHUD(dst *platformcore.Screen) {
	hud := fmt.Sprintf(" %s | seed %d | tick %d | reward %.1f (%+.1f)",
		g.preset.title, g.ep.Seed(), g.ep.Tick(), g.ep.TotalReward(), g.lastReward)
	dst.DrawText(0, 0, hud, platformcore.ColorCyan)
}

// renderArena draws only the walls that border open space, which outlines the
// disk without filling the padding around it.
func (g *Game) renderArena(dst *platformcore.Screen, ox, oy int) {
	grid := g.ep.Grid()
	w, h := grid.Width(), grid.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := y*w + x
			sx, sy := ox+x*cellW, oy+y
			if grid.Obj(cell) == core.TileSpace {
				continue
			}
			if !bordersSpace(grid, x, y) {
				continue
			}
			dst.Set(sx, sy, '█', platformcore.ColorGray)
			dst.Set(sx+1, sy, '█', platformcore.ColorGray)
		}
	}
}

func bordersSpace(grid *core.Grid, x, y int) bool {
	w, h := grid.Width(), grid.Height()
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || ny < 0 || nx >= w || ny >= h {
				continue
			}
			if grid.Obj(ny*w+nx) == core.TileSpace {
				return true
			}
		}
	}
	return false
}

func (g *Game) renderEntities(dst *platformcore.Screen, ox, oy int) {
	w := g.ep.World()
	plot := func(pos platformcore.Vec2, r rune, c platformcore.Color) {
		dst.Set(ox+int(pos.X)*cellW, oy+int(pos.Y), r, c)
	}

	for _, idx := range g.ep.Obstacles().All() {
		if e := w.At(idx); e.Active() {
			plot(e.Pos, '▓', platformcore.ColorOrange)
			dst.Set(ox+int(e.Pos.X)*cellW+1, oy+int(e.Pos.Y), '▓', platformcore.ColorOrange)
		}
	}
	for _, idx := range g.ep.Goals().All() {
		e := w.At(idx)
		plot(e.Pos, 'G', kindColor(e.Kind))
	}
	for _, idx := range g.ep.Resources().All() {
		e := w.At(idx)
		if !e.Active() {
			continue
		}
		if e.Kind == core.KindFuel {
			plot(e.Pos, 'F', platformcore.ColorYellow)
			continue
		}
		plot(e.Pos, '●', kindColor(e.Kind))
	}

	agent := g.ep.Ship().Entity()
	plot(agent.Pos, arrowFor(agent.Rot), platformcore.ColorCyan)
}

// arrowFor returns the glyph pointing along the thrust direction of a
// heading. Screen y grows downward, so the angle runs clockwise.
func arrowFor(rot float64) rune {
	theta := -rot + math.Pi/2
	i := int(math.Round(theta/(math.Pi/4))) % 8
	if i < 0 {
		i += 8
	}
	return arrows[i]
}

func kindColor(k core.Kind) platformcore.Color {
	switch k {
	case core.KindGoalGreen, core.KindResourceGreen:
		return platformcore.ColorGreen
	case core.KindGoalRed, core.KindResourceRed:
		return platformcore.ColorRed
	case core.KindFuel:
		return platformcore.ColorYellow
	default:
		return platformcore.ColorWhite
	}
}

func (g *Game) renderPanel(dst *platformcore.Screen, x, y int) {
	ship := g.ep.Ship()

	dst.DrawText(x, y, "Fuel", platformcore.ColorWhite)
	dst.DrawText(x, y+1, gauge(ship.Fuel.Percentage()), platformcore.ColorYellow)
	dst.DrawText(x+gaugeWidth+3, y+1, fmt.Sprintf("%5.1f", ship.Fuel.Value()), platformcore.ColorGray)

	dst.DrawText(x, y+3, "Cargo", platformcore.ColorWhite)
	cx := x
	for i, p := range ship.Cargo.Percentages() {
		n := int(math.Ceil(p * gaugeWidth))
		c := kindColor(ship.Cargo.SlotAt(i).Kind)
		for j := 0; j < n && cx < x+gaugeWidth; j++ {
			dst.Set(cx, y+4, '■', c)
			cx++
		}
	}
	for ; cx < x+gaugeWidth; cx++ {
		dst.Set(cx, y+4, '·', platformcore.ColorGray)
	}
	dst.DrawText(x+gaugeWidth+3, y+4, fmt.Sprintf("%5.1f", ship.Cargo.Value()), platformcore.ColorGray)

	dst.DrawText(x, y+6, "Goals", platformcore.ColorWhite)
	row := y + 7
	for _, idx := range g.ep.Goals().All() {
		e := g.ep.World().At(idx)
		dst.DrawText(x, row, gauge(e.Reserve.Percentage()), kindColor(e.Kind))
		dst.DrawText(x+gaugeWidth+3, row, fmt.Sprintf("%4.0f%%", e.Reserve.Percentage()*100), platformcore.ColorGray)
		row++
	}

	dst.DrawText(x, row+1, "W/S thrust A/D turn", platformcore.ColorGray)
	dst.DrawText(x, row+2, "P pause R next Q quit", platformcore.ColorGray)
}

func gauge(p float64) string {
	n := int(math.Round(platformcore.ClampF(p, 0, 1) * gaugeWidth))
	return "[" + strings.Repeat("=", n) + strings.Repeat(" ", gaugeWidth-n) + "]"
}
