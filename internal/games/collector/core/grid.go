package core

import (
	"math"

	platformcore "github.com/vovakirdan/collector/internal/core"
)

// Tile is the static terrain of a cell.
type Tile uint8

const (
	TileSpace Tile = iota
	TileWall
)

// Margins around the playable disk: stats panel plus one bottom row.
const (
	statDim   = 5
	bottomDim = 1
	gridPad   = statDim + bottomDim
)

// Grid is the static tile layer of a level.
type Grid struct {
	width  int
	height int
	tiles  []Tile
}

// NewGrid creates a grid filled with walls.
func NewGrid(width, height int) *Grid {
	g := &Grid{width: width, height: height, tiles: make([]Tile, width*height)}
	for i := range g.tiles {
		g.tiles[i] = TileWall
	}
	return g
}

// BuildArena creates the circular arena for a world of the given dimension.
// A cell is space when its center lies strictly inside the disk.
func BuildArena(worldDim int) *Grid {
	size := worldDim + gridPad
	g := NewGrid(size, size)
	cx := float64(size) / 2
	cy := float64(worldDim)/2 + 1
	r := float64(worldDim) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if math.Hypot(float64(x)+.5-cx, float64(y)+.5-cy) < r {
				g.tiles[y*size+x] = TileSpace
			}
		}
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Size returns the number of cells.
func (g *Grid) Size() int { return len(g.tiles) }

// Obj returns the tile of a cell. Out-of-range cells read as walls.
func (g *Grid) Obj(cell int) Tile {
	if cell < 0 || cell >= len(g.tiles) {
		return TileWall
	}
	return g.tiles[cell]
}

// SetObj overwrites the tile of a cell.
func (g *Grid) SetObj(cell int, t Tile) {
	if cell < 0 || cell >= len(g.tiles) {
		return
	}
	g.tiles[cell] = t
}

// Blocked reports whether pos lies on a wall or outside the grid.
func (g *Grid) Blocked(pos platformcore.Vec2) bool {
	if pos.X < 0 || pos.Y < 0 {
		return true
	}
	x, y := int(pos.X), int(pos.Y)
	if x >= g.width || y >= g.height {
		return true
	}
	return g.tiles[y*g.width+x] == TileWall
}

// SpaceCells returns every space cell in row-major order.
func (g *Grid) SpaceCells() []int {
	var out []int
	for i, t := range g.tiles {
		if t == TileSpace {
			out = append(out, i)
		}
	}
	return out
}
