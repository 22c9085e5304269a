package core

import (
	"fmt"
	"math"
	"slices"

	platformcore "github.com/vovakirdan/collector/internal/core"
)

type Vec2 = platformcore.Vec2

// CellManager is the pool of free cells a level is carved from.
// Cells are identified by row*width + col. Order is significant: PopNext takes
// the head and Randomize permutes the pool with the episode RNG.
type CellManager struct {
	width  int
	height int
	cells  []int
	free   []bool
	rng    *platformcore.RNG
}

// NewCellManager creates an empty pool drawing from rng.
func NewCellManager(rng *platformcore.RNG) *CellManager {
	return &CellManager{rng: rng}
}

// Reset clears the pool and sets the grid dimensions.
func (m *CellManager) Reset(width, height int) {
	m.width = width
	m.height = height
	m.cells = m.cells[:0]
	m.free = make([]bool, width*height)
}

// SetRNG replaces the generator used by random pops.
func (m *CellManager) SetRNG(rng *platformcore.RNG) {
	m.rng = rng
}

// Width returns the grid width.
func (m *CellManager) Width() int { return m.width }

// Height returns the grid height.
func (m *CellManager) Height() int { return m.height }

// AddCells registers cells as free. Duplicates and out-of-grid ids are ignored.
func (m *CellManager) AddCells(cells ...int) {
	for _, c := range cells {
		m.Push(c)
	}
}

// Filter keeps only the cells for which keep returns true.
func (m *CellManager) Filter(keep func(cell int) bool) {
	out := m.cells[:0]
	for _, c := range m.cells {
		if keep(c) {
			out = append(out, c)
		} else {
			m.free[c] = false
		}
	}
	m.cells = out
}

// Randomize permutes the pool uniformly.
func (m *CellManager) Randomize() {
	platformcore.Shuffle(m.rng, m.cells)
}

// Size returns the number of free cells.
func (m *CellManager) Size() int { return len(m.cells) }

// Contains reports whether cell is currently free.
func (m *CellManager) Contains(cell int) bool {
	return m.valid(cell) && m.free[cell]
}

// Index returns the pool position of cell, or -1.
func (m *CellManager) Index(cell int) int {
	if !m.Contains(cell) {
		return -1
	}
	return slices.Index(m.cells, cell)
}

// Peek returns the cell at pool position idx without removing it.
func (m *CellManager) Peek(idx int) (int, error) {
	if idx < 0 || idx >= len(m.cells) {
		return 0, fmt.Errorf("cells: peek %d of %d: %w", idx, len(m.cells), ErrNoCell)
	}
	return m.cells[idx], nil
}

// Push returns a cell to the pool. Pushing a free cell is a no-op.
func (m *CellManager) Push(cell int) {
	if !m.valid(cell) || m.free[cell] {
		return
	}
	m.cells = append(m.cells, cell)
	m.free[cell] = true
}

// PopAt removes and returns the cell at pool position idx.
func (m *CellManager) PopAt(idx int) (int, error) {
	if idx < 0 || idx >= len(m.cells) {
		return 0, fmt.Errorf("cells: pop at %d of %d: %w", idx, len(m.cells), ErrNoCell)
	}
	c := m.cells[idx]
	m.cells = slices.Delete(m.cells, idx, idx+1)
	m.free[c] = false
	return c, nil
}

// PopCell removes a specific cell.
func (m *CellManager) PopCell(cell int) (int, error) {
	idx := m.Index(cell)
	if idx < 0 {
		return 0, fmt.Errorf("cells: cell %d not free: %w", cell, ErrNoCell)
	}
	return m.PopAt(idx)
}

// PopNext removes the head of the pool.
func (m *CellManager) PopNext() (int, error) {
	return m.PopAt(0)
}

// PopRandom removes a uniformly random cell.
func (m *CellManager) PopRandom() (int, error) {
	if len(m.cells) == 0 {
		return 0, fmt.Errorf("cells: pool empty: %w", ErrNoCell)
	}
	return m.PopAt(m.rng.Intn(len(m.cells)))
}

// popFirst scans the pool once from a random offset and pops the first cell
// whose center satisfies ok.
func (m *CellManager) popFirst(ok func(pos Vec2) bool) (int, error) {
	n := len(m.cells)
	if n == 0 {
		return 0, fmt.Errorf("cells: pool empty: %w", ErrNoCell)
	}
	start := m.rng.Intn(n)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		if ok(m.CellToPos(m.cells[idx])) {
			return m.PopAt(idx)
		}
	}
	return 0, ErrNoCell
}

// PopRandomMinDistanceFrom pops a cell at least d away from p.
func (m *CellManager) PopRandomMinDistanceFrom(p Vec2, d float64) (int, error) {
	return m.popFirst(func(pos Vec2) bool {
		return platformcore.Dist(pos, p) >= d
	})
}

// PopRandomMaxDistanceFrom pops a cell at most d away from p.
func (m *CellManager) PopRandomMaxDistanceFrom(p Vec2, d float64) (int, error) {
	return m.popFirst(func(pos Vec2) bool {
		return platformcore.Dist(pos, p) <= d
	})
}

// PopRandomMinMaxDistanceFrom pops a cell at least dmin from pmin and at most
// dmax from pmax.
func (m *CellManager) PopRandomMinMaxDistanceFrom(pmin Vec2, dmin float64, pmax Vec2, dmax float64) (int, error) {
	return m.popFirst(func(pos Vec2) bool {
		return platformcore.Dist(pos, pmin) >= dmin && platformcore.Dist(pos, pmax) <= dmax
	})
}

// PopRandomAwayFrom pops a cell at least dmin from every point and at most
// dmax from pmax. Non-positive thresholds disable their constraint.
func (m *CellManager) PopRandomAwayFrom(points []Vec2, dmin float64, pmax Vec2, dmax float64) (int, error) {
	return m.popFirst(func(pos Vec2) bool {
		return clearOf(pos, points, dmin) && within(pos, pmax, dmax)
	})
}

// PopRandomAwayFromBoth is PopRandomAwayFrom with an extra minimum distance
// d0 from p0.
func (m *CellManager) PopRandomAwayFromBoth(p0 Vec2, d0 float64, points []Vec2, dmin float64, pmax Vec2, dmax float64) (int, error) {
	return m.popFirst(func(pos Vec2) bool {
		if d0 > 0 && platformcore.Dist(pos, p0) < d0 {
			return false
		}
		return within(pos, pmax, dmax) && clearOf(pos, points, dmin)
	})
}

// PopRandomInLine pops a cell near the segment from a to b. Candidates are
// unit steps along the dominant axes of the segment, each jittered over the
// surrounding 3x3 window, all visited in random order.
func (m *CellManager) PopRandomInLine(a, b Vec2, points []Vec2, dmin float64, pmax Vec2, dmax float64) (int, error) {
	dx, dy := b.X-a.X, b.Y-a.Y

	// Positive entries step in x, negative entries step in y.
	var shifts []int
	for n := 1; float64(n) < math.Abs(dx); n++ {
		shifts = append(shifts, n)
	}
	for n := 1; float64(n) < math.Abs(dy); n++ {
		shifts = append(shifts, -n)
	}

	skip := make(map[int]bool)
	for _, si := range m.rng.Perm(len(shifts)) {
		n := float64(shifts[si])
		base := a
		if n >= 0 {
			if dx < 0 {
				n = -n
			}
			base.X += n
			base.Y += dy / dx * n
		} else {
			if dy > 0 {
				n = -n
			}
			base.X += dx / dy * n
			base.Y += n
		}

		for _, r := range m.rng.Perm(9) {
			cand := Vec2{X: base.X + float64(r%3-1), Y: base.Y + float64(r/3-1)}
			if !m.InBounds(cand) {
				continue
			}
			cell := m.PosToCell(cand)
			if skip[cell] {
				continue
			}
			if !m.Contains(cell) || !clearOf(cand, points, dmin) || !within(cand, pmax, dmax) {
				skip[cell] = true
				continue
			}
			return m.PopCell(cell)
		}
	}
	return 0, ErrNoCell
}

// MirroredPair pops two free cells that mirror each other across the line
// through lineA and lineB. The mirrored cell is the one containing the exact
// reflection of the first cell's center.
func (m *CellManager) MirroredPair(lineA, lineB Vec2, minDistance, minRadius float64, points []Vec2, maxOffCenter float64) (Vec2, Vec2, error) {
	if platformcore.Degenerate(lineA, lineB) {
		return Vec2{}, Vec2{}, ErrDegenerateAxis
	}
	n := len(m.cells)
	if n == 0 {
		return Vec2{}, Vec2{}, fmt.Errorf("cells: pool empty: %w", ErrNoCell)
	}
	center := m.Center()
	start := m.rng.Intn(n)
	for i := 0; i < n; i++ {
		ci1 := m.cells[(start+i)%n]
		c1 := m.CellToPos(ci1)
		c2 := m.snap(platformcore.Reflect(c1, lineA, lineB))
		if !m.InBounds(c2) {
			continue
		}
		ci2 := m.PosToCell(c2)
		if ci1 == ci2 || !m.Contains(ci2) {
			continue
		}
		if minDistance > 0 && platformcore.Dist(c1, c2) < minDistance {
			continue
		}
		if maxOffCenter > 0 && (platformcore.Dist(c1, center) > maxOffCenter || platformcore.Dist(c2, center) > maxOffCenter) {
			continue
		}
		if !clearOf(c1, points, minRadius) || !clearOf(c2, points, minRadius) {
			continue
		}
		if _, err := m.PopCell(ci1); err != nil {
			return Vec2{}, Vec2{}, err
		}
		if _, err := m.PopCell(ci2); err != nil {
			return Vec2{}, Vec2{}, err
		}
		return c1, c2, nil
	}
	return Vec2{}, Vec2{}, ErrNoCell
}

// MirrorPoint returns the cell center of src reflected through pivot.
func (m *CellManager) MirrorPoint(src, pivot Vec2) Vec2 {
	return m.snap(Vec2{X: 2*pivot.X - src.X, Y: 2*pivot.Y - src.Y})
}

// Center returns the middle of the playable disk.
func (m *CellManager) Center() Vec2 {
	return Vec2{
		X: float64(m.width-gridPad)/2 + gridPad/2.0,
		Y: float64(m.height-gridPad)/2 + 1,
	}
}

// WorldDim returns the diameter of the playable disk.
func (m *CellManager) WorldDim() int {
	return m.width - gridPad
}

// CellToPos returns the center of a cell.
func (m *CellManager) CellToPos(cell int) Vec2 {
	return Vec2{X: float64(cell%m.width) + .5, Y: float64(cell/m.width) + .5}
}

// PosToCell returns the cell containing pos. pos must be in bounds.
func (m *CellManager) PosToCell(pos Vec2) int {
	return int(pos.Y)*m.width + int(pos.X)
}

// InBounds reports whether pos lies inside the grid.
func (m *CellManager) InBounds(pos Vec2) bool {
	return pos.X >= 0 && pos.Y >= 0 && pos.X < float64(m.width) && pos.Y < float64(m.height)
}

func (m *CellManager) valid(cell int) bool {
	return cell >= 0 && cell < len(m.free)
}

func (m *CellManager) snap(p Vec2) Vec2 {
	return Vec2{X: math.Floor(p.X) + .5, Y: math.Floor(p.Y) + .5}
}

// clearOf reports whether pos keeps at least d from every point.
func clearOf(pos Vec2, points []Vec2, d float64) bool {
	if d <= 0 {
		return true
	}
	for _, p := range points {
		if platformcore.Dist(pos, p) < d {
			return false
		}
	}
	return true
}

// within reports whether pos is no more than d from p.
func within(pos, p Vec2, d float64) bool {
	return d <= 0 || platformcore.Dist(pos, p) <= d
}
