package core

import "fmt"

// Placement distances shared by the locators.
const (
	pairMinDistance  = 2.0
	pairMinRadius    = 2.0
	rimMargin        = 2.0
	agentMinFromAxis = 1.0
	inLineAgentMin   = 3.0
	inLineGoalMin    = 8.0
	inLineClearance  = 2.0
)

// Layout bundles everything a locator writes into.
type Layout struct {
	Cells     *CellManager
	World     *World
	Ship      *Ship
	Goals     *GoalManager
	Resources *ResourceManager
	Obstacles *ObstacleManager
}

// Locate lays out a fresh level with strategy t. The agent entity must already
// exist; every other entity is spawned here.
func Locate(t LocatorType, l *Layout, o Options) error {
	var err error
	switch t {
	case LocatorRandom:
		err = locateRandom(l, o)
	case LocatorSymmetric:
		err = locateSymmetric(l, o)
	case LocatorInLine:
		err = locateInLine(l, o)
	default:
		return fmt.Errorf("locator %v: %w", t, ErrInvalidOptions)
	}
	if err != nil {
		return fmt.Errorf("locator %s: %w", t, err)
	}
	return nil
}

// maxOffCenter keeps placements off the arena rim.
func (l *Layout) maxOffCenter() float64 {
	return float64(l.Cells.WorldDim())/2 - rimMargin
}

func (l *Layout) spawnAt(kind Kind, cell int) error {
	pos := l.Cells.CellToPos(cell)
	return l.spawnPos(kind, pos, cell)
}

func (l *Layout) spawnPos(kind Kind, pos Vec2, cell int) error {
	var err error
	switch {
	case kind.IsGoal():
		_, err = l.Goals.Spawn(kind, pos, cell)
	case kind.IsResource():
		_, err = l.Resources.Spawn(kind, pos, cell)
	case kind == KindObstacle:
		l.Obstacles.Spawn(pos, cell)
	default:
		err = fmt.Errorf("cannot spawn %s: %w", kind, ErrInvalidOptions)
	}
	return err
}

// spawnPair places a mirrored pair across the line through a and b.
func (l *Layout) spawnPair(first, second Kind, a, b Vec2) error {
	p1, p2, err := l.Cells.MirroredPair(a, b, pairMinDistance, pairMinRadius, l.World.Positions(), l.maxOffCenter())
	if err != nil {
		return fmt.Errorf("%s/%s pair: %w", first, second, err)
	}
	if err := l.spawnPos(first, p1, l.Cells.PosToCell(p1)); err != nil {
		return err
	}
	return l.spawnPos(second, p2, l.Cells.PosToCell(p2))
}

func locateRandom(l *Layout, o Options) error {
	agent, err := l.Cells.PopRandom()
	if err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	l.Ship.SetPoseFacing(l.Cells.CellToPos(agent), l.Cells.Center())

	groups := []struct {
		kind Kind
		n    int
	}{
		{KindGoalGreen, o.NumGoalsGreen},
		{KindGoalRed, o.NumGoalsRed},
		{KindResourceGreen, o.NumResourcesGreen},
		{KindResourceRed, o.NumResourcesRed},
		{KindFuel, o.NumFuel},
		{KindObstacle, o.NumObstacles},
	}
	for _, g := range groups {
		for i := 0; i < g.n; i++ {
			cell, err := l.Cells.PopRandom()
			if err != nil {
				return fmt.Errorf("%s %d: %w", g.kind, i, err)
			}
			if err := l.spawnAt(g.kind, cell); err != nil {
				return err
			}
		}
	}
	return nil
}

// locateSymmetric mirrors every pair across the line from the arena center to
// the agent.
func locateSymmetric(l *Layout, o Options) error {
	center := l.Cells.Center()
	agent, err := l.Cells.PopRandomMinDistanceFrom(center, agentMinFromAxis)
	if err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	agentPos := l.Cells.CellToPos(agent)
	l.Ship.SetPoseFacing(agentPos, center)

	return placePairs(l, o, func(int) (Vec2, Vec2) { return center, agentPos }, true)
}

// locateInLine puts each red goal on the way from the agent to its green goal
// and mirrors the remaining pairs across agent-to-green-goal lines. The agent
// is only posed once everything else is placed, so its cell is reserved but
// does not push other entities away.
func locateInLine(l *Layout, o Options) error {
	center := l.Cells.Center()
	rim := l.maxOffCenter()

	agent, err := l.Cells.PopRandomMinMaxDistanceFrom(center, inLineAgentMin, center, rim)
	if err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	agentPos := l.Cells.CellToPos(agent)

	greens := make([]Vec2, 0, o.NumGoalsGreen)
	for i := 0; i < o.NumGoalsGreen; i++ {
		gc, err := l.Cells.PopRandomAwayFromBoth(agentPos, inLineGoalMin, l.World.Positions(), inLineClearance, center, rim)
		if err != nil {
			return fmt.Errorf("green goal %d: %w", i, err)
		}
		greenPos := l.Cells.CellToPos(gc)
		green, err := l.Goals.Spawn(KindGoalGreen, greenPos, gc)
		if err != nil {
			return err
		}

		rc, err := l.Cells.PopRandomInLine(agentPos, greenPos, l.World.Positions(), inLineClearance, center, rim)
		if err != nil {
			return fmt.Errorf("red goal %d: %w", i, err)
		}
		red, err := l.Goals.Spawn(KindGoalRed, l.Cells.CellToPos(rc), rc)
		if err != nil {
			return err
		}
		l.Goals.Ignore(green, KindResourceRed)
		l.Goals.Ignore(red, KindResourceGreen)
		greens = append(greens, greenPos)
	}

	axis := func(i int) (Vec2, Vec2) { return greens[i%len(greens)], agentPos }
	if err := placePairs(l, o, axis, false); err != nil {
		return err
	}
	l.Ship.SetPoseFacing(agentPos, greens[0])
	return nil
}

// placePairs spawns mirrored pairs in a fixed order: goals (when withGoals),
// green/red resources, fuel, then obstacles. axis returns the mirror line for
// the i-th pair of each group.
func placePairs(l *Layout, o Options, axis func(i int) (Vec2, Vec2), withGoals bool) error {
	type pairGroup struct {
		first, second Kind
		n             int
	}
	var groups []pairGroup
	if withGoals {
		groups = append(groups, pairGroup{KindGoalGreen, KindGoalRed, o.NumGoalsGreen})
	}
	groups = append(groups,
		pairGroup{KindResourceGreen, KindResourceRed, o.NumResourcesGreen},
		pairGroup{KindFuel, KindFuel, o.NumFuel / 2},
		pairGroup{KindObstacle, KindObstacle, o.NumObstacles / 2},
	)
	for _, g := range groups {
		for i := 0; i < g.n; i++ {
			a, b := axis(i)
			if err := l.spawnPair(g.first, g.second, a, b); err != nil {
				return err
			}
		}
	}
	return nil
}
