// Package core provides fundamental types and utilities shared by the
// simulation, the engine and the terminal platform. It contains no external
// dependencies (especially no Bubble Tea) to keep game logic pure and testable.
package core

import "math"

// Vec2 is a point or direction in world units. Cell centers sit on .5 offsets.
type Vec2 struct {
	X, Y float64
}

// V creates a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * k.
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Dist returns the Euclidean distance between two points.
func Dist(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Degenerate reports whether a and b are too close to define a line.
func Degenerate(a, b Vec2) bool {
	return Dist(a, b) < 1e-9
}

// ProjectOnLine returns the orthogonal projection of p onto the infinite line
// through a and b. The caller must ensure the line is not degenerate.
func ProjectOnLine(p, a, b Vec2) Vec2 {
	// Line in implicit form la*x + lb*y + lc = 0.
	la := b.Y - a.Y
	lb := a.X - b.X
	lc := b.X*a.Y - a.X*b.Y
	d := la*la + lb*lb
	return Vec2{
		X: (lb*(lb*p.X-la*p.Y) - la*lc) / d,
		Y: (la*(la*p.Y-lb*p.X) - lb*lc) / d,
	}
}

// Reflect mirrors p across the line through a and b.
func Reflect(p, a, b Vec2) Vec2 {
	m := ProjectOnLine(p, a, b)
	return Vec2{X: 2*m.X - p.X, Y: 2*m.Y - p.Y}
}

// DistToLine returns the distance from p to the infinite line through a and b.
func DistToLine(p, a, b Vec2) float64 {
	return Dist(p, ProjectOnLine(p, a, b))
}

// LineParam returns t such that a + t*(b-a) is the projection of p.
func LineParam(p, a, b Vec2) float64 {
	ab := b.Sub(a)
	return p.Sub(a).Dot(ab) / ab.Dot(ab)
}

// Heading returns the rotation that makes an entity at from face to.
// Rotation 0 points along +y and grows clockwise, matching the engine.
func Heading(from, to Vec2) float64 {
	return -math.Atan2(to.Y-from.Y, to.X-from.X) + math.Pi/2
}

// Rect represents an axis-aligned box on the screen grid.
type Rect struct {
	X, Y int
	W, H int
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
