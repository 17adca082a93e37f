// Package movement implements coordinated group movement over a 2D grid
// world: formation slot assignment, lazy path recalculation, and
// density-based local obstacle avoidance. It is an in-process library:
// the host game loop constructs a Coordinator and drives it once per
// simulation tick.
package movement

import "math"

// Position is a continuous world-space coordinate.
type Position struct {
	X float64
	Y float64
}

// GridPosition is a discrete world cell. One cell spans one world unit,
// so conversion is plain rounding.
type GridPosition struct {
	X int
	Y int
}

// ToGrid rounds a world position to its containing cell.
func (p Position) ToGrid() GridPosition {
	return GridPosition{X: int(math.Round(p.X)), Y: int(math.Round(p.Y))}
}

// ToWorld converts a cell back to a world position at the cell origin.
func (g GridPosition) ToWorld() Position {
	return Position{X: float64(g.X), Y: float64(g.Y)}
}

// Add offsets a position by another.
func (p Position) Add(q Position) Position {
	return Position{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Position) Sub(q Position) Position {
	return Position{X: p.X - q.X, Y: p.Y - q.Y}
}

// Scale multiplies both components by s.
func (p Position) Scale(s float64) Position {
	return Position{X: p.X * s, Y: p.Y * s}
}

// Len returns the Euclidean length of p treated as a vector.
func (p Position) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist returns the Euclidean distance between two positions.
func Dist(a, b Position) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// StepToward returns the displacement from `from` toward `to`, capped at
// maxStep. If the remaining distance is within maxStep the step lands
// exactly on `to` — movement never overshoots.
func StepToward(from, to Position, maxStep float64) Position {
	d := to.Sub(from)
	dist := d.Len()
	if dist <= maxStep || dist == 0 {
		return d
	}
	return d.Scale(maxStep / dist)
}
