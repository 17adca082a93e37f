package movement

import "math"

// DefaultAvoidanceRadius is the congestion probe radius around a member,
// in world units.
const DefaultAvoidanceRadius = 3.0

// avoidanceWeightPerObstacle scales local density into a steering weight;
// avoidanceWeightMax caps it so the goal direction always keeps at least
// a 0.2 share of the blend.
const (
	avoidanceWeightPerObstacle = 0.2
	avoidanceWeightMax         = 0.8
)

var sqrt2inv = 1 / math.Sqrt2

// steerDirs is the fixed scan order for escape directions:
// E, W, N, S, NE, SW, NW, SE. Ties on density go to the
// first-encountered direction, so the order is load-bearing.
// Diagonals are unit length so a blended step never exceeds speed.
var steerDirs = [8]Position{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: sqrt2inv, Y: -sqrt2inv},
	{X: -sqrt2inv, Y: sqrt2inv},
	{X: -sqrt2inv, Y: -sqrt2inv},
	{X: sqrt2inv, Y: sqrt2inv},
}

// avoidanceWeight converts an obstacle count into the blend share given
// to the escape direction: 0.2 per neighbor, clamped at 0.8.
func avoidanceWeight(obstacleCount int) float64 {
	w := float64(obstacleCount) * avoidanceWeightPerObstacle
	if w > avoidanceWeightMax {
		return avoidanceWeightMax
	}
	return w
}

// densityAt counts indexed entities within radius of pos, excluding self.
// The member itself is present in the index, so without the exclusion
// the count would never reach zero.
func densityAt(index *SpatialIndex, self string, pos Position, radius float64) int {
	n := 0
	for _, id := range index.EntitiesInRadius(pos, radius) {
		if id != self {
			n++
		}
	}
	return n
}

// steerAway picks the escape direction whose neighboring cell holds the
// fewest indexed entities. Directions are probed one cell out from pos in
// the fixed steerDirs order; the first direction with the lowest count
// wins.
func steerAway(index *SpatialIndex, self string, pos Position, radius float64) Position {
	best := steerDirs[0]
	bestCount := math.MaxInt
	for _, dir := range steerDirs {
		probe := pos.Add(dir.Scale(radius))
		count := densityAt(index, self, probe, radius)
		if count < bestCount {
			bestCount = count
			best = dir
		}
	}
	return best
}

// avoidStep blends the direct step toward target with the least-crowded
// escape direction, weighted by local density.
func avoidStep(index *SpatialIndex, self string, pos, target Position, speed float64, obstacleCount int, radius float64) Position {
	base := StepToward(pos, target, speed)
	w := avoidanceWeight(obstacleCount)
	escape := steerAway(index, self, pos, radius)
	return base.Scale(1 - w).Add(escape.Scale(w * speed))
}
