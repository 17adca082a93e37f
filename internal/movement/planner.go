package movement

import "math"

// PlanOptions carries formation hints to the path planner.
type PlanOptions struct {
	GroupSize           int
	FormationWidth      int
	FormationSpacing    float64
	PredictiveAvoidance bool
}

// PathPlanner computes an ordered waypoint sequence for a group. The
// coordinator only ever consumes index 0 of the result: it replans on
// slot drift, and again once the group settles on a waypoint short of
// the target cell, so planners are free to return as many or as few
// waypoints as they like. A nil or empty result means no path could be
// found.
type PathPlanner interface {
	FindGroupPath(origin, destination GridPosition, opts PlanOptions) []GridPosition
}

// WaypointPlanner is a straight-line planner: it interpolates cells
// between origin and destination at a fixed stride. It performs no
// obstacle search; it exists so the harness and the sim CLI have a
// working planner without one.
//
// A zero Stride is derived from the formation spacing in PlanOptions,
// keeping each leg ahead of the coordinator's drift limit so the group
// spends its ticks walking rather than replanning.
type WaypointPlanner struct {
	// Stride is the cell distance between consecutive waypoints.
	// Zero or negative means derive it from the formation spacing.
	Stride float64
}

// DefaultPlannerStride is the fallback waypoint spacing in cells when
// neither Stride nor a formation spacing is available.
const DefaultPlannerStride = repathDriftFactor*DefaultFormationSpacing + 1

// FindGroupPath implements PathPlanner.
func (p *WaypointPlanner) FindGroupPath(origin, destination GridPosition, opts PlanOptions) []GridPosition {
	stride := p.Stride
	if stride <= 0 {
		if opts.FormationSpacing > 0 {
			stride = repathDriftFactor*opts.FormationSpacing + 1
		} else {
			stride = DefaultPlannerStride
		}
	}
	from := origin.ToWorld()
	to := destination.ToWorld()
	total := Dist(from, to)
	if total == 0 {
		return []GridPosition{destination}
	}

	steps := int(math.Ceil(total / stride))
	path := make([]GridPosition, 0, steps+1)
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		path = append(path, Position{
			X: from.X + (to.X-from.X)*t,
			Y: from.Y + (to.Y-from.Y)*t,
		}.ToGrid())
	}
	return path
}

// plannerFunc adapts a plain function to the PathPlanner interface.
// Used by tests to script planner behavior.
type plannerFunc func(origin, destination GridPosition, opts PlanOptions) []GridPosition

func (f plannerFunc) FindGroupPath(origin, destination GridPosition, opts PlanOptions) []GridPosition {
	return f(origin, destination, opts)
}
