package movement

import (
	"fmt"
	"log/slog"
	"sort"
)

// MovementTarget is a group's shared destination. At most one is live per
// group; setting a new one replaces it. Deadline is a coordinator tick
// number after which the target is treated as destroyed and removed
// lazily the next time the group is processed; zero means no deadline.
type MovementTarget struct {
	Pos      Position
	Priority int
	Deadline int
}

// DefaultReachThreshold is the arrival distance used by callers of
// HasReachedTarget that have no tighter requirement.
const DefaultReachThreshold = 1.0

// repathDriftFactor scales formation spacing into the slot drift that
// forces a path recalculation.
const repathDriftFactor = 2.0

// missedTicksBeforeRepair is how many consecutive ticks a slot-assigned
// member may be unresolvable before the formation is recomputed from the
// current roster.
const missedTicksBeforeRepair = 2

// Coordinator owns per-group target, formation, and path state and runs
// the per-tick movement update. It is single-threaded by contract: one
// host loop calls Tick once per simulation tick, and no internal locking
// is performed.
type Coordinator struct {
	registry GroupRegistry
	planner  PathPlanner
	spatial  *SpatialIndex

	spacing         float64
	avoidanceRadius float64

	targets    map[string]MovementTarget
	formations map[string]*Formation
	paths      map[string][]GridPosition
	missed     map[string]map[string]int

	tick    int
	log     *slog.Logger
	moveLog *MoveLog
}

// CoordinatorOption configures a Coordinator at construction.
type CoordinatorOption func(*Coordinator)

// WithSpacing sets the formation slot spacing in world units.
func WithSpacing(spacing float64) CoordinatorOption {
	return func(c *Coordinator) { c.spacing = spacing }
}

// WithAvoidanceRadius sets the congestion probe radius.
func WithAvoidanceRadius(r float64) CoordinatorOption {
	return func(c *Coordinator) { c.avoidanceRadius = r }
}

// WithLogger routes coordinator warnings to the given structured logger.
func WithLogger(l *slog.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.log = l }
}

// WithMoveLog records structured movement events for tests and reports.
func WithMoveLog(ml *MoveLog) CoordinatorOption {
	return func(c *Coordinator) { c.moveLog = ml }
}

// NewCoordinator creates a Coordinator over the given collaborators.
// Call Initialize before the first Tick.
func NewCoordinator(registry GroupRegistry, planner PathPlanner, spatial *SpatialIndex, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		registry:        registry,
		planner:         planner,
		spatial:         spatial,
		spacing:         DefaultFormationSpacing,
		avoidanceRadius: DefaultAvoidanceRadius,
		log:             slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Initialize()
	return c
}

// Initialize resets all per-group state and the tick counter. The host
// scheduler calls it once before driving Tick.
func (c *Coordinator) Initialize() {
	c.targets = make(map[string]MovementTarget)
	c.formations = make(map[string]*Formation)
	c.paths = make(map[string][]GridPosition)
	c.missed = make(map[string]map[string]int)
	c.tick = 0
}

// Shutdown releases per-group state. The coordinator may be reused after
// another Initialize.
func (c *Coordinator) Shutdown() {
	c.targets = nil
	c.formations = nil
	c.paths = nil
	c.missed = nil
}

// CurrentTick returns the number of Tick calls since Initialize.
func (c *Coordinator) CurrentTick() int {
	return c.tick
}

// SetGroupTarget stores a destination for the group, recomputes the
// formation from the current roster, and requests an initial path from
// the group centroid. Returns false without side effects if the group
// does not exist. Any previous target, formation, and path are replaced.
func (c *Coordinator) SetGroupTarget(groupID string, target MovementTarget) bool {
	g := c.registry.GetGroup(groupID)
	if g == nil {
		return false
	}
	members := g.Members()

	c.targets[groupID] = target
	c.formations[groupID] = ComputeFormation(members, c.spacing)
	c.missed[groupID] = make(map[string]int)
	c.moveLog.Add(c.tick, groupID, "--", "target", "set",
		fmt.Sprintf("(%.1f,%.1f) priority=%d", target.Pos.X, target.Pos.Y, target.Priority), 0)

	c.replan(groupID, members, target)
	return true
}

// ClearGroupTarget removes only the stored target. The formation and any
// stored path stay in place on purpose: a revived target reuses them
// until the drift trigger forces a replan.
func (c *Coordinator) ClearGroupTarget(groupID string) {
	if _, ok := c.targets[groupID]; !ok {
		return
	}
	delete(c.targets, groupID)
	c.moveLog.Add(c.tick, groupID, "--", "target", "cleared", "", 0)
}

// CleanupGroup deletes the target, formation, and path entries for the
// group. Paths are removed too: keeping them for a dead group is a leak,
// and a revived group replans on its first target anyway.
func (c *Coordinator) CleanupGroup(groupID string) {
	delete(c.targets, groupID)
	delete(c.formations, groupID)
	delete(c.paths, groupID)
	delete(c.missed, groupID)
}

// replan asks the planner for a fresh path from the group centroid to the
// target, replacing any stored path wholesale. An unresolvable centroid
// or an empty planner result leaves the group pathless; members then fall
// back to direct movement toward the raw target.
func (c *Coordinator) replan(groupID string, members []Member, target MovementTarget) {
	centroid, ok := c.centroidOf(members)
	if !ok {
		delete(c.paths, groupID)
		c.log.Warn("group centroid unresolvable, skipping path plan", "group", groupID)
		c.moveLog.Add(c.tick, groupID, "--", "path", "plan_failed", "no resolvable members", 0)
		return
	}

	opts := PlanOptions{
		GroupSize:           len(members),
		FormationWidth:      FormationWidth(len(members)),
		FormationSpacing:    c.spacing,
		PredictiveAvoidance: true,
	}
	path := c.planner.FindGroupPath(centroid.ToGrid(), target.Pos.ToGrid(), opts)
	if len(path) == 0 {
		delete(c.paths, groupID)
		c.log.Warn("path planner returned no path, falling back to direct movement",
			"group", groupID, "origin", centroid, "target", target.Pos)
		c.moveLog.Add(c.tick, groupID, "--", "path", "plan_failed", "planner returned empty path", 0)
		return
	}
	c.paths[groupID] = path
	c.moveLog.Add(c.tick, groupID, "--", "path", "planned",
		fmt.Sprintf("%d waypoints", len(path)), float64(len(path)))
}

// centroidOf averages the spatially-resolvable member positions.
func (c *Coordinator) centroidOf(members []Member) (Position, bool) {
	var sum Position
	n := 0
	for _, m := range members {
		if pos, ok := c.spatial.EntityPosition(m.ID); ok {
			sum = sum.Add(pos)
			n++
		}
	}
	if n == 0 {
		return Position{}, false
	}
	return sum.Scale(1 / float64(n)), true
}

// Tick is the per-tick entry point. npcPositions is the world position
// store for this tick: positions are read from it and the computed moves
// are written back into it and into the spatial index. Members absent
// from the store are skipped for the tick; one group's trouble never
// stops the others.
func (c *Coordinator) Tick(npcPositions map[string]Position, speed float64) {
	c.tick++

	ids := make([]string, 0, len(c.targets))
	for id := range c.targets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, groupID := range ids {
		c.updateGroup(groupID, npcPositions, speed)
	}
}

func (c *Coordinator) updateGroup(groupID string, npcPositions map[string]Position, speed float64) {
	target := c.targets[groupID]

	if target.Deadline > 0 && c.tick > target.Deadline {
		delete(c.targets, groupID)
		delete(c.paths, groupID)
		c.moveLog.Add(c.tick, groupID, "--", "target", "expired",
			fmt.Sprintf("deadline=%d", target.Deadline), float64(target.Deadline))
		return
	}

	g := c.registry.GetGroup(groupID)
	if g == nil {
		return
	}
	members := g.Members()

	c.repairFormation(groupID, members, npcPositions)
	formation := c.formations[groupID]

	if c.needsRepath(groupID, members, npcPositions, target, formation) {
		c.moveLog.Add(c.tick, groupID, "--", "path", "recalculated", "", 0)
		c.replan(groupID, members, target)
	}
	path := c.paths[groupID]

	for _, m := range members {
		pos, ok := npcPositions[m.ID]
		if !ok {
			continue
		}

		memberTarget := target.Pos
		if len(path) > 0 {
			if slot, assigned := formation.SlotFor(m.ID); assigned {
				memberTarget = path[0].ToWorld().Add(slot.Offset)
			}
		}

		obstacles := densityAt(c.spatial, m.ID, pos, c.avoidanceRadius)
		var step Position
		if obstacles > 0 {
			step = avoidStep(c.spatial, m.ID, pos, memberTarget, speed, obstacles, c.avoidanceRadius)
		} else {
			step = StepToward(pos, memberTarget, speed)
		}

		next := pos.Add(step)
		npcPositions[m.ID] = next
		c.spatial.UpdateEntity(m.ID, next)
		c.moveLog.AddVerbose(c.tick, groupID, m.ID, "move", "step",
			fmt.Sprintf("(%.2f,%.2f) obstacles=%d", next.X, next.Y, obstacles), float64(obstacles))
	}
}

// repairFormation recomputes slots from the current roster once any
// assigned member has been missing from the position store for
// missedTicksBeforeRepair consecutive ticks. Membership changes alone
// never trigger recomputation; only setting a target or losing an
// assigned member does.
func (c *Coordinator) repairFormation(groupID string, members []Member, npcPositions map[string]Position) {
	formation := c.formations[groupID]
	if formation == nil {
		return
	}
	missed := c.missed[groupID]
	if missed == nil {
		missed = make(map[string]int)
		c.missed[groupID] = missed
	}

	repair := false
	for _, s := range formation.Slots {
		if s.MemberID == "" {
			continue
		}
		if _, ok := npcPositions[s.MemberID]; ok {
			delete(missed, s.MemberID)
			continue
		}
		missed[s.MemberID]++
		if missed[s.MemberID] >= missedTicksBeforeRepair {
			repair = true
		}
	}
	if !repair {
		return
	}

	present := make([]Member, 0, len(members))
	for _, m := range members {
		if _, ok := npcPositions[m.ID]; ok {
			present = append(present, m)
		}
	}
	c.formations[groupID] = ComputeFormation(present, c.spacing)
	c.missed[groupID] = make(map[string]int)
	c.moveLog.Add(c.tick, groupID, "--", "formation", "recomputed",
		fmt.Sprintf("%d members present", len(present)), float64(len(present)))
}

// needsRepath reports whether the group needs a fresh path: no path is
// stored, some member with a known position and an assigned slot has
// drifted more than repathDriftFactor x spacing from its slot target, or
// the whole group has settled on the lead waypoint while that waypoint is
// not yet the target's own cell. The last case is how a group walks a
// multi-waypoint path: replanning from the settled position yields the
// next leg, and the final leg's lead waypoint is the target cell itself.
func (c *Coordinator) needsRepath(groupID string, members []Member, npcPositions map[string]Position, target MovementTarget, formation *Formation) bool {
	path := c.paths[groupID]
	if len(path) == 0 {
		return true
	}
	lead := path[0].ToWorld()
	limit := repathDriftFactor * c.spacing
	advance := path[0] != target.Pos.ToGrid()
	measured := 0
	for _, m := range members {
		pos, ok := npcPositions[m.ID]
		if !ok {
			continue
		}
		slot, assigned := formation.SlotFor(m.ID)
		if !assigned {
			continue
		}
		measured++
		d := Dist(pos, lead.Add(slot.Offset))
		if d > limit {
			return true
		}
		if d > DefaultReachThreshold {
			advance = false
		}
	}
	return advance && measured > 0
}

// HasReachedTarget reports whether every group member is within threshold
// of its slot-adjusted target. Any member without a known position, a
// group without a live target, or a stored path whose lead waypoint is
// still short of the target cell makes the check false.
func (c *Coordinator) HasReachedTarget(groupID string, threshold float64) bool {
	target, ok := c.targets[groupID]
	if !ok {
		return false
	}
	g := c.registry.GetGroup(groupID)
	if g == nil || g.Size() == 0 {
		return false
	}
	formation := c.formations[groupID]
	path := c.paths[groupID]
	if len(path) > 0 && path[0] != target.Pos.ToGrid() {
		return false
	}

	for _, m := range g.Members() {
		pos, resolved := c.spatial.EntityPosition(m.ID)
		if !resolved {
			return false
		}
		memberTarget := target.Pos
		if len(path) > 0 {
			if slot, assigned := formation.SlotFor(m.ID); assigned {
				memberTarget = path[0].ToWorld().Add(slot.Offset)
			}
		}
		if Dist(pos, memberTarget) > threshold {
			return false
		}
	}
	return true
}

// GroupCenter returns the arithmetic mean of all resolvable member
// positions. The second return is false when no member resolves or the
// group does not exist.
func (c *Coordinator) GroupCenter(groupID string) (Position, bool) {
	g := c.registry.GetGroup(groupID)
	if g == nil {
		return Position{}, false
	}
	return c.centroidOf(g.Members())
}

// GroupTarget returns the live target for the group, if any.
func (c *Coordinator) GroupTarget(groupID string) (MovementTarget, bool) {
	t, ok := c.targets[groupID]
	return t, ok
}

// GroupPath returns the stored waypoints for the group. The returned
// slice is the live path; callers must not mutate it.
func (c *Coordinator) GroupPath(groupID string) []GridPosition {
	return c.paths[groupID]
}

// GroupFormation returns the stored formation for the group, or nil.
func (c *Coordinator) GroupFormation(groupID string) *Formation {
	return c.formations[groupID]
}
