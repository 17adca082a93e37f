package movement

import (
	"log/slog"
	"math/rand"
)

// Sim is a headless simulation harness around a Coordinator. It owns the
// roster, spatial index, and position store, and is used by tests and the
// sim CLI. Construction is option-driven; infrastructure options apply
// before groups, and targets apply last.
type Sim struct {
	Roster      *Roster
	Spatial     *SpatialIndex
	Coordinator *Coordinator
	Positions   map[string]Position
	MoveLog     *MoveLog

	Speed float64
	Ticks int

	groupIDs []string
	rng      *rand.Rand

	planner PathPlanner
	spacing float64
	radius  float64
	verbose bool
	logger  *slog.Logger
	pending []pendingTarget
}

type pendingTarget struct {
	groupIndex int
	target     MovementTarget
}

// simOptionKind controls the pass in which an option is applied.
type simOptionKind int

const (
	simOptInfra  simOptionKind = iota // seed, speed, planner, spacing — applied first
	simOptGroup                       // add groups — applied after infrastructure
	simOptTarget                      // set targets — applied after groups exist
)

// SimOption is a builder function applied to a Sim during construction.
type SimOption struct {
	kind simOptionKind
	fn   func(*Sim)
}

// WithSeed sets the RNG seed for deterministic scatter.
func WithSeed(seed int64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) {
		s.rng = rand.New(rand.NewSource(seed)) // #nosec G404 -- simulation harness
	}}
}

// WithSpeed sets the per-tick movement speed.
func WithSpeed(speed float64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.Speed = speed }}
}

// WithFormationSpacing sets the slot spacing passed to the coordinator.
func WithFormationSpacing(spacing float64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.spacing = spacing }}
}

// WithAvoidance sets the congestion probe radius.
func WithAvoidance(radius float64) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.radius = radius }}
}

// WithPlanner overrides the default straight-line planner.
func WithPlanner(p PathPlanner) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.planner = p }}
}

// WithVerbose enables per-tick verbose move logging.
func WithVerbose(v bool) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.verbose = v }}
}

// WithSlog routes coordinator warnings to the given logger.
func WithSlog(l *slog.Logger) SimOption {
	return SimOption{simOptInfra, func(s *Sim) { s.logger = l }}
}

// SimMember seeds one agent: id, role, and starting position.
type SimMember struct {
	ID   string
	Role Role
	At   Position
}

// WithGroup creates a group with the given members, registering their
// starting positions in both the position store and the spatial index.
func WithGroup(name string, members ...SimMember) SimOption {
	return SimOption{simOptGroup, func(s *Sim) {
		g := s.Roster.CreateGroup(name)
		s.groupIDs = append(s.groupIDs, g.ID)
		for _, m := range members {
			s.Roster.AddMember(g.ID, m.ID, m.Role)
			s.Positions[m.ID] = m.At
			s.Spatial.UpdateEntity(m.ID, m.At)
		}
	}}
}

// WithTarget queues a movement target for the n-th created group
// (creation order).
func WithTarget(groupIndex int, target MovementTarget) SimOption {
	return SimOption{simOptTarget, func(s *Sim) {
		s.pending = append(s.pending, pendingTarget{groupIndex: groupIndex, target: target})
	}}
}

// NewSim builds a harness, applying options in kind order.
func NewSim(opts ...SimOption) *Sim {
	s := &Sim{
		Roster:    NewRoster(),
		Spatial:   NewSpatialIndex(0),
		Positions: make(map[string]Position),
		Speed:     1,
		spacing:   DefaultFormationSpacing,
		radius:    DefaultAvoidanceRadius,
		rng:       rand.New(rand.NewSource(1)), // #nosec G404 -- simulation harness
	}
	for _, kind := range []simOptionKind{simOptInfra, simOptGroup, simOptTarget} {
		for _, opt := range opts {
			if opt.kind == kind {
				if kind == simOptInfra {
					opt.fn(s)
					continue
				}
				if s.Coordinator == nil {
					s.finishInfra()
				}
				opt.fn(s)
			}
		}
	}
	if s.Coordinator == nil {
		s.finishInfra()
	}
	for _, p := range s.pending {
		if p.groupIndex >= 0 && p.groupIndex < len(s.groupIDs) {
			s.Coordinator.SetGroupTarget(s.groupIDs[p.groupIndex], p.target)
		}
	}
	s.pending = nil
	return s
}

func (s *Sim) finishInfra() {
	if s.planner == nil {
		s.planner = &WaypointPlanner{}
	}
	s.MoveLog = NewMoveLog(s.verbose)
	copts := []CoordinatorOption{
		WithSpacing(s.spacing),
		WithAvoidanceRadius(s.radius),
		WithMoveLog(s.MoveLog),
	}
	if s.logger != nil {
		copts = append(copts, WithLogger(s.logger))
	}
	s.Coordinator = NewCoordinator(s.Roster, s.planner, s.Spatial, copts...)
}

// GroupID returns the id of the n-th created group.
func (s *Sim) GroupID(n int) string {
	return s.groupIDs[n]
}

// ScatterMember places an agent uniformly inside the given bounds.
func (s *Sim) ScatterMember(id string, w, h float64) Position {
	pos := Position{X: s.rng.Float64() * w, Y: s.rng.Float64() * h}
	s.Positions[id] = pos
	s.Spatial.UpdateEntity(id, pos)
	return pos
}

// Step advances the simulation one tick.
func (s *Sim) Step() {
	s.Coordinator.Tick(s.Positions, s.Speed)
	s.Ticks++
}

// Run advances the simulation n ticks.
func (s *Sim) Run(n int) {
	for i := 0; i < n; i++ {
		s.Step()
	}
}

// RunUntilReached steps until every listed group reports arrival within
// threshold, or maxTicks elapses. Returns true if all groups arrived.
func (s *Sim) RunUntilReached(threshold float64, maxTicks int, groupIndexes ...int) bool {
	for i := 0; i < maxTicks; i++ {
		s.Step()
		all := true
		for _, gi := range groupIndexes {
			if !s.Coordinator.HasReachedTarget(s.groupIDs[gi], threshold) {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}
