package movement

import (
	"fmt"
	"sort"
	"strings"
)

// GroupRunStats aggregates one group's movement events over a run.
type GroupRunStats struct {
	GroupID      string
	TargetsSet   int
	Expired      int
	PathsPlanned int
	Recalcs      int
	PlanFailures int
	FormRecalcs  int
	Reached      bool
	Center       Position
	CenterKnown  bool
}

// RunReport summarizes a headless simulation run for humans. It is built
// from the harness MoveLog plus final coordinator state.
type RunReport struct {
	Ticks  int
	Speed  float64
	Groups []GroupRunStats
}

// BuildReport aggregates the sim's move log into a RunReport, evaluating
// arrival at the given threshold.
func BuildReport(s *Sim, threshold float64) RunReport {
	byGroup := make(map[string]*GroupRunStats)
	stats := func(id string) *GroupRunStats {
		st, ok := byGroup[id]
		if !ok {
			st = &GroupRunStats{GroupID: id}
			byGroup[id] = st
		}
		return st
	}

	for _, e := range s.MoveLog.Entries() {
		st := stats(e.GroupID)
		switch e.Category + "/" + e.Key {
		case "target/set":
			st.TargetsSet++
		case "target/expired":
			st.Expired++
		case "path/planned":
			st.PathsPlanned++
		case "path/recalculated":
			st.Recalcs++
		case "path/plan_failed":
			st.PlanFailures++
		case "formation/recomputed":
			st.FormRecalcs++
		}
	}

	for id, st := range byGroup {
		st.Reached = s.Coordinator.HasReachedTarget(id, threshold)
		st.Center, st.CenterKnown = s.Coordinator.GroupCenter(id)
	}

	report := RunReport{Ticks: s.Ticks, Speed: s.Speed}
	ids := make([]string, 0, len(byGroup))
	for id := range byGroup {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		report.Groups = append(report.Groups, *byGroup[id])
	}
	return report
}

// String renders the report as fixed-width text suitable for a terminal
// or the clipboard.
func (r RunReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "--- groupmove run report ---\n")
	fmt.Fprintf(&b, "ticks=%d speed=%.2f groups=%d\n\n", r.Ticks, r.Speed, len(r.Groups))
	fmt.Fprintf(&b, "%-14s %7s %7s %8s %7s %7s %8s %8s  %s\n",
		"group", "targets", "expired", "planned", "recalc", "failed", "reform", "reached", "center")
	for _, g := range r.Groups {
		center := "unknown"
		if g.CenterKnown {
			center = fmt.Sprintf("(%.1f,%.1f)", g.Center.X, g.Center.Y)
		}
		fmt.Fprintf(&b, "%-14s %7d %7d %8d %7d %7d %8d %8v  %s\n",
			shortID(g.GroupID), g.TargetsSet, g.Expired, g.PathsPlanned,
			g.Recalcs, g.PlanFailures, g.FormRecalcs, g.Reached, center)
	}
	return b.String()
}
