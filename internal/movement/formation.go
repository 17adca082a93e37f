package movement

import (
	"math"
	"sort"
)

// DefaultFormationSpacing is the gap in world units between adjacent
// formation slots.
const DefaultFormationSpacing = 2.0

// FormationSlot is one place in a group's grid formation. Offset is
// relative to the group's lead waypoint. MemberID is empty while the
// slot is unassigned.
type FormationSlot struct {
	Offset   Position
	MemberID string
	Role     Role
}

// Formation is a computed rows x cols slot grid for one group. Exactly
// one slot per member carries an assignment; surplus slots stay empty.
type Formation struct {
	Slots   []FormationSlot
	Rows    int
	Cols    int
	Spacing float64
}

// SlotFor returns the slot assigned to memberID.
func (f *Formation) SlotFor(memberID string) (FormationSlot, bool) {
	if f == nil {
		return FormationSlot{}, false
	}
	for _, s := range f.Slots {
		if s.MemberID == memberID {
			return s, true
		}
	}
	return FormationSlot{}, false
}

// AssignedCount returns how many slots carry a member.
func (f *Formation) AssignedCount() int {
	n := 0
	for _, s := range f.Slots {
		if s.MemberID != "" {
			n++
		}
	}
	return n
}

// FormationWidth returns the column count used for a group of n members:
// the smallest square-ish grid, ceil(sqrt(n)).
func FormationWidth(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

// ComputeFormation builds the slot grid for the given members and assigns
// each member a slot.
//
// Slots are generated row-major and centered on the lead waypoint. The
// assignment is deliberately asymmetric, in two phases:
//
//  1. Members are stable-sorted so the leader comes first and the rest
//     follow in role order (ties keep roster order). The leader takes the
//     generated slot closest to the formation origin, earliest-generated
//     slot winning ties.
//  2. Every other member takes the next unassigned slot in generation
//     order — not distance order.
//
// Phase 2 ignoring distance is what gives squads their characteristic
// shapes; both phases are covered by dedicated tests.
func ComputeFormation(members []Member, spacing float64) *Formation {
	n := len(members)
	if n == 0 {
		return &Formation{Spacing: spacing}
	}
	if spacing <= 0 {
		spacing = DefaultFormationSpacing
	}

	cols := FormationWidth(n)
	rows := int(math.Ceil(float64(n) / float64(cols)))

	slots := make([]FormationSlot, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			slots = append(slots, FormationSlot{Offset: Position{
				X: (float64(col) - float64(cols-1)/2) * spacing,
				Y: (float64(row) - float64(rows-1)/2) * spacing,
			}})
		}
	}

	sorted := make([]Member, n)
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Role < sorted[j].Role
	})

	// Phase 1: leader to the slot nearest the origin.
	best := 0
	bestDist := math.Inf(1)
	for i, s := range slots {
		d := s.Offset.Len()
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	slots[best].MemberID = sorted[0].ID
	slots[best].Role = sorted[0].Role

	// Phase 2: everyone else fills remaining slots in generation order.
	next := 0
	for _, m := range sorted[1:] {
		for next < len(slots) && slots[next].MemberID != "" {
			next++
		}
		if next >= len(slots) {
			break
		}
		slots[next].MemberID = m.ID
		slots[next].Role = m.Role
		next++
	}

	return &Formation{Slots: slots, Rows: rows, Cols: cols, Spacing: spacing}
}
