package movement

import (
	"math"
	"testing"
)

func TestRoleForScore_Thresholds(t *testing.T) {
	cases := []struct {
		score float64
		want  Role
	}{
		{95, RoleDeputy}, {80, RoleDeputy},
		{79.9, RoleAdvisor}, {70, RoleAdvisor},
		{69.9, RoleMember}, {0, RoleMember},
	}
	for _, c := range cases {
		if got := RoleForScore(c.score); got != c.want {
			t.Fatalf("RoleForScore(%.1f) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestScoreCandidates_WeightsAndOrder(t *testing.T) {
	s := NewSpatialIndex(0)
	s.UpdateEntity("init", Position{X: 0, Y: 0})
	s.UpdateEntity("close", Position{X: 10, Y: 0})
	s.UpdateEntity("far", Position{X: 90, Y: 0})

	rec := &Recruiter{Spatial: s, ProximityRange: 100}
	goal := Goal{Type: "hunt", Priority: 0.5}
	initiator := Candidate{
		ID:            "init",
		Faction:       "red",
		Goals:         []Goal{goal},
		Relationships: map[string]float64{"close": 50, "far": 50},
	}
	near := Candidate{ID: "close", Faction: "red", Goals: []Goal{goal}}
	far := Candidate{ID: "far", Faction: "red", Goals: []Goal{goal}}

	scores := rec.ScoreCandidates(initiator, []Candidate{far, near, initiator})
	if len(scores) != 2 {
		t.Fatalf("initiator must be skipped, got %d scores", len(scores))
	}
	if scores[0].ID != "close" {
		t.Fatalf("nearer candidate should rank first, got %q", scores[0].ID)
	}

	// affinity = 50*0.7 + 100*0.3 = 65; proximity = 90; goals = 100
	// score = 65*0.4 + 90*0.2 + 100*0.4 = 84
	if math.Abs(scores[0].Score-84) > 1e-9 {
		t.Fatalf("expected score 84 for close candidate, got %v", scores[0].Score)
	}
}

func TestGoalAlignmentScore(t *testing.T) {
	a := Candidate{ID: "a", Goals: []Goal{
		{Type: "hunt", Priority: 0.5},
		{Type: "trade", Priority: 0.9},
	}}
	b := Candidate{ID: "b", Goals: []Goal{
		{Type: "hunt", Priority: 0.6},  // within tolerance
		{Type: "trade", Priority: 0.2}, // too far apart
	}}
	if got := goalAlignmentScore(a, b); math.Abs(got-50) > 1e-9 {
		t.Fatalf("expected 50 (one of two goals shared), got %v", got)
	}
	if got := goalAlignmentScore(Candidate{}, b); got != 0 {
		t.Fatalf("no goals should score 0, got %v", got)
	}
}

func TestFormGroup_RolesAndMinimum(t *testing.T) {
	s := NewSpatialIndex(0)
	for _, id := range []string{"init", "strong", "ok", "weak"} {
		s.UpdateEntity(id, Position{})
	}
	rec := &Recruiter{Spatial: s, ProximityRange: 100}
	roster := NewRoster()

	goal := Goal{Type: "hunt", Priority: 0.5}
	initiator := Candidate{
		ID:      "init",
		Faction: "red",
		Goals:   []Goal{goal},
		Relationships: map[string]float64{
			"strong": 100, // affinity 100 -> score 40 + 20 + 40 = 100
			"ok":     30,  // affinity 51  -> score 20.4 + 20 + 40 = 80.4
			"weak":   0,   // affinity 30  -> score 12 + 20 + 40 = 72
		},
	}
	cands := []Candidate{
		{ID: "strong", Faction: "red", Goals: []Goal{goal}},
		{ID: "ok", Faction: "red", Goals: []Goal{goal}},
		{ID: "weak", Faction: "red", Goals: []Goal{goal}},
	}

	g := rec.FormGroup(roster, "hunters", initiator, cands, 75, 2, 10)
	if g == nil {
		t.Fatal("expected a group")
	}
	lead, _ := g.Member("init")
	if lead.Role != RoleLeader {
		t.Fatalf("initiator should lead, got %s", lead.Role)
	}
	strong, _ := g.Member("strong")
	if strong.Role != RoleDeputy {
		t.Fatalf("top recruit should be deputy, got %s", strong.Role)
	}
	if _, ok := g.Member("weak"); ok {
		t.Fatal("below-threshold candidate must not join")
	}

	// Raising the minimum membership past what qualifies yields no group.
	if g := rec.FormGroup(roster, "too-small", initiator, cands, 99, 3, 10); g != nil {
		t.Fatal("expected nil group when too few candidates qualify")
	}
}

func TestFormGroup_RespectsMaxMembers(t *testing.T) {
	s := NewSpatialIndex(0)
	rec := &Recruiter{Spatial: s, ProximityRange: 100}
	roster := NewRoster()

	goal := Goal{Type: "hunt", Priority: 0.5}
	initiator := Candidate{ID: "init", Faction: "red", Goals: []Goal{goal},
		Relationships: map[string]float64{}}
	var cands []Candidate
	for _, id := range []string{"a", "b", "c", "d"} {
		initiator.Relationships[id] = 100
		cands = append(cands, Candidate{ID: id, Faction: "red", Goals: []Goal{goal}})
	}

	g := rec.FormGroup(roster, "capped", initiator, cands, 0, 1, 3)
	if g == nil {
		t.Fatal("expected a group")
	}
	if g.Size() != 3 {
		t.Fatalf("expected the cap of 3 total members, got %d", g.Size())
	}
}
