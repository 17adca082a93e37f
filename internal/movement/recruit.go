package movement

import (
	"math"
	"sort"
)

// Candidate is an agent profile considered for group membership.
type Candidate struct {
	ID            string
	Faction       string
	Goals         []Goal
	Relationships map[string]float64 // other id -> relationship score 0..100
}

// Goal is a weighted objective used for alignment scoring.
type Goal struct {
	Type     string
	Priority float64
}

// RecruitScore is the scored outcome for one candidate.
type RecruitScore struct {
	ID            string
	Score         float64
	Affinity      float64
	Proximity     float64
	GoalAlignment float64
}

// Recruiting weights: affinity and goal alignment dominate, proximity is
// a lighter tie-breaker.
const (
	recruitAffinityWeight  = 0.4
	recruitProximityWeight = 0.2
	recruitGoalWeight      = 0.4
)

// goalPriorityTolerance is how close two goal priorities must be to count
// as shared.
const goalPriorityTolerance = 0.2

// Recruiter scores candidates for membership in a new group and assigns
// starting roles by score. Positions come from the spatial index;
// proximityRange is the distance at which the proximity score reaches
// zero.
type Recruiter struct {
	Spatial        *SpatialIndex
	ProximityRange float64
}

// ScoreCandidates evaluates every candidate against the initiator and
// returns them sorted by descending score. Candidates sharing the
// initiator's id are skipped.
func (r *Recruiter) ScoreCandidates(initiator Candidate, candidates []Candidate) []RecruitScore {
	scores := make([]RecruitScore, 0, len(candidates))
	for _, cand := range candidates {
		if cand.ID == initiator.ID {
			continue
		}
		s := RecruitScore{
			ID:            cand.ID,
			Affinity:      affinityScore(initiator, cand),
			Proximity:     r.proximityScore(initiator.ID, cand.ID),
			GoalAlignment: goalAlignmentScore(initiator, cand),
		}
		s.Score = s.Affinity*recruitAffinityWeight +
			s.Proximity*recruitProximityWeight +
			s.GoalAlignment*recruitGoalWeight
		scores = append(scores, s)
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores
}

// FormGroup creates a roster group led by the initiator and fills it with
// the best-scoring candidates at or above minScore, up to maxMembers
// total. Returns nil if fewer than minMembers would join.
func (r *Recruiter) FormGroup(roster *Roster, name string, initiator Candidate, candidates []Candidate, minScore float64, minMembers, maxMembers int) *Group {
	scores := r.ScoreCandidates(initiator, candidates)
	selected := scores[:0]
	for _, s := range scores {
		if s.Score >= minScore {
			selected = append(selected, s)
		}
	}
	if len(selected)+1 < minMembers {
		return nil
	}
	if len(selected) > maxMembers-1 {
		selected = selected[:maxMembers-1]
	}

	g := roster.CreateGroup(name)
	roster.AddMember(g.ID, initiator.ID, RoleLeader)
	for _, s := range selected {
		roster.AddMember(g.ID, s.ID, RoleForScore(s.Score))
	}
	return g
}

// RoleForScore maps a recruit score to a starting role: the strongest
// recruits become deputies, good ones advisors, the rest plain members.
func RoleForScore(score float64) Role {
	switch {
	case score >= 80:
		return RoleDeputy
	case score >= 70:
		return RoleAdvisor
	default:
		return RoleMember
	}
}

// affinityScore blends relationship score and faction alignment onto a
// 0..100 scale.
func affinityScore(a, b Candidate) float64 {
	rel := a.Relationships[b.ID]
	faction := 0.0
	if a.Faction != "" && a.Faction == b.Faction {
		faction = 100
	}
	return rel*0.7 + faction*0.3
}

// goalAlignmentScore is the share of the initiator's goals the candidate
// shares (same type, priority within tolerance), on a 0..100 scale.
func goalAlignmentScore(a, b Candidate) float64 {
	if len(a.Goals) == 0 {
		return 0
	}
	shared := 0
	for _, ga := range a.Goals {
		for _, gb := range b.Goals {
			if ga.Type == gb.Type && math.Abs(ga.Priority-gb.Priority) <= goalPriorityTolerance {
				shared++
				break
			}
		}
	}
	return 100 * float64(shared) / float64(len(a.Goals))
}

// proximityScore maps spatial distance onto 0..100, hitting zero at
// ProximityRange. Unresolvable positions score zero.
func (r *Recruiter) proximityScore(aID, bID string) float64 {
	if r.Spatial == nil || r.ProximityRange <= 0 {
		return 0
	}
	pa, okA := r.Spatial.EntityPosition(aID)
	pb, okB := r.Spatial.EntityPosition(bID)
	if !okA || !okB {
		return 0
	}
	score := 1 - Dist(pa, pb)/r.ProximityRange
	if score < 0 {
		return 0
	}
	return 100 * score
}
