package movement

import "github.com/google/uuid"

// Member is one agent enrolled in a group.
type Member struct {
	ID   string
	Role Role
}

// Group is an ordered roster of members sharing movement goals. Member
// order is insertion order; formation assignment depends on it for its
// stable-sort tie-break, so it is preserved across add/remove.
type Group struct {
	ID      string
	Name    string
	order   []string
	members map[string]Member
}

// Members returns the group's members in insertion order.
func (g *Group) Members() []Member {
	out := make([]Member, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.members[id])
	}
	return out
}

// Member looks up a member by id.
func (g *Group) Member(id string) (Member, bool) {
	m, ok := g.members[id]
	return m, ok
}

// Size returns the member count.
func (g *Group) Size() int {
	return len(g.order)
}

// GroupRegistry is the membership contract the coordinator consumes.
type GroupRegistry interface {
	// GetGroup returns the group for id, or nil if no such group exists.
	GetGroup(id string) *Group
}

// Roster is the in-memory GroupRegistry implementation.
type Roster struct {
	groups map[string]*Group
}

// NewRoster creates an empty roster.
func NewRoster() *Roster {
	return &Roster{groups: make(map[string]*Group)}
}

// CreateGroup registers a new empty group under a generated id.
func (r *Roster) CreateGroup(name string) *Group {
	g := &Group{
		ID:      uuid.NewString(),
		Name:    name,
		members: make(map[string]Member),
	}
	r.groups[g.ID] = g
	return g
}

// AddMember enrolls memberID with the given role. Re-adding an existing
// member updates its role in place and keeps its roster position.
func (r *Roster) AddMember(groupID, memberID string, role Role) bool {
	g, ok := r.groups[groupID]
	if !ok {
		return false
	}
	if _, exists := g.members[memberID]; !exists {
		g.order = append(g.order, memberID)
	}
	g.members[memberID] = Member{ID: memberID, Role: role}
	return true
}

// RemoveMember drops memberID from the group, preserving the relative
// order of the remaining members.
func (r *Roster) RemoveMember(groupID, memberID string) bool {
	g, ok := r.groups[groupID]
	if !ok {
		return false
	}
	if _, exists := g.members[memberID]; !exists {
		return false
	}
	delete(g.members, memberID)
	for i, id := range g.order {
		if id == memberID {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return true
}

// RemoveGroup deletes the group entirely.
func (r *Roster) RemoveGroup(groupID string) {
	delete(r.groups, groupID)
}

// GetGroup implements GroupRegistry.
func (r *Roster) GetGroup(id string) *Group {
	return r.groups[id]
}

// Groups returns all group ids. Order is unspecified.
func (r *Roster) Groups() []string {
	ids := make([]string, 0, len(r.groups))
	for id := range r.groups {
		ids = append(ids, id)
	}
	return ids
}
