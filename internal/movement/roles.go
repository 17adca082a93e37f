package movement

// Role identifies a member's function within a group. The enum is closed
// and explicitly ordered: the leader sorts first, and the remaining roles
// are declared in lexicographic order of their names so formation
// assignment does not depend on locale- or casing-sensitive string
// comparison.
type Role int

const (
	RoleLeader Role = iota
	RoleAdvisor
	RoleDeputy
	RoleGuard
	RoleMember
	RoleScout
)

func (r Role) String() string {
	switch r {
	case RoleLeader:
		return "leader"
	case RoleAdvisor:
		return "advisor"
	case RoleDeputy:
		return "deputy"
	case RoleGuard:
		return "guard"
	case RoleMember:
		return "member"
	case RoleScout:
		return "scout"
	default:
		return "unknown"
	}
}
