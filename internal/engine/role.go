package engine

// Role identifies the seven player roles. Roles are dealt at setup; the base
// rules apply to all of them.
type Role int

const (
	RoleContingencyPlanner Role = iota + 1
	RoleOperationsExpert
	RoleDispatcher
	RoleQuarantineSpecialist
	RoleMedic
	RoleResearcher
	RoleScientist
)

var roleNames = map[Role]string{
	RoleContingencyPlanner:   "contingency planner",
	RoleOperationsExpert:     "operations expert",
	RoleDispatcher:           "dispatcher",
	RoleQuarantineSpecialist: "quarantine specialist",
	RoleMedic:                "medic",
	RoleResearcher:           "researcher",
	RoleScientist:            "scientist",
}

func (r Role) String() string {
	if s, ok := roleNames[r]; ok {
		return s
	}
	return "unknown"
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// AllRoles returns the seven roles in order.
func AllRoles() []Role {
	return []Role{
		RoleContingencyPlanner, RoleOperationsExpert, RoleDispatcher,
		RoleQuarantineSpecialist, RoleMedic, RoleResearcher, RoleScientist,
	}
}
