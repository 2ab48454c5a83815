package domain

// RoleID is the numeric identifier of a role as stored in the credential store.
type RoleID int

const (
	RoleLearner    RoleID = 1
	RoleSupervisor RoleID = 2
	RoleAdmin      RoleID = 3
)

// Role names carried in token claims and used by route guards.
const (
	RoleNameLearner    = "LEARNER"
	RoleNameSupervisor = "SUPERVISOR"
	RoleNameAdmin      = "ADMIN"
	RoleNameUnknown    = "UNKNOWN"
)

var roleNames = map[RoleID]string{
	RoleLearner:    RoleNameLearner,
	RoleSupervisor: RoleNameSupervisor,
	RoleAdmin:      RoleNameAdmin,
}

// Role is a row of the fixed role catalogue.
type Role struct {
	ID          RoleID `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Name maps a role id to its claim name. Unknown ids map to "UNKNOWN".
func (r RoleID) Name() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return RoleNameUnknown
}

// Valid reports whether r is one of the enumerated roles.
func (r RoleID) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// DefaultRoles is the catalogue seeded into an empty store.
func DefaultRoles() []Role {
	return []Role{
		{ID: RoleLearner, Name: RoleNameLearner, Description: "Learner user"},
		{ID: RoleSupervisor, Name: RoleNameSupervisor, Description: "Supervisor user"},
		{ID: RoleAdmin, Name: RoleNameAdmin, Description: "Administrator user"},
	}
}
