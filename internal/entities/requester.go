package entities

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

// ParseRole treats anything but admin as a regular user.
func ParseRole(raw string) Role {
	if Role(raw) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// Requester is the authenticated caller of a workflow operation.
type Requester struct {
	ID   string
	Role Role
}

func (r Requester) IsAdmin() bool {
	return r.Role == RoleAdmin
}

func (r Requester) IsAuthenticated() bool {
	return r.ID != ""
}
