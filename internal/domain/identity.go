package domain

import "errors"

type Role string

// remember to add new roles to the validRoles map
const (
	RoleShopper Role = "shopper"
	RoleAdmin   Role = "admin"
)

var validRoles = map[Role]struct{}{
	RoleShopper: {},
	RoleAdmin:   {},
}

func ToRole(s string) (Role, error) {
	role := Role(s)
	if _, ok := validRoles[role]; ok {
		return role, nil
	}

	return "", errors.New("invalid role")
}

// Identity is the resolved acting user. Privilege is carried by the Role
// claim of the verified token, there is no separate admin credential.
type Identity struct {
	Subject string
	Email   string
	Role    Role
}

func (i Identity) IsZero() bool {
	return i.Subject == ""
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
