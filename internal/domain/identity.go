package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// ParseRole accepts either case; identity providers are not consistent.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch role {
	case RoleCustomer, RoleAdmin:
		return role, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrValidation, s)
}

// Identity is the authenticated caller of a request. The zero value is an
// anonymous caller.
type Identity struct {
	UserID string
	Email  string
	Role   Role
}

func (i Identity) Authenticated() bool {
	return i.UserID != "" || i.Email != ""
}

func (i Identity) IsAdmin() bool {
	return i.Authenticated() && i.Role == RoleAdmin
}
