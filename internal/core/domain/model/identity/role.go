package identity

import (
	"fmt"
	"strings"

	"ordertracker/internal/pkg/errs"
)

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// ParseRole accepts the lowercase role names, ignoring surrounding whitespace and case.
func ParseRole(s string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(s)))
	if err := role.Validate(); err != nil {
		return "", err
	}
	return role, nil
}

func (r Role) Validate() error {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return nil
	case "":
		return errs.NewValueIsRequiredError("role")
	default:
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not one of buyer, seller, admin", string(r)))
	}
}

func (r Role) String() string {
	return string(r)
}
