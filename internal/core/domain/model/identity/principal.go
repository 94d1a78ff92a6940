package identity

import (
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/errs"
)

// Principal is the authenticated caller of an operation.
type Principal struct {
	ID   kernel.UUID
	Role Role
}

func (p Principal) Validate() error {
	if err := p.ID.Validate(); err != nil {
		return errs.NewUnauthorizedError("principal has no identity")
	}
	if err := p.Role.Validate(); err != nil {
		return errs.NewUnauthorizedError("principal has no valid role")
	}
	return nil
}

func (p Principal) Is(role Role) bool {
	return p.Role == role
}

// Require fails with a ForbiddenError unless the principal holds one of roles.
func (p Principal) Require(roles ...Role) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for _, role := range roles {
		if p.Role == role {
			return nil
		}
	}
	return errs.NewForbiddenError(p.Role.String())
}
