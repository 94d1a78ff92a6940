package queries

import (
	"errors"

	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrListIdentitiesQueryIsNotConstructed = errors.New(
		"ListIdentitiesQuery must be created via NewListIdentitiesQuery constructor",
	)
)

// ListIdentitiesQuery is the admin directory of buyers or sellers, used to
// pick whom to associate with an order.
type ListIdentitiesQuery struct {
	role identity.Role

	guard guard.ConstructorGuard
}

func NewListIdentitiesQuery(admin identity.Principal, role identity.Role) (ListIdentitiesQuery, error) {
	if err := admin.Require(identity.RoleAdmin); err != nil {
		return ListIdentitiesQuery{}, err
	}
	if err := role.Validate(); err != nil {
		return ListIdentitiesQuery{}, err
	}
	return ListIdentitiesQuery{role: role, guard: guard.NewConstructorGuard()}, nil
}

func (q ListIdentitiesQuery) Validate() error {
	return q.guard.Validate(ErrListIdentitiesQueryIsNotConstructed)
}

func (q ListIdentitiesQuery) Role() identity.Role {
	return q.role
}

type ListIdentitiesQueryResponse struct {
	Identities []views.Party
}
