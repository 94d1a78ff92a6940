package queries

import (
	"errors"

	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListSellerOrdersQuery or NewListAllOrdersQuery constructor",
	)
)

// ListOrdersQuery lists non-deleted orders, newest first. A seller sees the
// orders bound to them; an admin sees every order.
type ListOrdersQuery struct {
	actor identity.Principal

	guard guard.ConstructorGuard
}

func NewListSellerOrdersQuery(seller identity.Principal) (ListOrdersQuery, error) {
	if err := seller.Require(identity.RoleSeller); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{actor: seller, guard: guard.NewConstructorGuard()}, nil
}

func NewListAllOrdersQuery(admin identity.Principal) (ListOrdersQuery, error) {
	if err := admin.Require(identity.RoleAdmin); err != nil {
		return ListOrdersQuery{}, err
	}
	return ListOrdersQuery{actor: admin, guard: guard.NewConstructorGuard()}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() identity.Principal {
	return q.actor
}

type ListOrdersQueryResponse struct {
	Orders []views.Order `json:"orders"`
}
