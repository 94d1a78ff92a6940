// Package queries contains the read-only operations. Handlers read committed
// state through repositories of a unit of work that is never begun, so every
// query sees the latest commit and holds no transaction.
package queries

import (
	"errors"

	"ordertracker/internal/core/application/views"
	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrGetBuyerActiveOrderQueryIsNotConstructed = errors.New(
		"GetBuyerActiveOrderQuery must be created via NewGetBuyerActiveOrderQuery constructor",
	)
)

// GetBuyerActiveOrderQuery fetches the caller's single non-deleted order.
//
// Example:
//
//	query, err := NewGetBuyerActiveOrderQuery(principal)
//	if err != nil {
//	    return err
//	}
//	resp, err := handler.Handle(ctx, query)
//	if resp.Order == nil {
//	    // the buyer may place a new order
//	}
type GetBuyerActiveOrderQuery struct {
	buyer identity.Principal

	guard guard.ConstructorGuard
}

func NewGetBuyerActiveOrderQuery(buyer identity.Principal) (GetBuyerActiveOrderQuery, error) {
	if err := buyer.Require(identity.RoleBuyer); err != nil {
		return GetBuyerActiveOrderQuery{}, err
	}
	return GetBuyerActiveOrderQuery{buyer: buyer, guard: guard.NewConstructorGuard()}, nil
}

func (q GetBuyerActiveOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetBuyerActiveOrderQueryIsNotConstructed)
}

func (q GetBuyerActiveOrderQuery) Buyer() identity.Principal {
	return q.buyer
}

// GetBuyerActiveOrderQueryResponse holds a nil Order when the buyer has none.
type GetBuyerActiveOrderQueryResponse struct {
	Order *views.Order `json:"order"`
}
