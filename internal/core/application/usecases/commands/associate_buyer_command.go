package commands

import (
	"errors"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrAssociateBuyerCommandIsNotConstructed = errors.New(
		"AssociateBuyerCommand must be created via NewAssociateBuyerCommand constructor",
	)
)

// AssociateBuyerCommand binds a buyer to an order at Order Placed. Admins only.
type AssociateBuyerCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   identity.Principal
	buyerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssociateBuyerCommand(orderID kernel.UUID, actor identity.Principal, buyerID kernel.UUID) (AssociateBuyerCommand, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return AssociateBuyerCommand{}, err
	}
	if err := errors.Join(orderID.Validate(), buyerID.Validate()); err != nil {
		return AssociateBuyerCommand{}, err
	}

	return AssociateBuyerCommand{
		orderID: orderID,
		actor:   actor,
		buyerID: buyerID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AssociateBuyerCommand) Validate() error {
	return c.guard.Validate(ErrAssociateBuyerCommandIsNotConstructed)
}

func (c AssociateBuyerCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssociateBuyerCommand) Actor() identity.Principal {
	return c.actor
}

func (c AssociateBuyerCommand) BuyerID() kernel.UUID {
	return c.buyerID
}
