package commands

import (
	"errors"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrAssociateSellerCommandIsNotConstructed = errors.New(
		"AssociateSellerCommand must be created via NewAssociateSellerCommand constructor",
	)
)

// AssociateSellerCommand binds a seller to an order at Buyer Associated. Admins only.
type AssociateSellerCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	actor    identity.Principal
	sellerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssociateSellerCommand(orderID kernel.UUID, actor identity.Principal, sellerID kernel.UUID) (AssociateSellerCommand, error) {
	if err := actor.Require(identity.RoleAdmin); err != nil {
		return AssociateSellerCommand{}, err
	}
	if err := errors.Join(orderID.Validate(), sellerID.Validate()); err != nil {
		return AssociateSellerCommand{}, err
	}

	return AssociateSellerCommand{
		orderID:  orderID,
		actor:    actor,
		sellerID: sellerID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AssociateSellerCommand) Validate() error {
	return c.guard.Validate(ErrAssociateSellerCommandIsNotConstructed)
}

func (c AssociateSellerCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssociateSellerCommand) Actor() identity.Principal {
	return c.actor
}

func (c AssociateSellerCommand) SellerID() kernel.UUID {
	return c.sellerID
}
