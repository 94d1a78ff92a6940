package commands

import (
	"errors"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrSoftDeleteOrderCommandIsNotConstructed = errors.New(
		"SoftDeleteOrderCommand must be created via NewSoftDeleteOrderCommand constructor",
	)
)

// SoftDeleteOrderCommand hides an order from every active view. The bound
// seller is the only caller allowed.
type SoftDeleteOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   identity.Principal

	guard guard.ConstructorGuard
}

func NewSoftDeleteOrderCommand(orderID kernel.UUID, actor identity.Principal) (SoftDeleteOrderCommand, error) {
	if err := actor.Require(identity.RoleSeller); err != nil {
		return SoftDeleteOrderCommand{}, err
	}
	if err := orderID.Validate(); err != nil {
		return SoftDeleteOrderCommand{}, err
	}

	return SoftDeleteOrderCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c SoftDeleteOrderCommand) Validate() error {
	return c.guard.Validate(ErrSoftDeleteOrderCommandIsNotConstructed)
}

func (c SoftDeleteOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c SoftDeleteOrderCommand) Actor() identity.Principal {
	return c.actor
}
