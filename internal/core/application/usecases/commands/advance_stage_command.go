package commands

import (
	"errors"

	"ordertracker/internal/core/domain/model/identity"
	"ordertracker/internal/core/domain/model/kernel"
	"ordertracker/internal/pkg/guard"
)

var (
	ErrAdvanceStageCommandIsNotConstructed = errors.New(
		"AdvanceStageCommand must be created via NewAdvanceStageCommand constructor",
	)
)

// AdvanceStageCommand moves an order to its single next stage.
// Only the seller bound to the order may issue it.
type AdvanceStageCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   identity.Principal

	guard guard.ConstructorGuard
}

func NewAdvanceStageCommand(orderID kernel.UUID, actor identity.Principal) (AdvanceStageCommand, error) {
	if err := actor.Require(identity.RoleSeller); err != nil {
		return AdvanceStageCommand{}, err
	}
	if err := orderID.Validate(); err != nil {
		return AdvanceStageCommand{}, err
	}

	return AdvanceStageCommand{
		orderID: orderID,
		actor:   actor,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceStageCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStageCommandIsNotConstructed)
}

func (c AdvanceStageCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AdvanceStageCommand) Actor() identity.Principal {
	return c.actor
}
